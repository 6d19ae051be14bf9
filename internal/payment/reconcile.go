package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"staybook/internal/booking"
)

// Bookings is the read side; payment never writes booking.status.
type Bookings interface {
	Get(ctx context.Context, id int64) (*booking.Booking, error)
}

// Store owns the payments table and the payment columns on bookings. This is
// the only component that writes payment_status.
type Store interface {
	Insert(ctx context.Context, rec *PaymentRecord) error
	MarkPaid(ctx context.Context, bookingID int64, gatewayPaymentID string, paidAt time.Time) error
	MarkRefunded(ctx context.Context, bookingID int64, refundedAt time.Time) error
}

// Service reconciles gateway callbacks against bookings.
type Service struct {
	bookings Bookings
	store    Store
	secret   string
	log      *zap.Logger
	clock    func() time.Time
}

func NewService(bookings Bookings, store Store, gatewaySecret string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{bookings: bookings, store: store, secret: gatewaySecret, log: log, clock: time.Now}
}

type RecordPaymentInput struct {
	BookingID        int64
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
	Amount           decimal.Decimal
}

// RecordPayment applies a gateway capture callback. A bad signature writes
// nothing; an amount mismatch is logged as a flagged row and surfaced; a clean
// capture marks the booking paid.
func (s *Service) RecordPayment(ctx context.Context, in RecordPaymentInput) (*booking.Booking, error) {
	if !VerifyGatewaySignature(in.GatewayOrderID, in.GatewayPaymentID, in.Signature, s.secret) {
		s.log.Warn("gateway signature rejected",
			zap.Int64("bookingId", in.BookingID),
			zap.String("orderId", in.GatewayOrderID),
		)
		return nil, ErrSignatureInvalid
	}

	b, err := s.bookings.Get(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	switch b.Status {
	case booking.StatusConfirmed, booking.StatusOngoing, booking.StatusCompleted:
	default:
		return nil, fmt.Errorf("%w: status %s", ErrNotPayable, b.Status)
	}

	now := s.clock()
	rec := &PaymentRecord{
		ID:               uuid.New(),
		BookingID:        in.BookingID,
		GatewayOrderID:   in.GatewayOrderID,
		GatewayPaymentID: in.GatewayPaymentID,
		Amount:           in.Amount,
		Status:           RecordCaptured,
		CreatedAt:        now,
	}

	if !in.Amount.Equal(b.TotalAmount) {
		rec.Status = RecordFlagged
		rec.Note = fmt.Sprintf("expected %s, captured %s", b.TotalAmount, in.Amount)
		if err := s.store.Insert(ctx, rec); err != nil {
			return nil, err
		}
		s.log.Warn("payment amount mismatch",
			zap.Int64("bookingId", in.BookingID),
			zap.String("expected", b.TotalAmount.String()),
			zap.String("captured", in.Amount.String()),
		)
		return nil, fmt.Errorf("%w: %s", ErrAmountMismatch, rec.Note)
	}

	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.store.MarkPaid(ctx, in.BookingID, in.GatewayPaymentID, now); err != nil {
		return nil, err
	}
	return s.bookings.Get(ctx, in.BookingID)
}

// RecordRefund marks the booking refunded. Legal regardless of booking status;
// cancellations can land after payment.
func (s *Service) RecordRefund(ctx context.Context, bookingID int64, refundID string, refundedAt time.Time) (*booking.Booking, error) {
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	rec := &PaymentRecord{
		ID:               uuid.New(),
		BookingID:        bookingID,
		GatewayPaymentID: refundID,
		Amount:           b.TotalAmount,
		Status:           RecordRefund,
		CreatedAt:        s.clock(),
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.store.MarkRefunded(ctx, bookingID, refundedAt); err != nil {
		return nil, err
	}
	return s.bookings.Get(ctx, bookingID)
}
