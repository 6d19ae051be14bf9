package payment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"staybook/internal/booking"
)

type MockBookings struct {
	mock.Mock
}

func (m *MockBookings) Get(ctx context.Context, id int64) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

type MockPaymentStore struct {
	mock.Mock
}

func (m *MockPaymentStore) Insert(ctx context.Context, rec *PaymentRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockPaymentStore) MarkPaid(ctx context.Context, bookingID int64, gatewayPaymentID string, paidAt time.Time) error {
	args := m.Called(ctx, bookingID, gatewayPaymentID, paidAt)
	return args.Error(0)
}

func (m *MockPaymentStore) MarkRefunded(ctx context.Context, bookingID int64, refundedAt time.Time) error {
	args := m.Called(ctx, bookingID, refundedAt)
	return args.Error(0)
}

const testSecret = "gw_secret"

func confirmedBooking() *booking.Booking {
	return &booking.Booking{
		ID:            7,
		UserID:        uuid.New(),
		Status:        booking.StatusConfirmed,
		PaymentStatus: booking.PaymentUnpaid,
		TotalAmount:   decimal.RequireFromString("12500.00"),
	}
}

func captureInput(amount string, sig string) RecordPaymentInput {
	return RecordPaymentInput{
		BookingID:        7,
		GatewayOrderID:   "order_1",
		GatewayPaymentID: "pay_1",
		Signature:        sig,
		Amount:           decimal.RequireFromString(amount),
	}
}

func TestRecordPayment_Success(t *testing.T) {
	bookings := new(MockBookings)
	store := new(MockPaymentStore)
	b := confirmedBooking()

	bookings.On("Get", mock.Anything, int64(7)).Return(b, nil)
	store.On("Insert", mock.Anything, mock.MatchedBy(func(r *PaymentRecord) bool {
		return r.Status == RecordCaptured && r.GatewayPaymentID == "pay_1"
	})).Return(nil)
	store.On("MarkPaid", mock.Anything, int64(7), "pay_1", mock.Anything).Return(nil)

	svc := NewService(bookings, store, testSecret, nil)
	_, err := svc.RecordPayment(context.Background(), captureInput("12500.00", sign("order_1", "pay_1", testSecret)))
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestRecordPayment_TamperedSignatureWritesNothing(t *testing.T) {
	bookings := new(MockBookings)
	store := new(MockPaymentStore)

	svc := NewService(bookings, store, testSecret, nil)
	_, err := svc.RecordPayment(context.Background(), captureInput("12500.00", sign("order_1", "pay_1", "wrong")))

	assert.ErrorIs(t, err, ErrSignatureInvalid)
	bookings.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordPayment_AmountMismatchLoggedNotApplied(t *testing.T) {
	bookings := new(MockBookings)
	store := new(MockPaymentStore)
	b := confirmedBooking()

	bookings.On("Get", mock.Anything, int64(7)).Return(b, nil)
	// The flagged row is still written for audit.
	store.On("Insert", mock.Anything, mock.MatchedBy(func(r *PaymentRecord) bool {
		return r.Status == RecordFlagged && r.Note != ""
	})).Return(nil)

	svc := NewService(bookings, store, testSecret, nil)
	_, err := svc.RecordPayment(context.Background(), captureInput("9999.00", sign("order_1", "pay_1", testSecret)))

	assert.ErrorIs(t, err, ErrAmountMismatch)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordPayment_PendingBookingNotPayable(t *testing.T) {
	bookings := new(MockBookings)
	store := new(MockPaymentStore)
	b := confirmedBooking()
	b.Status = booking.StatusPending

	bookings.On("Get", mock.Anything, int64(7)).Return(b, nil)

	svc := NewService(bookings, store, testSecret, nil)
	_, err := svc.RecordPayment(context.Background(), captureInput("12500.00", sign("order_1", "pay_1", testSecret)))

	assert.ErrorIs(t, err, ErrNotPayable)
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRecordRefund(t *testing.T) {
	bookings := new(MockBookings)
	store := new(MockPaymentStore)
	b := confirmedBooking()
	// Refund after cancellation is legal.
	b.Status = booking.StatusCancelled
	b.PaymentStatus = booking.PaymentPaid

	refundedAt := time.Unix(1700000000, 0)
	bookings.On("Get", mock.Anything, int64(7)).Return(b, nil)
	store.On("Insert", mock.Anything, mock.MatchedBy(func(r *PaymentRecord) bool {
		return r.Status == RecordRefund && r.GatewayPaymentID == "rfnd_1"
	})).Return(nil)
	store.On("MarkRefunded", mock.Anything, int64(7), refundedAt).Return(nil)

	svc := NewService(bookings, store, testSecret, nil)
	_, err := svc.RecordRefund(context.Background(), 7, "rfnd_1", refundedAt)
	require.NoError(t, err)
	store.AssertExpectations(t)
}
