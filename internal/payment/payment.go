package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RecordStatus string

const (
	// RecordCaptured is a signature-verified payment applied to its booking.
	RecordCaptured RecordStatus = "captured"
	// RecordFlagged is logged for audit but not applied (amount mismatch).
	RecordFlagged RecordStatus = "flagged"
	RecordRefund  RecordStatus = "refund"
)

// PaymentRecord is the append-only audit row for every gateway interaction
// that passed signature verification.
type PaymentRecord struct {
	ID               uuid.UUID       `json:"id"`
	BookingID        int64           `json:"bookingId"`
	GatewayOrderID   string          `json:"gatewayOrderId"`
	GatewayPaymentID string          `json:"gatewayPaymentId"`
	Amount           decimal.Decimal `json:"amount"`
	Status           RecordStatus    `json:"status"`
	Note             string          `json:"note,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

var (
	// ErrSignatureInvalid means the callback failed HMAC verification; nothing
	// is written in that case.
	ErrSignatureInvalid = errors.New("gateway signature verification failed")

	// ErrAmountMismatch means the captured amount differs from the booking
	// total. The payment row is still logged for audit.
	ErrAmountMismatch = errors.New("payment amount does not match booking total")

	// ErrNotPayable rejects payments against bookings that are not confirmed
	// yet or already terminal, keeping paid implies confirmed-or-later.
	ErrNotPayable = errors.New("booking is not in a payable state")
)
