package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Booking struct {
	ID          int64     `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	ApartmentID int64     `json:"apartmentId"`

	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`

	// StartDate and EndDate are calendar dates; time-of-day is ignored by all
	// lifecycle rules.
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	Guests      int             `json:"guests"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Currency    string          `json:"currency"`

	CancelReason     string     `json:"cancelReason,omitempty"`
	GatewayPaymentID string     `json:"gatewayPaymentId,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`

	// Version backs the optimistic lock: every status/payment write bumps it,
	// and a stale version loses the race.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	GuestDetails []GuestDetail `json:"guestDetails,omitempty"`
}

type GuestDetail struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Age    int       `json:"age"`
	Gender string    `json:"gender"`
	Phone  string    `json:"phone,omitempty"`
}
