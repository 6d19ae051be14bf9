package booking

import "fmt"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusExpired, StatusOngoing, StatusCompleted:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

// PaymentStatus is orthogonal to Status and is only ever written by the
// payment package.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

var allowedTransitions = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true, StatusExpired: true},
	StatusConfirmed: {StatusCancelled: true, StatusOngoing: true},
	StatusOngoing:   {StatusCompleted: true},
	// cancelled, expired and completed are terminal.
	StatusCancelled: {},
	StatusExpired:   {},
	StatusCompleted: {},
}

func CanTransition(from, to Status) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

func (s Status) Terminal() bool {
	return len(allowedTransitions[s]) == 0
}
