package booking

import (
	"time"

	"github.com/jinzhu/now"
)

// DeriveStatus computes the date-driven view of a booking's status at a given
// instant. Confirmed bookings become ongoing while the current date lies inside
// [start_date, end_date], both ends inclusive, and completed strictly after
// end_date. Pending bookings become expired once the pending window has passed.
//
// The result is recomputed on every read; callers that persist it must apply
// it through the state machine so terminal states stay terminal.
func DeriveStatus(b *Booking, at time.Time, pendingExpiry time.Duration) Status {
	switch b.Status {
	case StatusConfirmed, StatusOngoing:
		day := now.With(at).BeginningOfDay()
		start := now.With(b.StartDate).BeginningOfDay()
		end := now.With(b.EndDate).BeginningOfDay()
		if day.Before(start) {
			return b.Status
		}
		if !day.After(end) {
			return StatusOngoing
		}
		return StatusCompleted
	case StatusPending:
		if pendingExpiry > 0 && at.After(b.CreatedAt.Add(pendingExpiry)) {
			return StatusExpired
		}
		return StatusPending
	default:
		return b.Status
	}
}
