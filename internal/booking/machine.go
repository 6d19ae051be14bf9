package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the persistence surface the state machine needs. Update must apply
// the write with a compare-and-swap on Version and return
// ErrConcurrentModification when the version is stale.
type Store interface {
	Get(ctx context.Context, id int64) (*Booking, error)
	Update(ctx context.Context, b *Booking) (*Booking, error)
}

// Gate reports whether a user holds an approved document verification.
type Gate interface {
	GateCheck(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Machine enforces the booking lifecycle. It is the only component that writes
// Booking.Status.
type Machine struct {
	store         Store
	gate          Gate
	pendingExpiry time.Duration
	log           *zap.Logger

	// clock is swapped in tests.
	clock func() time.Time
}

func NewMachine(store Store, gate Gate, pendingExpiry time.Duration, log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Machine{
		store:         store,
		gate:          gate,
		pendingExpiry: pendingExpiry,
		log:           log,
		clock:         time.Now,
	}
}

// RequestTransition validates and applies one status change. Legality is
// checked against the date-derived current status, so a confirmed booking that
// is already past its end date cannot be cancelled even if the completed state
// was never persisted.
func (m *Machine) RequestTransition(ctx context.Context, bookingID int64, target Status, actor, reason string) (*Booking, error) {
	b, err := m.store.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	now := m.clock()
	current := DeriveStatus(b, now, m.pendingExpiry)

	if !CanTransition(current, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, target)
	}

	if target == StatusConfirmed {
		ok, err := m.gate.GateCheck(ctx, b.UserID)
		if err != nil {
			return nil, fmt.Errorf("gate check: %w", err)
		}
		if !ok {
			return nil, ErrDocumentNotVerified
		}
	}

	if target == StatusCancelled {
		b.CancelReason = reason
	}
	b.Status = target
	b.UpdatedAt = now

	updated, err := m.store.Update(ctx, b)
	if err != nil {
		return nil, err
	}

	m.log.Info("booking transition",
		zap.Int64("bookingId", b.ID),
		zap.String("from", string(current)),
		zap.String("to", string(target)),
		zap.String("actor", actor),
	)
	return updated, nil
}
