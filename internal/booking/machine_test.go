package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, id int64) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, b *Booking) (*Booking, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

type MockGate struct {
	mock.Mock
}

func (m *MockGate) GateCheck(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func newTestMachine(store *MockStore, gate *MockGate, at time.Time) *Machine {
	m := NewMachine(store, gate, 48*time.Hour, nil)
	m.clock = func() time.Time { return at }
	return m
}

func pendingBooking(userID uuid.UUID) *Booking {
	return &Booking{
		ID:        42,
		UserID:    userID,
		Status:    StatusPending,
		StartDate: date("2024-03-10"),
		EndDate:   date("2024-03-15"),
		CreatedAt: date("2024-03-01"),
		Version:   1,
	}
}

func TestRequestTransition_ConfirmRequiresGate(t *testing.T) {
	userID := uuid.New()
	now := date("2024-03-01").Add(6 * time.Hour)

	t.Run("gate approved", func(t *testing.T) {
		store := new(MockStore)
		gate := new(MockGate)
		b := pendingBooking(userID)

		store.On("Get", mock.Anything, int64(42)).Return(b, nil)
		gate.On("GateCheck", mock.Anything, userID).Return(true, nil)
		store.On("Update", mock.Anything, mock.MatchedBy(func(u *Booking) bool {
			return u.Status == StatusConfirmed
		})).Return(b, nil)

		m := newTestMachine(store, gate, now)
		_, err := m.RequestTransition(context.Background(), 42, StatusConfirmed, "admin@test", "")
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("gate not approved", func(t *testing.T) {
		store := new(MockStore)
		gate := new(MockGate)
		b := pendingBooking(userID)

		store.On("Get", mock.Anything, int64(42)).Return(b, nil)
		gate.On("GateCheck", mock.Anything, userID).Return(false, nil)

		m := newTestMachine(store, gate, now)
		_, err := m.RequestTransition(context.Background(), 42, StatusConfirmed, "admin@test", "")
		assert.ErrorIs(t, err, ErrDocumentNotVerified)
		store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestRequestTransition_TerminalStatesRejectEverything(t *testing.T) {
	userID := uuid.New()
	now := date("2024-03-01")
	targets := []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusOngoing, StatusCompleted}

	for _, terminal := range []Status{StatusCancelled, StatusExpired, StatusCompleted} {
		for _, target := range targets {
			store := new(MockStore)
			gate := new(MockGate)
			b := pendingBooking(userID)
			b.Status = terminal

			store.On("Get", mock.Anything, int64(42)).Return(b, nil)

			m := newTestMachine(store, gate, now)
			_, err := m.RequestTransition(context.Background(), 42, target, "admin@test", "")
			assert.ErrorIs(t, err, ErrIllegalTransition, "%s -> %s", terminal, target)
			store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		}
	}
}

func TestRequestTransition_CancelStoresReason(t *testing.T) {
	userID := uuid.New()
	store := new(MockStore)
	gate := new(MockGate)
	b := pendingBooking(userID)

	store.On("Get", mock.Anything, int64(42)).Return(b, nil)
	store.On("Update", mock.Anything, mock.MatchedBy(func(u *Booking) bool {
		return u.Status == StatusCancelled && u.CancelReason == "guest request"
	})).Return(b, nil)

	m := newTestMachine(store, gate, date("2024-03-01"))
	_, err := m.RequestTransition(context.Background(), 42, StatusCancelled, "guest@test", "guest request")
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestRequestTransition_ConcurrentModification(t *testing.T) {
	// Two racing transitions: the first commits, the second loses the version
	// CAS and must surface ErrConcurrentModification.
	userID := uuid.New()
	store := new(MockStore)
	gate := new(MockGate)
	b := pendingBooking(userID)

	store.On("Get", mock.Anything, int64(42)).Return(b, nil)
	gate.On("GateCheck", mock.Anything, userID).Return(true, nil)
	store.On("Update", mock.Anything, mock.Anything).Return(nil, ErrConcurrentModification)

	m := newTestMachine(store, gate, date("2024-03-01"))
	_, err := m.RequestTransition(context.Background(), 42, StatusConfirmed, "admin@test", "")
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

func TestRequestTransition_DerivedStatusGoverns(t *testing.T) {
	// Persisted status says confirmed, but the stay already ended: the booking
	// is derived completed, so cancellation is illegal.
	userID := uuid.New()
	store := new(MockStore)
	gate := new(MockGate)
	b := pendingBooking(userID)
	b.Status = StatusConfirmed

	store.On("Get", mock.Anything, int64(42)).Return(b, nil)

	m := newTestMachine(store, gate, date("2024-04-01"))
	_, err := m.RequestTransition(context.Background(), 42, StatusCancelled, "admin@test", "")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestRequestTransition_ExpiredPendingCannotConfirm(t *testing.T) {
	userID := uuid.New()
	store := new(MockStore)
	gate := new(MockGate)
	b := pendingBooking(userID)

	store.On("Get", mock.Anything, int64(42)).Return(b, nil)

	// 3 days after creation with a 48h window: derived expired.
	m := newTestMachine(store, gate, b.CreatedAt.Add(72*time.Hour))
	_, err := m.RequestTransition(context.Background(), 42, StatusConfirmed, "admin@test", "")
	assert.ErrorIs(t, err, ErrIllegalTransition)
	gate.AssertNotCalled(t, "GateCheck", mock.Anything, mock.Anything)
}
