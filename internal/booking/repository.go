package booking

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"staybook/pkg/db"
)

const bookingColumns = `
id, user_id, apartment_id, status, payment_status, start_date, end_date, guests,
total_amount::text, currency, COALESCE(cancel_reason,''), COALESCE(gateway_payment_id,''),
paid_at, version, created_at, updated_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*Booking, error) {
	var b Booking
	var amount string
	if err := row.Scan(
		&b.ID, &b.UserID, &b.ApartmentID, &b.Status, &b.PaymentStatus,
		&b.StartDate, &b.EndDate, &b.Guests, &amount, &b.Currency,
		&b.CancelReason, &b.GatewayPaymentID, &b.PaidAt, &b.Version,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var err error
	b.TotalAmount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	details, err := r.guestDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	b.GuestDetails = details
	return b, nil
}

// GetForUser scopes the lookup to the owning guest so the dashboard cannot
// read other users' bookings.
func (r *Repository) GetForUser(ctx context.Context, id int64, userID uuid.UUID) (*Booking, error) {
	b, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

type CreateInput struct {
	UserID       uuid.UUID
	ApartmentID  int64
	StartDate    time.Time
	EndDate      time.Time
	Guests       int
	TotalAmount  decimal.Decimal
	Currency     string
	GuestDetails []GuestDetail
}

// ensureDetailIDs assigns ids to guest details that arrive without one, so
// the rows written and the response returned carry the same ids.
func ensureDetailIDs(details []GuestDetail) {
	for i := range details {
		if details[i].ID == uuid.Nil {
			details[i].ID = uuid.New()
		}
	}
}

// Create inserts a new booking in pending/unpaid together with its guest
// details in one transaction.
func (r *Repository) Create(ctx context.Context, in CreateInput) (*Booking, error) {
	ensureDetailIDs(in.GuestDetails)

	var b *Booking
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		const q = `
INSERT INTO bookings (user_id, apartment_id, status, payment_status, start_date, end_date, guests, total_amount, currency)
VALUES ($1, $2, 'pending', 'unpaid', $3, $4, $5, $6, $7)
RETURNING ` + bookingColumns
		var err error
		b, err = scanBooking(tx.QueryRow(ctx, q,
			in.UserID, in.ApartmentID, in.StartDate, in.EndDate, in.Guests, in.TotalAmount, in.Currency,
		))
		if err != nil {
			return err
		}

		const qd = `
INSERT INTO guest_details (id, booking_id, name, age, gender, phone)
VALUES ($1, $2, $3, $4, $5, $6)`
		for _, g := range in.GuestDetails {
			if _, err := tx.Exec(ctx, qd, g.ID, b.ID, g.Name, g.Age, g.Gender, g.Phone); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	b.GuestDetails = in.GuestDetails
	return b, nil
}

// Update writes status, cancel reason and updated_at with a compare-and-swap
// on version. Two concurrent transitions on one booking cannot both land.
func (r *Repository) Update(ctx context.Context, b *Booking) (*Booking, error) {
	const q = `
UPDATE bookings
SET status = $1,
    cancel_reason = NULLIF($2, ''),
    updated_at = $3,
    version = version + 1
WHERE id = $4 AND version = $5
RETURNING ` + bookingColumns
	updated, err := scanBooking(r.db.QueryRow(ctx, q, b.Status, b.CancelReason, b.UpdatedAt, b.ID, b.Version))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Row exists but the version moved on, or the booking is gone.
			if _, getErr := r.Get(ctx, b.ID); getErr == nil {
				return nil, ErrConcurrentModification
			}
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

type ListFilter struct {
	Status        Status
	PaymentStatus PaymentStatus
	ApartmentID   int64
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		q += ` AND status = $` + strconv.Itoa(len(args))
	}
	if f.PaymentStatus != "" {
		args = append(args, f.PaymentStatus)
		q += ` AND payment_status = $` + strconv.Itoa(len(args))
	}
	if f.ApartmentID != 0 {
		args = append(args, f.ApartmentID)
		q += ` AND apartment_id = $` + strconv.Itoa(len(args))
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]Booking, error) {
	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Delete is the admin "Delete Booking" hard removal; dependent rows cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpireStale marks pending bookings older than the cutoff as expired.
// Set-based so the sweep stays a single statement.
func (r *Repository) ExpireStale(ctx context.Context, before time.Time) (int64, error) {
	const q = `
UPDATE bookings
SET status = 'expired', updated_at = NOW(), version = version + 1
WHERE status = 'pending' AND created_at < $1`
	ct, err := r.db.Exec(ctx, q, before)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

type Stats struct {
	Total     int64  `json:"total"`
	Pending   int64  `json:"pending"`
	Confirmed int64  `json:"confirmed"`
	Cancelled int64  `json:"cancelled"`
	Revenue   string `json:"revenue"`
}

// Stats backs the admin console overview cards.
func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	const q = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = 'pending'),
       COUNT(*) FILTER (WHERE status = 'confirmed'),
       COUNT(*) FILTER (WHERE status = 'cancelled'),
       COALESCE(SUM(total_amount) FILTER (WHERE payment_status = 'paid'), 0)::text
FROM bookings`
	var s Stats
	if err := r.db.QueryRow(ctx, q).Scan(&s.Total, &s.Pending, &s.Confirmed, &s.Cancelled, &s.Revenue); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) guestDetails(ctx context.Context, bookingID int64) ([]GuestDetail, error) {
	const q = `
SELECT id, name, age, gender, COALESCE(phone,'')
FROM guest_details
WHERE booking_id = $1
ORDER BY name`
	rows, err := r.db.Query(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GuestDetail
	for rows.Next() {
		var g GuestDetail
		if err := rows.Scan(&g.ID, &g.Name, &g.Age, &g.Gender, &g.Phone); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
