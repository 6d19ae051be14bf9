package payment

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"staybook/internal/booking"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, rec *PaymentRecord) error {
	const q = `
INSERT INTO payments (id, booking_id, gateway_order_id, gateway_payment_id, amount, status, note, created_at)
VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), $5, $6, NULLIF($7,''), $8)`
	_, err := r.db.Exec(ctx, q,
		rec.ID, rec.BookingID, rec.GatewayOrderID, rec.GatewayPaymentID,
		rec.Amount, rec.Status, rec.Note, rec.CreatedAt,
	)
	return err
}

func (r *Repository) MarkPaid(ctx context.Context, bookingID int64, gatewayPaymentID string, paidAt time.Time) error {
	const q = `
UPDATE bookings
SET payment_status = 'paid', gateway_payment_id = $2, paid_at = $3, updated_at = NOW(), version = version + 1
WHERE id = $1`
	ct, err := r.db.Exec(ctx, q, bookingID, gatewayPaymentID, paidAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return booking.ErrNotFound
	}
	return nil
}

func (r *Repository) MarkRefunded(ctx context.Context, bookingID int64, refundedAt time.Time) error {
	const q = `
UPDATE bookings
SET payment_status = 'refunded', updated_at = $2, version = version + 1
WHERE id = $1`
	ct, err := r.db.Exec(ctx, q, bookingID, refundedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return booking.ErrNotFound
	}
	return nil
}

// ListByBooking feeds the payment history section of the booking detail view.
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]PaymentRecord, error) {
	const q = `
SELECT id, booking_id, COALESCE(gateway_order_id,''), COALESCE(gateway_payment_id,''), amount::text, status, COALESCE(note,''), created_at
FROM payments
WHERE booking_id = $1
ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PaymentRecord
	for rows.Next() {
		var rec PaymentRecord
		var amount string
		if err := rows.Scan(
			&rec.ID, &rec.BookingID, &rec.GatewayOrderID, &rec.GatewayPaymentID,
			&amount, &rec.Status, &rec.Note, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if rec.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
