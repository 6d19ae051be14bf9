package verification

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec.DocumentData)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO document_verifications (id, user_id, booking_id, document_type, document_data, status, review_message, verified_at, created_at)
VALUES ($1, $2, $3, $4, CAST($5 AS jsonb), $6, NULLIF($7, ''), $8, $9)`
	_, err = r.db.Exec(ctx, q,
		rec.ID, rec.UserID, rec.BookingID, rec.DocumentType, string(data),
		rec.Status, rec.ReviewMessage, rec.VerifiedAt, rec.CreatedAt,
	)
	return err
}

func (r *Repository) LatestApproved(ctx context.Context, userID uuid.UUID) (*Record, error) {
	const q = `
SELECT id, user_id, booking_id, document_type, document_data, status, COALESCE(review_message,''), verified_at, created_at
FROM document_verifications
WHERE user_id = $1 AND status = 'approved'
ORDER BY created_at DESC
LIMIT 1`
	return r.scanOne(r.db.QueryRow(ctx, q, userID))
}

// ListByUser returns the full attempt history, newest first, for the admin
// review panel.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Record, error) {
	const q = `
SELECT id, user_id, booking_id, document_type, document_data, status, COALESCE(review_message,''), verified_at, created_at
FROM document_verifications
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanOne(row rowScanner) (*Record, error) {
	var rec Record
	var data []byte
	if err := row.Scan(
		&rec.ID, &rec.UserID, &rec.BookingID, &rec.DocumentType, &data,
		&rec.Status, &rec.ReviewMessage, &rec.VerifiedAt, &rec.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &rec.DocumentData); err != nil {
		return nil, err
	}
	return &rec, nil
}
