package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert appends one audit row. bookingID is nil for actions not tied to a
// booking (gallery edits, apartment changes).
func (r *Repository) Insert(ctx context.Context, userID uuid.UUID, bookingID *int64, action, actor string, metadata any) error {
	var s *string
	if metadata != nil {
		b, _ := json.Marshal(metadata)
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO audit_logs (id, user_id, booking_id, action, actor, metadata)
VALUES ($1, $2, $3, $4, $5, CAST($6 AS jsonb))`
	_, err := r.db.Exec(ctx, q, uuid.New(), userID, bookingID, action, actor, s)
	return err
}
