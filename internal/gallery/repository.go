package gallery

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("image not found")

// Image is one admin-managed gallery entry. Storage of the file itself is
// external; we keep the URL.
type Image struct {
	ID          uuid.UUID `json:"id"`
	ApartmentID int64     `json:"apartmentId"`
	URL         string    `json:"url"`
	Caption     string    `json:"caption,omitempty"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByApartment(ctx context.Context, apartmentID int64) ([]Image, error) {
	const q = `
SELECT id, apartment_id, url, COALESCE(caption,''), sort_order, created_at
FROM gallery_images
WHERE apartment_id = $1
ORDER BY sort_order, created_at`
	rows, err := r.db.Query(ctx, q, apartmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.ApartmentID, &img.URL, &img.Caption, &img.SortOrder, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *Repository) Insert(ctx context.Context, img *Image) error {
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	const q = `
INSERT INTO gallery_images (id, apartment_id, url, caption, sort_order)
VALUES ($1, $2, $3, NULLIF($4,''), $5)`
	_, err := r.db.Exec(ctx, q, img.ID, img.ApartmentID, img.URL, img.Caption, img.SortOrder)
	return err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM gallery_images WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
