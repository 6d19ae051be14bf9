package apartment

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("apartment not found")

type Apartment struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   int             `json:"bathrooms"`
	MaxGuests   int             `json:"maxGuests"`
	NightlyRate decimal.Decimal `json:"nightlyRate"`
	MonthlyRate decimal.Decimal `json:"monthlyRate"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const apartmentColumns = `
id, title, COALESCE(description,''), location, bedrooms, bathrooms, max_guests,
nightly_rate::text, monthly_rate::text, active, created_at, updated_at`

type ListFilter struct {
	Location   string
	Bedrooms   int
	ActiveOnly bool
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Apartment, error) {
	q := `SELECT ` + apartmentColumns + ` FROM apartments WHERE 1=1`
	args := []any{}
	if f.ActiveOnly {
		q += ` AND active`
	}
	if f.Location != "" {
		args = append(args, "%"+f.Location+"%")
		q += ` AND location ILIKE $1`
	}
	if f.Bedrooms > 0 {
		args = append(args, f.Bedrooms)
		if len(args) == 1 {
			q += ` AND bedrooms = $1`
		} else {
			q += ` AND bedrooms = $2`
		}
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Apartment
	for rows.Next() {
		a, err := scanApartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Apartment, error) {
	const q = `SELECT ` + apartmentColumns + ` FROM apartments WHERE id = $1`
	return scanApartment(r.db.QueryRow(ctx, q, id))
}

func (r *Repository) Create(ctx context.Context, a *Apartment) (*Apartment, error) {
	const q = `
INSERT INTO apartments (title, description, location, bedrooms, bathrooms, max_guests, nightly_rate, monthly_rate, active)
VALUES ($1, NULLIF($2,''), $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + apartmentColumns
	return scanApartment(r.db.QueryRow(ctx, q,
		a.Title, a.Description, a.Location, a.Bedrooms, a.Bathrooms, a.MaxGuests,
		a.NightlyRate, a.MonthlyRate, a.Active,
	))
}

func (r *Repository) Update(ctx context.Context, a *Apartment) (*Apartment, error) {
	const q = `
UPDATE apartments
SET title = $1, description = NULLIF($2,''), location = $3, bedrooms = $4, bathrooms = $5,
    max_guests = $6, nightly_rate = $7, monthly_rate = $8, active = $9, updated_at = NOW()
WHERE id = $10
RETURNING ` + apartmentColumns
	return scanApartment(r.db.QueryRow(ctx, q,
		a.Title, a.Description, a.Location, a.Bedrooms, a.Bathrooms, a.MaxGuests,
		a.NightlyRate, a.MonthlyRate, a.Active, a.ID,
	))
}

func scanApartment(row pgx.Row) (*Apartment, error) {
	var a Apartment
	var nightly, monthly string
	if err := row.Scan(
		&a.ID, &a.Title, &a.Description, &a.Location, &a.Bedrooms, &a.Bathrooms,
		&a.MaxGuests, &nightly, &monthly, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var err error
	if a.NightlyRate, err = decimal.NewFromString(nightly); err != nil {
		return nil, err
	}
	if a.MonthlyRate, err = decimal.NewFromString(monthly); err != nil {
		return nil, err
	}
	return &a, nil
}
