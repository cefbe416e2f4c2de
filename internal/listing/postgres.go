package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const listingsSchema = `
CREATE TABLE IF NOT EXISTS listings (
	id UUID PRIMARY KEY,
	host_id UUID NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	guest_count INT NOT NULL,
	property_type TEXT NOT NULL,
	amenities TEXT[] NOT NULL DEFAULT '{}',
	price NUMERIC(12, 2) NOT NULL,
	status TEXT NOT NULL,
	version INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS listings_status_idx ON listings (status);
`

const listingColumns = `id, host_id, title, description, address, city, country, guest_count,
	property_type, amenities, price, status, version, created_at, updated_at`

// PostgresRepository stores the listing read model in PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the listings table if it does not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, listingsSchema); err != nil {
		return fmt.Errorf("create listings table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Insert(ctx context.Context, l *Listing) error {
	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.HostID, l.Title, l.Description,
		l.Location.Address, l.Location.City, l.Location.Country,
		l.GuestCount, string(l.PropertyType), pq.Array(amenityStrings(l.Amenities)),
		l.Price, l.Status, l.Version, l.CreatedAt, l.UpdatedAt,
	)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	l, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *PostgresRepository) Update(ctx context.Context, l *Listing, expectedVersion int) error {
	query := `
		UPDATE listings
		SET host_id = $1, title = $2, description = $3, address = $4, city = $5, country = $6,
			guest_count = $7, property_type = $8, amenities = $9, price = $10, status = $11,
			version = $12, updated_at = $13
		WHERE id = $14 AND version = $15
	`
	res, err := r.db.ExecContext(ctx, query,
		l.HostID, l.Title, l.Description, l.Location.Address, l.Location.City, l.Location.Country,
		l.GuestCount, string(l.PropertyType), pq.Array(amenityStrings(l.Amenities)), l.Price, l.Status,
		l.Version, l.UpdatedAt, l.ID, expectedVersion,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionChanged
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE status = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner) (*Listing, error) {
	var (
		l            Listing
		propertyType string
		amenities    []string
	)
	err := row.Scan(
		&l.ID, &l.HostID, &l.Title, &l.Description,
		&l.Location.Address, &l.Location.City, &l.Location.Country,
		&l.GuestCount, &propertyType, pq.Array(&amenities),
		&l.Price, &l.Status, &l.Version, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.PropertyType = PropertyType(propertyType)
	l.Amenities = make([]Amenity, len(amenities))
	for i, a := range amenities {
		l.Amenities[i] = Amenity(a)
	}
	return &l, nil
}

func amenityStrings(as []Amenity) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = string(a)
	}
	return out
}
