package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const reservationsSchema = `
CREATE TABLE IF NOT EXISTS reservations (
	id UUID PRIMARY KEY,
	listing_id UUID NOT NULL,
	guest_name TEXT NOT NULL,
	guest_email TEXT NOT NULL,
	guests INT NOT NULL,
	check_in DATE NOT NULL,
	check_out DATE NOT NULL,
	nights INT NOT NULL,
	total_price NUMERIC(12, 2) NOT NULL,
	status TEXT NOT NULL,
	version INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS reservations_listing_idx ON reservations (listing_id, check_in);
`

const reservationColumns = `id, listing_id, guest_name, guest_email, guests, check_in, check_out,
	nights, total_price, status, version, created_at`

// PostgresRepository stores reservations in PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the reservations table if it does not exist.
func (p *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, reservationsSchema); err != nil {
		return fmt.Errorf("create reservations table: %w", err)
	}
	return nil
}

// insertAttempts bounds retries after a serialization failure. Predicate
// locks can abort an insert whose stay does not overlap the winner's.
const insertAttempts = 3

// Insert checks for overlapping stays and inserts in one serializable
// transaction. Losing a race for the same nights yields ErrDatesTaken.
func (p *PostgresRepository) Insert(ctx context.Context, r *Reservation) error {
	var err error
	for attempt := 0; attempt < insertAttempts; attempt++ {
		err = p.insertOnce(ctx, r)
		if !isSerializationFailure(err) {
			return err
		}
	}
	return ErrDatesTaken
}

func (p *PostgresRepository) insertOnce(ctx context.Context, r *Reservation) error {
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var taken bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE listing_id = $1 AND status = $2 AND check_in < $4 AND $3 < check_out
		)
	`, r.ListingID, StatusActive, r.CheckIn, r.CheckOut).Scan(&taken)
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if taken {
		return ErrDatesTaken
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reservations (`+reservationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, r.ID, r.ListingID, r.GuestName, r.GuestEmail, r.Guests, r.CheckIn, r.CheckOut,
		r.Nights, r.TotalPrice, r.Status, r.Version, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reservation: %w", err)
	}
	return nil
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "40001"
}

func (p *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	r, err := scanReservation(p.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

func (p *PostgresRepository) SetStatus(ctx context.Context, id uuid.UUID, status string, expectedVersion int) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE reservations
		SET status = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
	`, status, id, expectedVersion)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errVersionChanged
	}
	return nil
}

func (p *PostgresRepository) ActiveOverlapping(ctx context.Context, listingID uuid.UUID, checkIn, checkOut time.Time) ([]Reservation, error) {
	return p.query(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE listing_id = $1 AND status = $2 AND check_in < $4 AND $3 < check_out
		ORDER BY check_in, created_at
	`, listingID, StatusActive, checkIn, checkOut)
}

func (p *PostgresRepository) ForListing(ctx context.Context, listingID uuid.UUID) ([]Reservation, error) {
	return p.query(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE listing_id = $1
		ORDER BY check_in, created_at
	`, listingID)
}

func (p *PostgresRepository) query(ctx context.Context, q string, args ...interface{}) ([]Reservation, error) {
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*Reservation, error) {
	var r Reservation
	err := row.Scan(&r.ID, &r.ListingID, &r.GuestName, &r.GuestEmail, &r.Guests, &r.CheckIn, &r.CheckOut,
		&r.Nights, &r.TotalPrice, &r.Status, &r.Version, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.CheckIn = calendarDate(r.CheckIn)
	r.CheckOut = calendarDate(r.CheckOut)
	return &r, nil
}
