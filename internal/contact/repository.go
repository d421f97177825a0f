package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrContactNotFound is returned when a contact record is not found.
var ErrContactNotFound = errors.New("contact not found")

// Repository provides CRUD operations on the contacts table.
type Repository interface {
	Create(ctx context.Context, c *Contact) error
	List(ctx context.Context) ([]Contact, error)
	Update(ctx context.Context, id uuid.UUID, c *Contact) (*Contact, error)
	Delete(ctx context.Context, id uuid.UUID) (*Contact, error)
}

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new contact record.
func (r *PostgresRepository) Create(ctx context.Context, c *Contact) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO contacts (name, email) VALUES ($1, $2) RETURNING id`,
		c.Name, c.Email,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("inserting contact: %w", err)
	}

	return nil
}

// List retrieves all contacts ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]Contact, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email FROM contacts ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, fmt.Errorf("scanning contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contact rows: %w", err)
	}

	if contacts == nil {
		contacts = []Contact{}
	}

	return contacts, nil
}

// Update replaces a contact's name and email.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, c *Contact) (*Contact, error) {
	var updated Contact
	err := r.pool.QueryRow(ctx,
		`UPDATE contacts SET name = $1, email = $2 WHERE id = $3
		 RETURNING id, name, email`,
		c.Name, c.Email, id,
	).Scan(&updated.ID, &updated.Name, &updated.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("updating contact: %w", err)
	}

	return &updated, nil
}

// Delete removes a contact and returns its final snapshot.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) (*Contact, error) {
	var deleted Contact
	err := r.pool.QueryRow(ctx,
		`DELETE FROM contacts WHERE id = $1 RETURNING id, name, email`,
		id,
	).Scan(&deleted.ID, &deleted.Name, &deleted.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("deleting contact: %w", err)
	}

	return &deleted, nil
}
