package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadhub/leadhub/internal/team"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// CreateAccount inserts the team and its first user inside a single
// transaction. Any failure after Begin rolls the whole pair back, so
// an orphan team or user is never observable. A unique violation on
// users.email surfaces as ErrEmailTaken.
func (r *PostgresRepository) CreateAccount(ctx context.Context, t *team.Team, u *User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO teams (name) VALUES ($1) RETURNING id, created_at`,
		t.Name,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}

	u.TeamID = t.ID
	u.TeamName = t.Name

	err = tx.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name, team_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		u.Email, u.PasswordHash, u.Name, u.TeamID,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing registration: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email, joined with the owning team's name.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.name, u.team_id, t.name, u.created_at
		FROM users u
		JOIN teams t ON u.team_id = t.id
		WHERE u.email = $1`

	return r.scanOne(ctx, query, email)
}

// GetByID retrieves a user by ID, joined with the owning team's name.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.name, u.team_id, t.name, u.created_at
		FROM users u
		JOIN teams t ON u.team_id = t.id
		WHERE u.id = $1`

	return r.scanOne(ctx, query, id)
}

// UpdatePasswordHash replaces the stored password hash for a user.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("updating password hash: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// scanOne scans a single joined user row. Returns ErrUserNotFound if no rows.
func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.TeamID, &u.TeamName, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user row: %w", err)
	}
	return &u, nil
}
