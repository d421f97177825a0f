package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrLeadNotFound is returned when a lead is absent or belongs to
// another team. The two cases are deliberately indistinguishable so
// cross-tenant existence never leaks.
var ErrLeadNotFound = errors.New("lead not found")

// Repository provides CRUD on the leads table. Every operation is
// scoped by the caller's verified team ID; there is no unscoped path,
// so a handler cannot accidentally omit the filter or accept a
// caller-supplied team.
type Repository interface {
	Create(ctx context.Context, l *Lead) error
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]Lead, error)
	Update(ctx context.Context, teamID, id uuid.UUID, fields UpdateFields) (*Lead, error)
	Delete(ctx context.Context, teamID, id uuid.UUID) (*Lead, error)
	Stats(ctx context.Context, teamID uuid.UUID) (*Stats, error)
}

const leadColumns = `
	l.id, l.title, l.email, l.status, l.company, l.phone, l.area, l.notes,
	l.contact_id, c.name, c.email, l.team_id, l.created_at, l.updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new lead record. l.TeamID must already carry the
// caller's team ID.
func (r *PostgresRepository) Create(ctx context.Context, l *Lead) error {
	query := `
		INSERT INTO leads (title, email, status, company, phone, area, notes, contact_id, team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		l.Title,
		l.Email,
		l.Status,
		l.Company,
		l.Phone,
		l.Area,
		l.Notes,
		l.ContactID,
		l.TeamID,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting lead: %w", err)
	}

	return nil
}

// ListByTeam retrieves the team's leads, most recent first, with the
// linked contact's name and email when present.
func (r *PostgresRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]Lead, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM leads l
		LEFT JOIN contacts c ON l.contact_id = c.id
		WHERE l.team_id = $1
		ORDER BY l.created_at DESC`, leadColumns)

	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var l Lead
		if err := scanLead(rows, &l); err != nil {
			return nil, fmt.Errorf("scanning lead row: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lead rows: %w", err)
	}

	if leads == nil {
		leads = []Lead{}
	}

	return leads, nil
}

// Update applies the provided patch fields to a lead owned by the
// given team and stamps updated_at. Returns ErrLeadNotFound if the row
// is absent or owned by another team.
func (r *PostgresRepository) Update(ctx context.Context, teamID, id uuid.UUID, fields UpdateFields) (*Lead, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if fields.Title != nil {
		set("title", *fields.Title)
	}
	if fields.Email != nil {
		set("email", *fields.Email)
	}
	if fields.Status != nil {
		set("status", *fields.Status)
	}
	if fields.Company != nil {
		set("company", *fields.Company)
	}
	if fields.Phone != nil {
		set("phone", *fields.Phone)
	}
	if fields.Area != nil {
		set("area", *fields.Area)
	}
	if fields.Notes != nil {
		set("notes", *fields.Notes)
	}
	if fields.ContactID != nil {
		set("contact_id", *fields.ContactID)
	}

	if len(setClauses) == 0 {
		return r.getByID(ctx, teamID, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id, teamID)

	query := fmt.Sprintf(`
		UPDATE leads
		SET %s
		WHERE id = $%d AND team_id = $%d
		RETURNING id`,
		strings.Join(setClauses, ", "), argIdx, argIdx+1)

	var updatedID uuid.UUID
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("updating lead: %w", err)
	}

	return r.getByID(ctx, teamID, updatedID)
}

// Delete removes a lead owned by the given team and returns its final
// snapshot. Returns ErrLeadNotFound if the row is absent or owned by
// another team.
func (r *PostgresRepository) Delete(ctx context.Context, teamID, id uuid.UUID) (*Lead, error) {
	query := `
		DELETE FROM leads
		WHERE id = $1 AND team_id = $2
		RETURNING id, title, email, status, company, phone, area,
		          notes, contact_id, team_id, created_at, updated_at`

	var l Lead
	err := r.pool.QueryRow(ctx, query, id, teamID).Scan(
		&l.ID, &l.Title, &l.Email, &l.Status, &l.Company, &l.Phone, &l.Area,
		&l.Notes, &l.ContactID, &l.TeamID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("deleting lead: %w", err)
	}

	return &l, nil
}

// Stats returns total/open/closed lead counts for the team.
func (r *PostgresRepository) Stats(ctx context.Context, teamID uuid.UUID) (*Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN status IN ('Ny', 'Pågående') THEN 1 END),
			COUNT(CASE WHEN status = 'Förlorad' THEN 1 END)
		FROM leads
		WHERE team_id = $1`

	var s Stats
	err := r.pool.QueryRow(ctx, query, teamID).Scan(&s.Total, &s.Open, &s.Closed)
	if err != nil {
		return nil, fmt.Errorf("counting leads: %w", err)
	}

	return &s, nil
}

// getByID retrieves a single lead scoped by team.
func (r *PostgresRepository) getByID(ctx context.Context, teamID, id uuid.UUID) (*Lead, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM leads l
		LEFT JOIN contacts c ON l.contact_id = c.id
		WHERE l.id = $1 AND l.team_id = $2`, leadColumns)

	return r.scanOne(ctx, query, id, teamID)
}

// scanOne scans a single joined lead row. Returns ErrLeadNotFound if no rows.
func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*Lead, error) {
	var l Lead
	err := scanLead(r.pool.QueryRow(ctx, query, args...), &l)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("scanning lead row: %w", err)
	}
	return &l, nil
}

// scanLead scans the joined lead column list into l.
func scanLead(row pgx.Row, l *Lead) error {
	return row.Scan(
		&l.ID, &l.Title, &l.Email, &l.Status, &l.Company, &l.Phone, &l.Area,
		&l.Notes, &l.ContactID, &l.ContactName, &l.ContactEmail,
		&l.TeamID, &l.CreatedAt, &l.UpdatedAt,
	)
}
