package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Task represents a row in the tasks table.
type Task struct {
	ID          uuid.UUID
	Description string
	DueDate     *time.Time
}

// Repository provides operations on the tasks table.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	List(ctx context.Context) ([]Task, error)
}

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new task record.
func (r *PostgresRepository) Create(ctx context.Context, t *Task) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tasks (description, due_date) VALUES ($1, $2) RETURNING id`,
		t.Description, t.DueDate,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	return nil
}

// List retrieves all tasks ordered by due date, earliest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, description, due_date FROM tasks ORDER BY due_date ASC NULLS LAST`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Description, &t.DueDate); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}

	if tasks == nil {
		tasks = []Task{}
	}

	return tasks, nil
}
