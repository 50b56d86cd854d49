package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ollender/ollender/internal/domain"
)

// TaskRepo persists tasks in SQLite.
type TaskRepo struct {
	db *sql.DB
}

// NewTaskRepo creates a TaskRepo over an open database.
func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (id, kind, title, description, due_date, interval, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		string(t.Kind),
		t.Title,
		t.Description,
		formatNullableTime(t.DueDate),
		nullableString(string(t.Interval)),
		t.Completed,
		t.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT id, kind, title, description, due_date, interval, completed, created_at
		FROM tasks WHERE id = ?`
	return r.scanTask(r.db.QueryRowContext(ctx, query, id))
}

func (r *TaskRepo) List(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT id, kind, title, description, due_date, interval, completed, created_at
		FROM tasks ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TaskRepo) SetCompleted(ctx context.Context, id string, completed bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET completed = ? WHERE id = ?`, completed, id)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TaskRepo) scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t         domain.Task
		kind      string
		dueDate   sql.NullString
		interval  sql.NullString
		createdAt string
	)
	if err := row.Scan(&t.ID, &kind, &t.Title, &t.Description, &dueDate, &interval, &t.Completed, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Kind = domain.TaskKind(kind)
	if dueDate.Valid {
		due, err := time.Parse(time.RFC3339, dueDate.String)
		if err != nil {
			return nil, fmt.Errorf("parsing task due date: %w", err)
		}
		t.DueDate = &due
	}
	if interval.Valid {
		t.Interval = domain.Interval(interval.String)
	}

	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing task created_at: %w", err)
	}
	t.CreatedAt = created

	return &t, nil
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
