package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

const taskColumns = `id, description, created_for, created_by, closed_by, is_active, created_at, updated_at, closed_at`

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (id, description, created_for, created_by, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := conn(ctx, r.pool).Exec(ctx, query,
		task.ID,
		task.Description,
		task.CreatedFor,
		task.CreatedBy,
		task.IsActive,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if code, constraint := pgError(err); code == codeForeignKeyViolation {
			return foreignKeyError(constraint)
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return r.get(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND is_active`, id)
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	return r.get(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
}

func (r *TaskRepository) get(ctx context.Context, query, id string) (*domain.Task, error) {
	t, err := scanTask(conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	return r.execActive(ctx,
		`UPDATE tasks SET description = $2, created_for = $3, updated_at = $4 WHERE id = $1 AND is_active`,
		task.ID, task.Description, task.CreatedFor, task.UpdatedAt)
}

func (r *TaskRepository) Close(ctx context.Context, id, closedBy string, at time.Time) error {
	return r.execActive(ctx,
		`UPDATE tasks SET is_active = false, closed_by = $2, closed_at = $3, updated_at = $3 WHERE id = $1 AND is_active`,
		id, closedBy, at)
}

func (r *TaskRepository) Cancel(ctx context.Context, id string, at time.Time) error {
	return r.execActive(ctx,
		`UPDATE tasks SET is_active = false, updated_at = $2 WHERE id = $1 AND is_active`,
		id, at)
}

func (r *TaskRepository) execActive(ctx context.Context, query string, args ...any) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		if code, constraint := pgError(err); code == codeForeignKeyViolation {
			return foreignKeyError(constraint)
		}
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) CancelForDog(ctx context.Context, dogID string, at time.Time) ([]string, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`UPDATE tasks SET is_active = false, updated_at = $2 WHERE created_for = $1 AND is_active RETURNING id`,
		dogID, at)
	if err != nil {
		return nil, fmt.Errorf("cancel tasks for dog: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("cancel tasks for dog: %w", err)
	}
	return ids, nil
}

func (r *TaskRepository) ListActiveForDog(ctx context.Context, dogID string) ([]*domain.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE created_for = $1 AND is_active ORDER BY created_at, id`, dogID)
}

func (r *TaskRepository) ListActive(ctx context.Context) ([]*domain.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE is_active ORDER BY created_at, id`)
}

func (r *TaskRepository) ListClosed(ctx context.Context, closedBy string) ([]*domain.Task, error) {
	if closedBy == "" {
		return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE NOT is_active AND closed_by IS NOT NULL ORDER BY closed_at DESC`)
	}
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE NOT is_active AND closed_by = $1 ORDER BY closed_at DESC`, closedBy)
}

func (r *TaskRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t        domain.Task
		closedBy *string
	)
	err := row.Scan(
		&t.ID,
		&t.Description,
		&t.CreatedFor,
		&t.CreatedBy,
		&closedBy,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	if closedBy != nil {
		t.ClosedBy = *closedBy
	}
	return &t, nil
}
