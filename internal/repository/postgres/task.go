package postgres

import (
	"context"
	"database/sql"
	"time"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/logger"
	"collab-deck-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, project_id, title, description, assignees, priority, due_date, status, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Assignees == nil {
		t.Assignees = []string{}
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	query := `INSERT INTO tasks (` + taskColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.ProjectID, t.Title, t.Description, pq.Array(t.Assignees),
		t.Priority, t.DueDate, t.Status, t.CreatedAt, t.UpdatedAt)
	return translateError(err)
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRowContext(ctx, query, id))
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Update writes the mutable fields. Last write wins.
func (r *taskRepository) Update(ctx context.Context, t *domain.Task) error {
	t.UpdatedAt = time.Now().UTC()
	query := `UPDATE tasks SET status = $1, priority = $2, description = $3, updated_at = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, t.Status, t.Priority, t.Description, t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListForMember matches assignees by overlap, so callers pass every stored
// form of the user.
func (r *taskRepository) ListForMember(ctx context.Context, identities, projectIDs []string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
	          WHERE assignees && $1 OR project_id = ANY($2)
	          ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(identities), pq.Array(projectIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.DueReminder, error) {
	query := `SELECT t.id, t.project_id, t.title, t.description, t.assignees, t.priority, t.due_date, t.status,
	                 t.created_at, t.updated_at, p.name, p.creator
	          FROM tasks t
	          JOIN projects p ON p.id = t.project_id
	          WHERE t.status <> 'done' AND t.reminded_at IS NULL
	            AND t.due_date >= $1 AND t.due_date < $2
	          ORDER BY t.due_date`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []domain.DueReminder
	for rows.Next() {
		var d domain.DueReminder
		var due sql.NullTime
		t := &d.Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, pq.Array(&t.Assignees), &t.Priority,
			&due, &t.Status, &t.CreatedAt, &t.UpdatedAt, &d.ProjectName, &d.ProjectCreator); err != nil {
			return nil, err
		}
		t.DueDate = timePtr(due)
		reminders = append(reminders, d)
	}
	return reminders, rows.Err()
}

func scanTask(row rowScanner) (*domain.Task, error) {
	t := &domain.Task{}
	var due sql.NullTime
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, pq.Array(&t.Assignees), &t.Priority,
		&due, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	if t.Assignees == nil {
		t.Assignees = []string{}
	}
	t.DueDate = timePtr(due)
	return t, nil
}

func (r *taskRepository) MarkReminded(ctx context.Context, taskIDs []string, at time.Time) error {
	if len(taskIDs) == 0 {
		return nil
	}
	logger.DatabaseCall("UPDATE", "tasks", "reminded", len(taskIDs))
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET reminded_at = $1 WHERE id = ANY($2)`, at, pq.Array(taskIDs))
	var n int64
	if res != nil {
		n, _ = res.RowsAffected()
	}
	logger.DatabaseResult("UPDATE", n, err)
	return err
}
