package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/logger"
	"collab-deck-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, recipient, type, title, description, read, created_by, project_id, task_id, action_url, meta, created_at, updated_at`

const insertNotification = `INSERT INTO notifications (` + notificationColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	logger.EnterMethod("notificationRepository.Create", "recipient", n.Recipient, "type", n.Type, "title", n.Title)

	err := insertOne(ctx, r.db, insertNotification, n)
	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "recipient", n.Recipient)
	} else {
		logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID)
	}
	return err
}

// CreateMany inserts every record in one transaction; either all are stored
// or none.
func (r *notificationRepository) CreateMany(ctx context.Context, notes []*domain.Notification) error {
	logger.EnterMethod("notificationRepository.CreateMany", "count", len(notes))
	if len(notes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.ExitMethodWithError("notificationRepository.CreateMany", err, "reason", "begin")
		return err
	}
	stmt, err := tx.PrepareContext(ctx, insertNotification)
	if err != nil {
		tx.Rollback()
		logger.ExitMethodWithError("notificationRepository.CreateMany", err, "reason", "prepare")
		return err
	}
	defer stmt.Close()

	for _, n := range notes {
		if err := insertOne(ctx, stmtExecer{stmt}, "", n); err != nil {
			tx.Rollback()
			logger.ExitMethodWithError("notificationRepository.CreateMany", err, "recipient", n.Recipient)
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("notificationRepository.CreateMany", err, "reason", "commit")
		return err
	}
	logger.ExitMethod("notificationRepository.CreateMany", "count", len(notes))
	return nil
}

type stmtExecer struct {
	stmt *sql.Stmt
}

func (s stmtExecer) ExecContext(ctx context.Context, _ string, args ...any) (sql.Result, error) {
	return s.stmt.ExecContext(ctx, args...)
}

func insertOne(ctx context.Context, ex execer, query string, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Meta == nil {
		n.Meta = map[string]any{}
	}
	meta, err := json.Marshal(n.Meta)
	if err != nil {
		return fmt.Errorf("failed to marshal notification meta: %w", err)
	}
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now

	logger.DatabaseCall("INSERT", "notifications", "recipient", n.Recipient)
	_, err = ex.ExecContext(ctx, query, n.ID, n.Recipient, n.Type, n.Title, n.Description, n.Read,
		nullString(n.CreatedBy), nullString(n.ProjectID), nullString(n.TaskID), n.ActionURL, meta, n.CreatedAt, n.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "notificationID", n.ID)
	return err
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	return scanNotification(r.db.QueryRowContext(ctx, query, id))
}

// ListByRecipient matches any of the given identity forms, newest first.
func (r *notificationRepository) ListByRecipient(ctx context.Context, recipients []string) ([]domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
	          WHERE recipient = ANY($1) ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(recipients))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

func (r *notificationRepository) SetRead(ctx context.Context, id string, read bool) (*domain.Notification, error) {
	query := `UPDATE notifications SET read = $1, updated_at = $2 WHERE id = $3 RETURNING ` + notificationColumns
	return scanNotification(r.db.QueryRowContext(ctx, query, read, time.Now().UTC(), id))
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
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

func scanNotification(row rowScanner) (*domain.Notification, error) {
	n := &domain.Notification{}
	var createdBy, projectID, taskID sql.NullString
	var meta []byte
	err := row.Scan(&n.ID, &n.Recipient, &n.Type, &n.Title, &n.Description, &n.Read,
		&createdBy, &projectID, &taskID, &n.ActionURL, &meta, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	n.CreatedBy = stringPtr(createdBy)
	n.ProjectID = stringPtr(projectID)
	n.TaskID = stringPtr(taskID)
	n.Meta = map[string]any{}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &n.Meta); err != nil {
			return nil, err
		}
	}
	return n, nil
}
