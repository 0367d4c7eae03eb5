package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"collab-deck-backend/internal/logger"
	"collab-deck-backend/internal/repository"

	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ProjectRepository
	repository.TaskRepository
	repository.InviteRepository
	repository.NotificationRepository
	repository.ProjectPreferenceRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                          db,
		UserRepository:              NewUserRepository(db),
		ProjectRepository:           NewProjectRepository(db),
		TaskRepository:              NewTaskRepository(db),
		InviteRepository:            NewInviteRepository(db),
		NotificationRepository:      NewNotificationRepository(db),
		ProjectPreferenceRepository: NewProjectPreferenceRepository(db),
	}
}

func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates any missing tables and indexes.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall("MIGRATE", "schema.sql")
	_, err := db.ExecContext(ctx, schema)
	logger.DatabaseResult("MIGRATE", 0, err)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// The process shares one pool. A failed attempt is not cached so the next
// caller retries.
var (
	connMu sync.Mutex
	conn   *sql.DB
	openDB = sql.Open
)

// Connect returns the process-wide connection pool, opening and pinging it on
// first use.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	connMu.Lock()
	defer connMu.Unlock()

	if conn != nil {
		return conn, nil
	}

	db, err := openDB("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		logger.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established")
	conn = db
	return conn, nil
}

// Close tears down the shared pool. Only call it at process shutdown.
func Close() error {
	connMu.Lock()
	defer connMu.Unlock()

	if conn == nil {
		return nil
	}
	err := conn.Close()
	conn = nil
	return err
}

const uniqueViolation = "23505"

// translateError maps driver errors onto repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pqErr.Constraint)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
