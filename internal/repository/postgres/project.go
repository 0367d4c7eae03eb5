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

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) repository.ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, name, description, status, creator, collaborators, priority, start_date, end_date, created_at, updated_at`

func (r *projectRepository) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Collaborators == nil {
		p.Collaborators = []string{}
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO projects (` + projectColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	logger.DatabaseCall("INSERT", "projects", "projectID", p.ID, "creator", p.Creator)
	res, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Status, p.Creator,
		pq.Array(p.Collaborators), p.Priority, p.StartDate, p.EndDate, p.CreatedAt, p.UpdatedAt)
	var rows int64
	if res != nil {
		rows, _ = res.RowsAffected()
	}
	logger.DatabaseResult("INSERT", rows, err, "projectID", p.ID)
	return translateError(err)
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.db.QueryRowContext(ctx, query, id))
}

func (r *projectRepository) ListByMember(ctx context.Context, identities []string) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
	          WHERE creator = ANY($1) OR collaborators && $1
	          ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(identities))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// AddCollaborator is a single conditional UPDATE so concurrent acceptances
// cannot lose or double an entry.
func (r *projectRepository) AddCollaborator(ctx context.Context, projectID, entry string, aliases []string) (bool, error) {
	logger.EnterMethod("projectRepository.AddCollaborator", "projectID", projectID, "entry", entry)

	query := `UPDATE projects
	          SET collaborators = array_append(collaborators, $2), updated_at = $3
	          WHERE id = $1 AND NOT (collaborators && $4::text[])`
	res, err := r.db.ExecContext(ctx, query, projectID, entry, time.Now().UTC(), pq.Array(aliases))
	if err != nil {
		logger.ExitMethodWithError("projectRepository.AddCollaborator", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		logger.ExitMethod("projectRepository.AddCollaborator", "added", true)
		return true, nil
	}

	// Nothing changed: either the entry is present or the project is gone.
	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, projectID).Scan(&exists)
	if err != nil {
		return false, err
	}
	if !exists {
		logger.ExitMethodWithError("projectRepository.AddCollaborator", repository.ErrNotFound)
		return false, repository.ErrNotFound
	}
	logger.ExitMethod("projectRepository.AddCollaborator", "added", false)
	return false, nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	p := &domain.Project{}
	var start, end sql.NullTime
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.Creator, pq.Array(&p.Collaborators),
		&p.Priority, &start, &end, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	if p.Collaborators == nil {
		p.Collaborators = []string{}
	}
	p.StartDate = timePtr(start)
	p.EndDate = timePtr(end)
	return p, nil
}
