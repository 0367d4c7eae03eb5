package postgres

import (
	"context"
	"database/sql"
	"time"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/logger"
	"collab-deck-backend/internal/repository"

	"github.com/lib/pq"
)

type preferenceRepository struct {
	db *sql.DB
}

func NewProjectPreferenceRepository(db *sql.DB) repository.ProjectPreferenceRepository {
	return &preferenceRepository{db: db}
}

// Upsert replaces every setting of the (user, project) row. created_at is
// kept from the first write.
func (r *preferenceRepository) Upsert(ctx context.Context, p *domain.ProjectPreference) error {
	now := time.Now().UTC()
	p.UpdatedAt = now

	query := `INSERT INTO project_preferences
	              (user_id, project_id, pinned, archived, favorite, contributing, recently_viewed, viewed_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	          ON CONFLICT (user_id, project_id) DO UPDATE SET
	              pinned = EXCLUDED.pinned,
	              archived = EXCLUDED.archived,
	              favorite = EXCLUDED.favorite,
	              contributing = EXCLUDED.contributing,
	              recently_viewed = EXCLUDED.recently_viewed,
	              viewed_at = EXCLUDED.viewed_at,
	              updated_at = EXCLUDED.updated_at
	          RETURNING created_at`
	logger.DatabaseCall("UPSERT", "project_preferences", "userID", p.UserID, "projectID", p.ProjectID)
	err := r.db.QueryRowContext(ctx, query, p.UserID, p.ProjectID, p.Pinned, p.Archived, p.Favorite,
		p.Contributing, p.RecentlyViewed, p.ViewedAt, now).Scan(&p.CreatedAt)
	var rows int64
	if err == nil {
		rows = 1
	}
	logger.DatabaseResult("UPSERT", rows, err, "projectID", p.ProjectID)
	return translateError(err)
}

func (r *preferenceRepository) ListForUser(ctx context.Context, userID string, projectIDs []string) ([]domain.ProjectPreference, error) {
	prefs := []domain.ProjectPreference{}
	if len(projectIDs) == 0 {
		return prefs, nil
	}
	query := `SELECT user_id, project_id, pinned, archived, favorite, contributing, recently_viewed, viewed_at, created_at, updated_at
	          FROM project_preferences
	          WHERE user_id = $1 AND project_id = ANY($2)`
	rows, err := r.db.QueryContext(ctx, query, userID, pq.Array(projectIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.ProjectPreference
		var viewed sql.NullTime
		if err := rows.Scan(&p.UserID, &p.ProjectID, &p.Pinned, &p.Archived, &p.Favorite, &p.Contributing,
			&p.RecentlyViewed, &viewed, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.ViewedAt = timePtr(viewed)
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}
