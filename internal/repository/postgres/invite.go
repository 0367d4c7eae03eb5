package postgres

import (
	"context"
	"database/sql"
	"time"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/logger"
	"collab-deck-backend/internal/repository"

	"github.com/google/uuid"
)

type inviteRepository struct {
	db *sql.DB
}

func NewInviteRepository(db *sql.DB) repository.InviteRepository {
	return &inviteRepository{db: db}
}

const inviteColumns = `id, token, project_id, email, inviter, message, accepted, accepted_by, accepted_at, created_at, updated_at`

func (r *inviteRepository) Create(ctx context.Context, inv *domain.Invite) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := `INSERT INTO invites (` + inviteColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	logger.DatabaseCall("INSERT", "invites", "inviteID", inv.ID, "projectID", inv.ProjectID)
	_, err := r.db.ExecContext(ctx, query, inv.ID, inv.Token, inv.ProjectID, inv.Email, inv.Inviter, inv.Message,
		inv.Accepted, nullString(inv.AcceptedBy), inv.AcceptedAt, inv.CreatedAt, inv.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "inviteID", inv.ID)
	return translateError(err)
}

func (r *inviteRepository) GetByID(ctx context.Context, id string) (*domain.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE id = $1`
	return scanInvite(r.db.QueryRowContext(ctx, query, id))
}

func (r *inviteRepository) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE token = $1`
	return scanInvite(r.db.QueryRowContext(ctx, query, token))
}

func (r *inviteRepository) ListByInviter(ctx context.Context, inviter string) ([]domain.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE inviter = $1`
	rows, err := r.db.QueryContext(ctx, query, inviter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := []domain.Invite{}
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, *inv)
	}
	return invites, rows.Err()
}

// MarkAccepted flips accepted exactly once. The guard on accepted = FALSE makes
// a concurrent second acceptance fail with ErrAlreadyAccepted.
func (r *inviteRepository) MarkAccepted(ctx context.Context, inv *domain.Invite) error {
	now := time.Now().UTC()
	if inv.AcceptedAt == nil {
		inv.AcceptedAt = &now
	}

	query := `UPDATE invites SET accepted = TRUE, accepted_by = $1, accepted_at = $2, updated_at = $3
	          WHERE id = $4 AND accepted = FALSE`
	res, err := r.db.ExecContext(ctx, query, nullString(inv.AcceptedBy), inv.AcceptedAt, now, inv.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrAlreadyAccepted
	}
	inv.Accepted = true
	inv.UpdatedAt = now
	return nil
}

func (r *inviteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invites WHERE id = $1`, id)
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

func scanInvite(row rowScanner) (*domain.Invite, error) {
	inv := &domain.Invite{}
	var acceptedBy sql.NullString
	var acceptedAt sql.NullTime
	err := row.Scan(&inv.ID, &inv.Token, &inv.ProjectID, &inv.Email, &inv.Inviter, &inv.Message, &inv.Accepted,
		&acceptedBy, &acceptedAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	inv.AcceptedBy = stringPtr(acceptedBy)
	inv.AcceptedAt = timePtr(acceptedAt)
	return inv, nil
}
