package repository

import (
	"context"
	"errors"
	"time"

	"collab-deck-backend/internal/domain"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyAccepted is returned by InviteRepository.MarkAccepted when the
	// invite was accepted before the update ran.
	ErrAlreadyAccepted = errors.New("invite already accepted")
	// ErrDuplicate is returned on a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// ListByMember returns projects created by, or shared with, any of the
	// given identities.
	ListByMember(ctx context.Context, identities []string) ([]domain.Project, error)
	// AddCollaborator appends entry to the collaborator list unless the list
	// already holds any of aliases. It reports whether the list changed.
	AddCollaborator(ctx context.Context, projectID, entry string, aliases []string) (bool, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	// ListForMember returns tasks assigned to any of identities or belonging
	// to any of projectIDs.
	ListForMember(ctx context.Context, identities, projectIDs []string) ([]domain.Task, error)
	// ListDueBetween returns unfinished tasks whose due date is in [from, to)
	// and that have not been reminded about yet.
	ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.DueReminder, error)
	// MarkReminded stamps tasks so ListDueBetween skips them.
	MarkReminded(ctx context.Context, taskIDs []string, at time.Time) error
}

// ProjectPreferenceRepository stores per-user project settings, one row per
// (user, project).
type ProjectPreferenceRepository interface {
	Upsert(ctx context.Context, pref *domain.ProjectPreference) error
	// ListForUser returns the user's rows for any of projectIDs.
	ListForUser(ctx context.Context, userID string, projectIDs []string) ([]domain.ProjectPreference, error)
}

type InviteRepository interface {
	Create(ctx context.Context, invite *domain.Invite) error
	GetByID(ctx context.Context, id string) (*domain.Invite, error)
	GetByToken(ctx context.Context, token string) (*domain.Invite, error)
	ListByInviter(ctx context.Context, inviter string) ([]domain.Invite, error)
	MarkAccepted(ctx context.Context, invite *domain.Invite) error
	Delete(ctx context.Context, id string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	CreateMany(ctx context.Context, notes []*domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipients []string) ([]domain.Notification, error)
	SetRead(ctx context.Context, id string, read bool) (*domain.Notification, error)
	Delete(ctx context.Context, id string) error
}
