package service

import (
	"context"
	"time"

	"collab-deck-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password, passwordConfirm string) (*domain.User, error)
	Signin(ctx context.Context, email, password string) (*domain.User, string, error) // user, access token
	Me(ctx context.Context, actor domain.Actor) (*domain.User, error)
}

type ProjectService interface {
	CreateProject(ctx context.Context, actor domain.Actor, input ProjectInput) (*domain.Project, error)
	GetProject(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error)
	ListMyProjects(ctx context.Context, actor domain.Actor) ([]domain.Project, error)
	// Overview is the dashboard summary across every project the actor
	// belongs to.
	Overview(ctx context.Context, actor domain.Actor) (*domain.Overview, error)
	// ListMyTasks returns tasks assigned to the actor or in any of their
	// projects.
	ListMyTasks(ctx context.Context, actor domain.Actor) (*domain.MemberTasks, error)
	// ListMyProjectsWithPreferences is ListMyProjects with the actor's
	// per-project settings merged in.
	ListMyProjectsWithPreferences(ctx context.Context, actor domain.Actor) ([]domain.UserProject, error)
}

type UserService interface {
	// Lookup finds the account registered under email. A nil user with a nil
	// error means no account exists.
	Lookup(ctx context.Context, actor domain.Actor, email string) (*domain.User, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, actor domain.Actor, input TaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, actor domain.Actor, projectID string) ([]domain.Task, error)
	GetTask(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error)
	UpdateTask(ctx context.Context, actor domain.Actor, id string, update domain.TaskUpdate) (*domain.Task, error)
}

type InviteService interface {
	CreateInvite(ctx context.Context, actor domain.Actor, projectID, email, message string) (*domain.Invite, error)
	ResendInvite(ctx context.Context, actor domain.Actor, inviteID string) error
	CancelInvite(ctx context.Context, actor domain.Actor, inviteID string) error
	AcceptInvite(ctx context.Context, actor domain.Actor, token string) (*domain.Project, error)
	ListOutgoingInvites(ctx context.Context, actor domain.Actor) ([]domain.Invite, error)
}

// NotificationDispatcher creates notification records as a side effect of
// another operation. It never returns an error; failures are logged.
type NotificationDispatcher interface {
	Notify(ctx context.Context, recipient string, payload NotificationPayload) *domain.Notification
	NotifyMany(ctx context.Context, recipients []string, payload NotificationPayload) []domain.Notification
}

// NotificationService is the recipient-facing side of notifications.
type NotificationService interface {
	ListNotifications(ctx context.Context, actor domain.Actor) ([]domain.Notification, error)
	CreateNotification(ctx context.Context, actor domain.Actor, recipient string, payload NotificationPayload) (*domain.Notification, error)
	SetRead(ctx context.Context, actor domain.Actor, id string, read bool) (*domain.Notification, error)
	DeleteNotification(ctx context.Context, actor domain.Actor, id string) error
}

type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) DeliveryResult
}

type ReminderService interface {
	// SendDeadlineReminders notifies assignees of unfinished tasks due within
	// window of now and returns how many notifications were created.
	SendDeadlineReminders(ctx context.Context, now time.Time, window time.Duration) (int, error)
}

type ProjectInput struct {
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	Priority      domain.ProjectPriority `json:"priority"`
	StartDate     *time.Time             `json:"startDate"`
	EndDate       *time.Time             `json:"endDate"`
	Collaborators []string               `json:"collaborators"`
}

type TaskInput struct {
	ProjectID   string              `json:"projectId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    domain.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
	Assignees   []string            `json:"assignees"`
}

// NotificationPayload is the shared template for one or many notification
// records. The recipient is supplied separately.
type NotificationPayload struct {
	Type        domain.NotificationType `json:"type"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	CreatedBy   string                  `json:"createdBy"`
	ProjectID   string                  `json:"projectId"`
	TaskID      string                  `json:"taskId"`
	ActionURL   string                  `json:"actionUrl"`
	Meta        map[string]any          `json:"meta"`
}
