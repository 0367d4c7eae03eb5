package domain

import "time"

type NotificationType string

const (
	NotificationTypeDeadline   NotificationType = "deadline"
	NotificationTypeMention    NotificationType = "mention"
	NotificationTypeAssignment NotificationType = "assignment"
	NotificationTypeUpdate     NotificationType = "update"
	NotificationTypeSystem     NotificationType = "system"
	NotificationTypeInvite     NotificationType = "invite"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeDeadline, NotificationTypeMention, NotificationTypeAssignment,
		NotificationTypeUpdate, NotificationTypeSystem, NotificationTypeInvite:
		return true
	}
	return false
}

type Notification struct {
	ID          string           `json:"id"`
	Recipient   string           `json:"user"` // user id or email
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Read        bool             `json:"read"`
	CreatedBy   *string          `json:"created_by"`
	ProjectID   *string          `json:"project_id"`
	TaskID      *string          `json:"task_id"`
	ActionURL   string           `json:"action_url"`
	Meta        map[string]any   `json:"meta"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// AddressedTo reports whether the actor is the recipient under either
// identity form.
func (n *Notification) AddressedTo(a Actor) bool {
	return ParseIdentity(n.Recipient).Matches(a)
}
