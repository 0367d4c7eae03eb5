package domain

import "time"

// Invite offers collaboration on a project to one email address. It is
// redeemable once through its token.
type Invite struct {
	ID         string     `json:"id"`
	Token      string     `json:"token"`
	ProjectID  string     `json:"project_id"`
	Email      string     `json:"email"`
	Inviter    string     `json:"inviter"`
	Message    string     `json:"message"`
	Accepted   bool       `json:"accepted"`
	AcceptedBy *string    `json:"accepted_by"`
	AcceptedAt *time.Time `json:"accepted_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (i *Invite) IsPending() bool {
	return !i.Accepted
}

// SentBy reports whether the actor is the original inviter.
func (i *Invite) SentBy(a Actor) bool {
	return ParseIdentity(i.Inviter).Matches(a)
}

// AddressedTo compares the invitee email case-insensitively.
func (i *Invite) AddressedTo(email string) bool {
	return email != "" && NormalizeEmail(i.Email) == NormalizeEmail(email)
}
