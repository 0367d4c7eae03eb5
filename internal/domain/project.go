package domain

import (
	"math"
	"time"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

type ProjectPriority string

const (
	ProjectPriorityLow      ProjectPriority = "low"
	ProjectPriorityMedium   ProjectPriority = "medium"
	ProjectPriorityHigh     ProjectPriority = "high"
	ProjectPriorityCritical ProjectPriority = "critical"
)

func (p ProjectPriority) Valid() bool {
	switch p {
	case ProjectPriorityLow, ProjectPriorityMedium, ProjectPriorityHigh, ProjectPriorityCritical:
		return true
	}
	return false
}

type Project struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Status        ProjectStatus   `json:"status"`
	Creator       string          `json:"creator"`       // user id or email
	Collaborators []string        `json:"collaborators"` // user ids or emails, in insertion order
	Priority      ProjectPriority `json:"priority"`
	StartDate     *time.Time      `json:"start_date"`
	EndDate       *time.Time      `json:"end_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p *Project) IsCreator(a Actor) bool {
	return ParseIdentity(p.Creator).Matches(a)
}

func (p *Project) IsCollaborator(a Actor) bool {
	return ContainsActor(p.Collaborators, a)
}

// HasMember is true for the creator and every collaborator.
func (p *Project) HasMember(a Actor) bool {
	return p.IsCreator(a) || p.IsCollaborator(a)
}

// DaysUntilDeadline rounds up to whole days; nil when the project has no end
// date.
func (p *Project) DaysUntilDeadline(now time.Time) *int {
	if p.EndDate == nil {
		return nil
	}
	days := int(math.Ceil(p.EndDate.Sub(now).Hours() / 24))
	return &days
}
