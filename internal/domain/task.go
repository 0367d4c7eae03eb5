package domain

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"project_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Assignees   []string     `json:"assignees"` // user ids or emails
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	Status      TaskStatus   `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TaskUpdate carries the fields a board move or edit may change. Nil fields
// are left untouched.
type TaskUpdate struct {
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	Description *string       `json:"description,omitempty"`
}

func (u TaskUpdate) IsEmpty() bool {
	return u.Status == nil && u.Priority == nil && u.Description == nil
}

// DueReminder is a task that is due soon, joined with its project for the
// reminder text.
type DueReminder struct {
	Task           Task
	ProjectName    string
	ProjectCreator string
}
