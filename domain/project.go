package domain

import "time"

// ProjectStatus is the project workflow state.
type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectOngoing   ProjectStatus = "ongoing"
	ProjectReview    ProjectStatus = "review"
	ProjectCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectDraft, ProjectOngoing, ProjectReview, ProjectCompleted:
		return true
	}
	return false
}

// Project groups tasks under an internship assignment.
type Project struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	Priority    TaskPriority  `json:"priority"`
	StartDate   string        `json:"start_date,omitempty"`
	DueDate     string        `json:"due_date,omitempty"`
	Progress    int           `json:"progress"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
