package domain

import "time"

// TaskStatus is the task workflow state.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// TaskStatuses lists every valid status in display order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusReview, StatusCompleted, StatusCancelled}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TaskPriority is the task urgency level.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// TaskPriorities lists every valid priority in display order.
var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task represents a tracked unit of work, optionally attached to a project.
type Task struct {
	ID             string       `json:"id"`
	ProjectID      string       `json:"project_id,omitempty"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	AssigneeID     string       `json:"assignee_id,omitempty"`
	DueDate        string       `json:"due_date,omitempty"`
	EstimatedHours float64      `json:"estimated_hours,omitempty"`
	ActualHours    float64      `json:"actual_hours"`
	Position       int          `json:"position"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// TaskStats aggregates a task list into fixed status and priority buckets.
type TaskStats struct {
	Total             int                  `json:"total"`
	ByStatus          map[TaskStatus]int   `json:"by_status"`
	ByPriority        map[TaskPriority]int `json:"by_priority"`
	TotalEstimated    float64              `json:"total_estimated"`
	TotalActual       float64              `json:"total_actual"`
	CompletedThisWeek int                  `json:"completed_this_week"`
	Overdue           int                  `json:"overdue"`
}
