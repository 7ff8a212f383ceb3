package domain

import "time"

// Lesson is a study unit in the internship curriculum.
type Lesson struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Category        string    `json:"category"`
	Content         string    `json:"content,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Difficulty      string    `json:"difficulty"`
	OrderIndex      int       `json:"order_index"`
	Completed       bool      `json:"completed"`
	CreatedAt       time.Time `json:"created_at"`
}

// LessonProgress tracks a user's completion of one lesson.
type LessonProgress struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	LessonID    string     `json:"lesson_id"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
