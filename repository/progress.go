package repository

import (
	"context"

	"github.com/cadwork/worklog/domain"
)

// ProgressRepository exposes the curriculum side of the dashboard: lessons,
// skills, and per-user completion tracking.
type ProgressRepository interface {
	ListLessons(ctx context.Context) ([]domain.Lesson, error)
	GetLesson(ctx context.Context, id string) (*domain.Lesson, error)
	// CompleteLesson marks the lesson done and upserts the user's
	// progress row for it.
	CompleteLesson(ctx context.Context, userID, lessonID string) (*domain.Lesson, error)

	ListSkills(ctx context.Context) ([]domain.Skill, error)
	ListSkillsByCategory(ctx context.Context, category string) ([]domain.Skill, error)
	// UpdateSkillProgress upserts the user's self-assessed level for a
	// skill, keyed by (user, skill).
	UpdateSkillProgress(ctx context.Context, userID, skillID, level string) (*domain.SkillProgress, error)
}
