package bolt

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cadwork/worklog/domain"
	"github.com/cadwork/worklog/internal/infrastructure/recordstore"
	"github.com/cadwork/worklog/repository"
)

type progressRepository struct {
	store  *recordstore.Store
	logger *zap.Logger
}

// NewProgressRepository returns a record-store-backed ProgressRepository.
func NewProgressRepository(store *recordstore.Store, logger *zap.Logger) repository.ProgressRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &progressRepository{store: store, logger: logger}
}

func (r *progressRepository) ListLessons(ctx context.Context) ([]domain.Lesson, error) {
	records, err := r.store.GetAll(ctx, recordstore.TableLessons)
	if err != nil {
		return nil, err
	}
	var lessons []domain.Lesson
	for _, rec := range records {
		var l domain.Lesson
		if err := decodeInto(rec, &l); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].OrderIndex < lessons[j].OrderIndex
	})
	return lessons, nil
}

func (r *progressRepository) GetLesson(ctx context.Context, id string) (*domain.Lesson, error) {
	rec, err := r.store.FindByID(ctx, recordstore.TableLessons, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrLessonNotFound
	}
	var lesson domain.Lesson
	if err := decodeInto(rec, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *progressRepository) CompleteLesson(ctx context.Context, userID, lessonID string) (*domain.Lesson, error) {
	if _, err := r.GetLesson(ctx, lessonID); err != nil {
		return nil, err
	}
	if err := r.store.Update(ctx, recordstore.TableLessons, lessonID, recordstore.Record{"completed": true}); err != nil {
		return nil, err
	}

	now := nowUTC()
	progress, err := r.findLessonProgress(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		entry := domain.LessonProgress{
			ID:          recordstore.GenerateID(),
			UserID:      userID,
			LessonID:    lessonID,
			CompletedAt: &now,
		}
		rec, err := toRecord(entry)
		if err != nil {
			return nil, err
		}
		if err := r.store.Insert(ctx, recordstore.TableLessonProgress, rec); err != nil {
			return nil, err
		}
	} else {
		partial := recordstore.Record{"completed_at": now.Format(time.RFC3339)}
		if err := r.store.Update(ctx, recordstore.TableLessonProgress, progress.ID, partial); err != nil {
			return nil, err
		}
	}
	if err := r.store.Save(ctx); err != nil {
		return nil, err
	}
	return r.GetLesson(ctx, lessonID)
}

func (r *progressRepository) findLessonProgress(ctx context.Context, userID, lessonID string) (*domain.LessonProgress, error) {
	records, err := r.store.GetAllByIndex(ctx, recordstore.TableLessonProgress, "lesson_id", lessonID)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		var p domain.LessonProgress
		if err := decodeInto(rec, &p); err != nil {
			return nil, err
		}
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *progressRepository) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	records, err := r.store.GetAll(ctx, recordstore.TableSkills)
	if err != nil {
		return nil, err
	}
	return decodeSkills(records)
}

func (r *progressRepository) ListSkillsByCategory(ctx context.Context, category string) ([]domain.Skill, error) {
	records, err := r.store.GetAllByIndex(ctx, recordstore.TableSkills, "category", category)
	if err != nil {
		return nil, err
	}
	return decodeSkills(records)
}

func (r *progressRepository) UpdateSkillProgress(ctx context.Context, userID, skillID, level string) (*domain.SkillProgress, error) {
	records, err := r.store.GetAllByIndex(ctx, recordstore.TableSkillProgress, "skill_id", skillID)
	if err != nil {
		return nil, err
	}
	now := nowUTC()
	for _, rec := range records {
		var p domain.SkillProgress
		if err := decodeInto(rec, &p); err != nil {
			return nil, err
		}
		if p.UserID != userID {
			continue
		}
		partial := recordstore.Record{
			"level":      level,
			"updated_at": now.Format(time.RFC3339),
		}
		if err := r.store.Update(ctx, recordstore.TableSkillProgress, p.ID, partial); err != nil {
			return nil, err
		}
		p.Level = level
		p.UpdatedAt = now
		return &p, nil
	}

	progress := domain.SkillProgress{
		ID:        recordstore.GenerateID(),
		UserID:    userID,
		SkillID:   skillID,
		Level:     level,
		UpdatedAt: now,
	}
	rec, err := toRecord(progress)
	if err != nil {
		return nil, err
	}
	if err := r.store.Insert(ctx, recordstore.TableSkillProgress, rec); err != nil {
		return nil, err
	}
	return &progress, nil
}

func decodeSkills(records []recordstore.Record) ([]domain.Skill, error) {
	var skills []domain.Skill
	for _, rec := range records {
		var s domain.Skill
		if err := decodeInto(rec, &s); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	sort.SliceStable(skills, func(i, j int) bool {
		return skills[i].OrderIndex < skills[j].OrderIndex
	})
	return skills, nil
}
