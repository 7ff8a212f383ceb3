package bolt

import (
	"context"

	"go.uber.org/zap"

	"github.com/cadwork/worklog/domain"
	"github.com/cadwork/worklog/internal/infrastructure/recordstore"
)

// DefaultUserID is the id of the profile provisioned on first run. The
// store is single-user; this row is what CurrentUser resolves to unless a
// different id is configured.
const DefaultUserID = "user-1"

// Seed provisions the default profile and sample data when the store is
// empty. It keys off the users table, so repeated calls are no-ops; the
// returned bool reports whether seeding ran.
func Seed(ctx context.Context, store *recordstore.Store, logger *zap.Logger) (bool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	users, err := store.GetAll(ctx, recordstore.TableUsers)
	if err != nil {
		return false, err
	}
	if len(users) > 0 {
		return false, nil
	}

	now := nowUTC()

	user := domain.User{
		ID:        DefaultUserID,
		Name:      "Intern Developer",
		Email:     "intern@cadwork.example",
		Role:      "intern",
		CreatedAt: now,
		UpdatedAt: now,
	}
	settings := domain.DefaultSettings(user.ID)
	settings.ID = "settings-1"

	projects := []domain.Project{
		{
			ID:          "proj-1",
			Title:       "Hydraulic System Blueprinting",
			Description: "Comprehensive CAD documentation for hydraulic systems including pressure analysis and flow diagrams.",
			Status:      domain.ProjectOngoing,
			Priority:    domain.PriorityHigh,
			StartDate:   "2026-01-15",
			DueDate:     "2026-02-28",
			Progress:    65,
		},
		{
			ID:          "proj-2",
			Title:       "Automated CAD Validation Engine",
			Description: "Automated validation pipeline for CAD files ensuring compliance with engineering standards.",
			Status:      domain.ProjectReview,
			Priority:    domain.PriorityHigh,
			StartDate:   "2026-02-02",
			DueDate:     "2026-02-15",
			Progress:    92,
		},
		{
			ID:          "proj-3",
			Title:       "Turbine Optimization Report",
			Description: "Analysis and optimization report for industrial turbine performance metrics.",
			Status:      domain.ProjectCompleted,
			Priority:    domain.PriorityMedium,
			StartDate:   "2025-12-10",
			DueDate:     "2026-01-15",
			Progress:    100,
		},
		{
			ID:          "proj-4",
			Title:       "Material Stress Simulation",
			Description: "Finite element analysis simulation for new composite materials under load.",
			Status:      domain.ProjectDraft,
			Priority:    domain.PriorityLow,
			StartDate:   "2026-02-10",
			DueDate:     "2026-03-30",
			Progress:    12,
		},
	}

	type seedTask struct {
		id, project, title, desc string
		status                   domain.TaskStatus
		priority                 domain.TaskPriority
		due                      string
		estimated, actual        float64
		position                 int
		completed                bool
	}
	seedTasks := []seedTask{
		{"task-1", "proj-1", "Design pressure analysis module", "Create detailed pressure analysis calculations", domain.StatusCompleted, domain.PriorityHigh, "2026-01-20", 8, 8, 0, true},
		{"task-2", "proj-1", "Implement flow diagram generator", "Build automated flow diagram creation tool", domain.StatusInProgress, domain.PriorityHigh, "2026-02-05", 16, 6, 1, false},
		{"task-3", "proj-1", "Documentation review", "Review and approve all technical documentation", domain.StatusTodo, domain.PriorityMedium, "2026-02-25", 4, 0, 2, false},
		{"task-4", "proj-2", "Validation rule engine", "Implement core validation logic", domain.StatusCompleted, domain.PriorityHigh, "2026-02-08", 20, 18, 0, true},
		{"task-5", "proj-2", "Error reporting system", "Build user-friendly error display", domain.StatusReview, domain.PriorityMedium, "2026-02-12", 6, 5, 1, false},
		{"task-6", "proj-3", "Performance data collection", "Gather turbine performance metrics", domain.StatusCompleted, domain.PriorityHigh, "2025-12-20", 12, 12, 0, true},
		{"task-7", "proj-4", "Material properties database", "Research and catalog composite materials", domain.StatusInProgress, domain.PriorityMedium, "2026-02-20", 10, 3, 0, false},
	}

	lessons := []domain.Lesson{
		{ID: "lesson-1", Title: "Drawing Standards & Conventions", Category: "fundamentals", Content: "Sheet layouts, title blocks, and dimensioning conventions used across the office.", DurationMinutes: 45, Difficulty: "beginner", OrderIndex: 0, CreatedAt: now},
		{ID: "lesson-2", Title: "Parametric Modeling Basics", Category: "fundamentals", Content: "Building constraint-driven models that survive revision cycles.", DurationMinutes: 60, Difficulty: "beginner", OrderIndex: 1, CreatedAt: now},
		{ID: "lesson-3", Title: "Assembly Workflows", Category: "workflows", Content: "Managing large assemblies, reference geometry, and interference checks.", DurationMinutes: 90, Difficulty: "intermediate", OrderIndex: 2, CreatedAt: now},
		{ID: "lesson-4", Title: "Revision & Release Process", Category: "workflows", Content: "Change orders, revision tables, and the release checklist.", DurationMinutes: 50, Difficulty: "intermediate", OrderIndex: 3, CreatedAt: now},
		{ID: "lesson-5", Title: "Simulation-Driven Design", Category: "workflows", Content: "Feeding FEA results back into model revisions.", DurationMinutes: 75, Difficulty: "advanced", OrderIndex: 4, CreatedAt: now},
	}

	skills := []domain.Skill{
		{ID: "skill-1", Name: "Technical Drawing", Category: "fundamentals", Description: "Producing standards-compliant drawings", Level: "beginner", OrderIndex: 0},
		{ID: "skill-2", Name: "Part Modeling", Category: "fundamentals", Description: "Solid and surface modeling of single parts", Level: "beginner", OrderIndex: 1},
		{ID: "skill-3", Name: "Assemblies", Category: "fundamentals", Description: "Constraint-based assembly construction", Level: "intermediate", OrderIndex: 2},
		{ID: "skill-4", Name: "Sheet Metal", Category: "fundamentals", Description: "Flat patterns and bend allowances", Level: "intermediate", OrderIndex: 3},
		{ID: "skill-5", Name: "FEA Basics", Category: "analysis", Description: "Meshing and boundary conditions", Level: "intermediate", OrderIndex: 4},
		{ID: "skill-6", Name: "Tolerance Analysis", Category: "analysis", Description: "Stack-ups and GD&T interpretation", Level: "advanced", OrderIndex: 5},
		{ID: "skill-7", Name: "Design Review", Category: "analysis", Description: "Preparing and presenting review packages", Level: "intermediate", OrderIndex: 6},
	}

	put := func(table string, v any) error {
		rec, err := toRecord(v)
		if err != nil {
			return err
		}
		return store.Insert(ctx, table, rec)
	}

	if err := put(recordstore.TableUsers, user); err != nil {
		return false, err
	}
	if err := put(recordstore.TableSettings, settings); err != nil {
		return false, err
	}
	for i := range projects {
		projects[i].CreatedAt = now
		projects[i].UpdatedAt = now
		if err := put(recordstore.TableProjects, projects[i]); err != nil {
			return false, err
		}
	}
	for _, st := range seedTasks {
		task := domain.Task{
			ID:             st.id,
			ProjectID:      st.project,
			Title:          st.title,
			Description:    st.desc,
			Status:         st.status,
			Priority:       st.priority,
			AssigneeID:     user.ID,
			DueDate:        st.due,
			EstimatedHours: st.estimated,
			ActualHours:    st.actual,
			Position:       st.position,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if st.completed {
			completed := now
			task.CompletedAt = &completed
		}
		if err := put(recordstore.TableTasks, task); err != nil {
			return false, err
		}
	}
	for _, lesson := range lessons {
		if err := put(recordstore.TableLessons, lesson); err != nil {
			return false, err
		}
	}
	for _, skill := range skills {
		if err := put(recordstore.TableSkills, skill); err != nil {
			return false, err
		}
	}

	logger.Info("seeded initial data",
		zap.Int("projects", len(projects)),
		zap.Int("tasks", len(seedTasks)),
		zap.Int("lessons", len(lessons)),
		zap.Int("skills", len(skills)))
	return true, nil
}
