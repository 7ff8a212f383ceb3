package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/cadwork/worklog/domain"
	"github.com/cadwork/worklog/repository"
)

// Report is the aggregate view the dashboard renders: task counters, the
// tracked-time summary, and whatever entry is running right now.
type Report struct {
	User        *domain.User        `json:"user"`
	Tasks       *domain.TaskStats   `json:"tasks"`
	Time        *domain.TimeSummary `json:"time"`
	ActiveEntry *domain.TimeEntry   `json:"active_entry,omitempty"`
}

type UseCase struct {
	users   repository.UserRepository
	tasks   repository.TaskRepository
	entries repository.TimeEntryRepository
	logger  *zap.Logger
}

func New(users repository.UserRepository, tasks repository.TaskRepository, entries repository.TimeEntryRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:   users,
		tasks:   tasks,
		entries: entries,
		logger:  logger,
	}
}

// Build assembles the report for the current user over a trailing window of
// days (30 when days <= 0).
func (uc *UseCase) Build(ctx context.Context, days int) (*Report, error) {
	user, err := uc.users.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := uc.tasks.Stats(ctx, repository.TaskFilter{AssigneeID: user.ID})
	if err != nil {
		return nil, err
	}

	summary, err := uc.entries.Summary(ctx, user.ID, days)
	if err != nil {
		return nil, err
	}

	active, err := uc.entries.Active(ctx, user.ID)
	if err != nil {
		// A broken active lookup should not blank the whole dashboard.
		uc.logger.Warn("active entry lookup failed", zap.Error(err))
		active = nil
	}

	return &Report{
		User:        user,
		Tasks:       stats,
		Time:        summary,
		ActiveEntry: active,
	}, nil
}
