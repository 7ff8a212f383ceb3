package tracker

import (
	"context"

	"go.uber.org/zap"

	"github.com/cadwork/worklog/domain"
	"github.com/cadwork/worklog/repository"
)

// UseCase orchestrates the start/stop tracking flow: it resolves the
// current user, enforces the single-open-entry rule through the
// repository, and rolls tracked time up onto tasks after a stop.
type UseCase struct {
	users   repository.UserRepository
	entries repository.TimeEntryRepository
	logger  *zap.Logger
}

func New(users repository.UserRepository, entries repository.TimeEntryRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:   users,
		entries: entries,
		logger:  logger,
	}
}

// Start opens a new entry for the current user. Any entry already running
// is stopped first.
func (uc *UseCase) Start(ctx context.Context, taskID, description string) (*domain.TimeEntry, error) {
	user, err := uc.users.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := uc.entries.Start(ctx, user.ID, taskID, description)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("tracking started",
		zap.String("entry_id", entry.ID),
		zap.String("task_id", entry.TaskID))
	return entry, nil
}

// Stop closes the current user's open entry and refreshes the owning
// task's actual hours. Returns ErrTimeEntryNotFound when nothing is
// running.
func (uc *UseCase) Stop(ctx context.Context) (*domain.TimeEntry, error) {
	user, err := uc.users.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	active, err := uc.entries.Active(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, domain.ErrTimeEntryNotFound
	}

	stopped, err := uc.entries.Stop(ctx, active.ID)
	if err != nil {
		return nil, err
	}
	if stopped.TaskID != "" {
		if err := uc.entries.UpdateTaskActualHours(ctx, stopped.TaskID); err != nil {
			// Rollup failure leaves the entry stopped and correct; the
			// task figure catches up on the next stop.
			uc.logger.Warn("actual hours rollup failed",
				zap.String("task_id", stopped.TaskID), zap.Error(err))
		}
	}
	uc.logger.Info("tracking stopped",
		zap.String("entry_id", stopped.ID),
		zap.Int64("seconds", stopped.Seconds()))
	return stopped, nil
}

// Status reports the current user's open entry, nil when idle.
func (uc *UseCase) Status(ctx context.Context) (*domain.TimeEntry, error) {
	user, err := uc.users.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return uc.entries.Active(ctx, user.ID)
}
