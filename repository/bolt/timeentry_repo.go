package bolt

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cadwork/worklog/domain"
	"github.com/cadwork/worklog/internal/infrastructure/recordstore"
	"github.com/cadwork/worklog/repository"
)

type timeEntryRepository struct {
	store  *recordstore.Store
	logger *zap.Logger
}

// NewTimeEntryRepository returns a record-store-backed TimeEntryRepository.
func NewTimeEntryRepository(store *recordstore.Store, logger *zap.Logger) repository.TimeEntryRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &timeEntryRepository{store: store, logger: logger}
}

func (r *timeEntryRepository) GetByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	rec, err := r.store.FindByID(ctx, recordstore.TableTimeEntries, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrTimeEntryNotFound
	}
	var entry domain.TimeEntry
	if err := decodeInto(rec, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) List(ctx context.Context, userID string) ([]domain.TimeEntry, error) {
	var (
		records []recordstore.Record
		err     error
	)
	if userID != "" {
		records, err = r.store.GetAllByIndex(ctx, recordstore.TableTimeEntries, "user_id", userID)
	} else {
		records, err = r.store.GetAll(ctx, recordstore.TableTimeEntries)
	}
	if err != nil {
		return nil, err
	}
	return decodeEntries(records)
}

func (r *timeEntryRepository) Create(ctx context.Context, create repository.TimeEntryCreate) (*domain.TimeEntry, error) {
	if create.UserID == "" {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "time entry user is required", nil)
	}
	if create.StartTime.IsZero() {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "time entry start is required", nil)
	}

	entry := domain.TimeEntry{
		ID:          recordstore.GenerateID(),
		TaskID:      create.TaskID,
		UserID:      create.UserID,
		Description: create.Description,
		StartTime:   normalizeTime(create.StartTime),
		Billable:    create.Billable,
		CreatedAt:   nowUTC(),
	}
	if create.EndTime != nil {
		end := normalizeTime(*create.EndTime)
		entry.EndTime = &end
		entry.Duration = durationSeconds(entry.StartTime, end)
	}

	rec, err := toRecord(entry)
	if err != nil {
		return nil, err
	}
	if err := r.store.Insert(ctx, recordstore.TableTimeEntries, rec); err != nil {
		return nil, err
	}
	if err := r.store.Save(ctx); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) Update(ctx context.Context, id string, patch repository.TimeEntryPatch) (*domain.TimeEntry, error) {
	partial := recordstore.Record{}
	if patch.TaskID != nil {
		partial["task_id"] = *patch.TaskID
	}
	if patch.Description != nil {
		partial["description"] = *patch.Description
	}
	if patch.StartTime != nil {
		partial["start_time"] = normalizeTime(*patch.StartTime).Format(time.RFC3339)
	}
	if patch.EndTime != nil {
		partial["end_time"] = normalizeTime(*patch.EndTime).Format(time.RFC3339)
	}
	if patch.Billable != nil {
		partial["billable"] = *patch.Billable
	}
	// Duration is derived, recomputed only when the patch carries both
	// endpoints; a lone end_time change goes through Stop.
	if patch.StartTime != nil && patch.EndTime != nil {
		if secs := durationSeconds(normalizeTime(*patch.StartTime), normalizeTime(*patch.EndTime)); secs != nil {
			partial["duration"] = *secs
		}
	}
	return r.applyUpdate(ctx, id, partial)
}

func (r *timeEntryRepository) applyUpdate(ctx context.Context, id string, partial recordstore.Record) (*domain.TimeEntry, error) {
	if err := r.store.Update(ctx, recordstore.TableTimeEntries, id, partial); err != nil {
		return nil, err
	}
	entry, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.store.Save(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *timeEntryRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, recordstore.TableTimeEntries, id); err != nil {
		return err
	}
	return r.store.Save(ctx)
}

func (r *timeEntryRepository) Active(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	entries, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	var open *domain.TimeEntry
	for i := range entries {
		e := &entries[i]
		if !e.IsOpen() {
			continue
		}
		if open == nil || e.StartTime.After(open.StartTime) {
			open = e
		}
	}
	return open, nil
}

func (r *timeEntryRepository) Start(ctx context.Context, userID, taskID, description string) (*domain.TimeEntry, error) {
	// At most one open entry per user: close the running one first.
	active, err := r.Active(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		if _, err := r.Stop(ctx, active.ID); err != nil {
			return nil, err
		}
		r.logger.Debug("auto-stopped open entry",
			zap.String("entry_id", active.ID),
			zap.String("user_id", userID))
	}

	return r.Create(ctx, repository.TimeEntryCreate{
		UserID:      userID,
		TaskID:      taskID,
		Description: description,
		StartTime:   nowUTC(),
	})
}

func (r *timeEntryRepository) Stop(ctx context.Context, id string) (*domain.TimeEntry, error) {
	entry, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	end := nowUTC()
	partial := recordstore.Record{
		"end_time": end.Format(time.RFC3339),
	}
	if secs := durationSeconds(entry.StartTime, end); secs != nil {
		partial["duration"] = *secs
	}
	return r.applyUpdate(ctx, id, partial)
}

func (r *timeEntryRepository) ListByTask(ctx context.Context, taskID string) ([]domain.TimeEntry, error) {
	records, err := r.store.GetAllByIndex(ctx, recordstore.TableTimeEntries, "task_id", taskID)
	if err != nil {
		return nil, err
	}
	return decodeEntries(records)
}

func (r *timeEntryRepository) ListByRange(ctx context.Context, userID string, from, to time.Time) ([]domain.TimeEntry, error) {
	records, err := r.store.Query(ctx, recordstore.TableTimeEntries,
		recordstore.Eq("user_id", userID),
		recordstore.Gte("start_time", normalizeTime(from).Format(time.RFC3339)),
		recordstore.Lte("start_time", normalizeTime(to).Format(time.RFC3339)),
	)
	if err != nil {
		return nil, err
	}
	return decodeEntries(records)
}

func (r *timeEntryRepository) ListToday(ctx context.Context, userID string) ([]domain.TimeEntry, error) {
	today := nowUTC().Truncate(24 * time.Hour)
	return r.ListByRange(ctx, userID, today, today.AddDate(0, 0, 1))
}

func (r *timeEntryRepository) Summary(ctx context.Context, userID string, days int) (*domain.TimeSummary, error) {
	if days <= 0 {
		days = 30
	}
	now := nowUTC()
	entries, err := r.ListByRange(ctx, userID, now.AddDate(0, 0, -days), now)
	if err != nil {
		return nil, err
	}

	today := now.Truncate(24 * time.Hour)
	weekStart := today.AddDate(0, 0, -int(today.Weekday())) // calendar week starting Sunday
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	summary := &domain.TimeSummary{}
	byTask := make(map[string]*domain.TaskHours)
	byDay := make(map[string]float64)

	for _, entry := range entries {
		hours := float64(entry.Seconds()) / 3600

		summary.TotalHours += hours
		if entry.Billable {
			summary.BillableHours += hours
		}

		if entry.TaskID != "" {
			// Entries pointing at a deleted task stay in the totals but
			// are skipped from the per-task breakdown.
			if title, ok := r.taskTitle(ctx, entry.TaskID); ok {
				th, exists := byTask[entry.TaskID]
				if !exists {
					th = &domain.TaskHours{TaskID: entry.TaskID, TaskTitle: title}
					byTask[entry.TaskID] = th
				}
				th.Hours += hours
			}
		}

		day := entry.StartTime.UTC().Format("2006-01-02")
		byDay[day] += hours

		if !entry.StartTime.Before(weekStart) {
			summary.ThisWeek += hours
		}
		if !entry.StartTime.Before(monthStart) {
			summary.ThisMonth += hours
		}
	}

	summary.TotalHours = round2(summary.TotalHours)
	summary.BillableHours = round2(summary.BillableHours)
	summary.ThisWeek = round2(summary.ThisWeek)
	summary.ThisMonth = round2(summary.ThisMonth)

	for _, th := range byTask {
		summary.ByTask = append(summary.ByTask, domain.TaskHours{
			TaskID:    th.TaskID,
			TaskTitle: th.TaskTitle,
			Hours:     round2(th.Hours),
		})
	}
	sort.Slice(summary.ByTask, func(i, j int) bool {
		if summary.ByTask[i].Hours != summary.ByTask[j].Hours {
			return summary.ByTask[i].Hours > summary.ByTask[j].Hours
		}
		return summary.ByTask[i].TaskTitle < summary.ByTask[j].TaskTitle
	})

	for day, hours := range byDay {
		summary.ByDay = append(summary.ByDay, domain.DayHours{Date: day, Hours: round2(hours)})
	}
	sort.Slice(summary.ByDay, func(i, j int) bool {
		return summary.ByDay[i].Date < summary.ByDay[j].Date
	})

	return summary, nil
}

func (r *timeEntryRepository) UpdateTaskActualHours(ctx context.Context, taskID string) error {
	entries, err := r.ListByTask(ctx, taskID)
	if err != nil {
		return err
	}
	var totalSeconds int64
	for _, e := range entries {
		totalSeconds += e.Seconds()
	}
	hours := math.Round(float64(totalSeconds) / 3600)

	task, err := r.store.FindByID(ctx, recordstore.TableTasks, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return nil
	}
	if err := r.store.Update(ctx, recordstore.TableTasks, taskID, recordstore.Record{"actual_hours": hours}); err != nil {
		return err
	}
	return r.store.Save(ctx)
}

func (r *timeEntryRepository) taskTitle(ctx context.Context, taskID string) (string, bool) {
	rec, err := r.store.FindByID(ctx, recordstore.TableTasks, taskID)
	if err != nil || rec == nil {
		return "", false
	}
	title, _ := rec["title"].(string)
	return title, true
}

func decodeEntries(records []recordstore.Record) ([]domain.TimeEntry, error) {
	var entries []domain.TimeEntry
	for _, rec := range records {
		var e domain.TimeEntry
		if err := decodeInto(rec, &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime.After(entries[j].StartTime)
	})
	return entries, nil
}

// durationSeconds derives the stored whole-second duration; nil when the
// entry is still open or the end precedes the start.
func durationSeconds(start, end time.Time) *int64 {
	if end.Before(start) {
		return nil
	}
	secs := int64(math.Round(end.Sub(start).Seconds()))
	return &secs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
