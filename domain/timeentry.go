package domain

import "time"

// TimeEntry records a span of tracked work. An entry with a nil EndTime is
// open: its duration is unknown until it is stopped.
type TimeEntry struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"task_id,omitempty"`
	UserID      string     `json:"user_id"`
	Description string     `json:"description,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Duration    *int64     `json:"duration,omitempty"` // whole seconds
	Billable    bool       `json:"billable"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (e *TimeEntry) IsOpen() bool {
	return e != nil && e.EndTime == nil
}

// Seconds returns the recorded duration, zero while the entry is open.
func (e *TimeEntry) Seconds() int64 {
	if e == nil || e.Duration == nil {
		return 0
	}
	return *e.Duration
}

// TaskHours is one row of the per-task breakdown in a TimeSummary.
type TaskHours struct {
	TaskID    string  `json:"task_id"`
	TaskTitle string  `json:"task_title"`
	Hours     float64 `json:"hours"`
}

// DayHours is one row of the per-calendar-day breakdown in a TimeSummary.
type DayHours struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// TimeSummary aggregates a user's entries over a trailing window.
// All hour figures are rounded to two decimal places.
type TimeSummary struct {
	TotalHours    float64     `json:"total_hours"`
	BillableHours float64     `json:"billable_hours"`
	ByTask        []TaskHours `json:"by_task"`
	ByDay         []DayHours  `json:"by_day"`
	ThisWeek      float64     `json:"this_week"`
	ThisMonth     float64     `json:"this_month"`
}
