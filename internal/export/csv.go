package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/cadwork/worklog/domain"
)

// ToCSV writes time entries to a CSV file at path. Task titles are resolved
// from the tasks map; entries whose task was deleted show "Unknown".
func ToCSV(entries []domain.TimeEntry, tasks map[string]domain.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Task", "Start", "End", "Duration (s)", "Duration", "Description"}); err != nil {
		return err
	}

	for _, e := range entries {
		endStr := ""
		if e.EndTime != nil {
			endStr = e.EndTime.Local().Format(time.RFC3339)
		}
		secs := e.Seconds()

		row := []string{
			e.ID,
			taskTitle(tasks, e.TaskID),
			e.StartTime.Local().Format(time.RFC3339),
			endStr,
			fmt.Sprintf("%d", secs),
			formatDuration(secs),
			e.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func taskTitle(tasks map[string]domain.Task, taskID string) string {
	if taskID == "" {
		return ""
	}
	if t, ok := tasks[taskID]; ok {
		return t.Title
	}
	return "Unknown"
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
