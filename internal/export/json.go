package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cadwork/worklog/domain"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	ID          string `json:"id"`
	Task        string `json:"task,omitempty"`
	TaskID      string `json:"task_id,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
	Description string `json:"description,omitempty"`
}

// ToJSON writes time entries to a JSON file at path with a small envelope
// recording when the export was taken.
func ToJSON(entries []domain.TimeEntry, tasks map[string]domain.Task, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
	}

	for _, e := range entries {
		endStr := ""
		if e.EndTime != nil {
			endStr = e.EndTime.Local().Format(time.RFC3339)
		}
		secs := e.Seconds()

		out.Entries = append(out.Entries, jsonEntry{
			ID:          e.ID,
			Task:        taskTitle(tasks, e.TaskID),
			TaskID:      e.TaskID,
			StartTime:   e.StartTime.Local().Format(time.RFC3339),
			EndTime:     endStr,
			DurationSec: secs,
			Duration:    formatDuration(secs),
			Description: e.Description,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
