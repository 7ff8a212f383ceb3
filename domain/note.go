package domain

import (
	"strings"
	"time"
)

// Note is a free-form note, optionally attached to a task or a lesson.
// Tags are persisted as a single comma-joined string; use SplitTags and
// JoinTags instead of touching the encoding at call sites.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TaskID    string    `json:"task_id,omitempty"`
	LessonID  string    `json:"lesson_id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Category  string    `json:"category"`
	Tags      string    `json:"tags,omitempty"`
	IsPinned  bool      `json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagList returns the note's tags decoded into a slice.
func (n *Note) TagList() []string {
	if n == nil {
		return nil
	}
	return SplitTags(n.Tags)
}

// SplitTags decodes the comma-joined tag encoding. Tags are trimmed;
// empty segments are dropped.
func SplitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// JoinTags encodes a tag slice into the stored comma-joined form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
