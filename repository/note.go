package repository

import (
	"context"

	"github.com/cadwork/worklog/domain"
)

// NoteFilter narrows List. Zero-valued fields are ignored. Search matches
// title or content as a case-insensitive substring; Tags match when any of
// the given tags appears in the note's tag string.
type NoteFilter struct {
	TaskID   string
	LessonID string
	Category string
	Search   string
	Tags     []string
	Pinned   *bool
}

// NoteCreate carries the caller-supplied fields of a new note. Tags are
// accepted as a slice and encoded at the storage boundary.
type NoteCreate struct {
	UserID   string
	TaskID   string
	LessonID string
	Title    string
	Content  string
	Category string
	Tags     []string
	IsPinned bool
}

// NotePatch is a partial update; nil fields are left untouched.
type NotePatch struct {
	TaskID   *string
	LessonID *string
	Title    *string
	Content  *string
	Category *string
	Tags     *[]string
	IsPinned *bool
}

type NoteRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Note, error)
	// List returns a user's notes, pinned first, most recently updated
	// next.
	List(ctx context.Context, userID string, filter NoteFilter) ([]domain.Note, error)
	Create(ctx context.Context, create NoteCreate) (*domain.Note, error)
	Update(ctx context.Context, id string, patch NotePatch) (*domain.Note, error)
	Delete(ctx context.Context, id string) error
	TogglePin(ctx context.Context, id string) (*domain.Note, error)
	// Categories returns the distinct note categories for a user, sorted.
	Categories(ctx context.Context, userID string) ([]string, error)
	// Tags returns the distinct tags across a user's notes, sorted.
	Tags(ctx context.Context, userID string) ([]string, error)
}
