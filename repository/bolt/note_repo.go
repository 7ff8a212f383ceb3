package bolt

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cadwork/worklog/domain"
	"github.com/cadwork/worklog/internal/infrastructure/recordstore"
	"github.com/cadwork/worklog/repository"
)

type noteRepository struct {
	store  *recordstore.Store
	logger *zap.Logger
}

// NewNoteRepository returns a record-store-backed NoteRepository.
func NewNoteRepository(store *recordstore.Store, logger *zap.Logger) repository.NoteRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noteRepository{store: store, logger: logger}
}

func (r *noteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	rec, err := r.store.FindByID(ctx, recordstore.TableNotes, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNoteNotFound
	}
	var note domain.Note
	if err := decodeInto(rec, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) List(ctx context.Context, userID string, filter repository.NoteFilter) ([]domain.Note, error) {
	filters := []recordstore.Filter{recordstore.Eq("user_id", userID)}
	if filter.TaskID != "" {
		filters = append(filters, recordstore.Eq("task_id", filter.TaskID))
	}
	if filter.LessonID != "" {
		filters = append(filters, recordstore.Eq("lesson_id", filter.LessonID))
	}
	if filter.Category != "" {
		filters = append(filters, recordstore.Eq("category", filter.Category))
	}
	if filter.Pinned != nil {
		filters = append(filters, recordstore.Eq("is_pinned", *filter.Pinned))
	}

	records, err := r.store.FindAll(ctx, recordstore.TableNotes, filters...)
	if err != nil {
		return nil, err
	}

	var notes []domain.Note
	for _, rec := range records {
		var note domain.Note
		if err := decodeInto(rec, &note); err != nil {
			return nil, err
		}
		if filter.Search != "" && !matchesSearch(filter.Search, note.Title, note.Content) {
			continue
		}
		if len(filter.Tags) > 0 && !matchesAnyTag(note.Tags, filter.Tags) {
			continue
		}
		notes = append(notes, note)
	}

	// Pinned notes first, most recently updated next.
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].IsPinned != notes[j].IsPinned {
			return notes[i].IsPinned
		}
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	return notes, nil
}

func (r *noteRepository) Create(ctx context.Context, create repository.NoteCreate) (*domain.Note, error) {
	if create.UserID == "" {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "note user is required", nil)
	}
	if create.Title == "" {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "note title is required", nil)
	}
	category := create.Category
	if category == "" {
		category = "general"
	}

	now := nowUTC()
	note := domain.Note{
		ID:        recordstore.GenerateID(),
		UserID:    create.UserID,
		TaskID:    create.TaskID,
		LessonID:  create.LessonID,
		Title:     create.Title,
		Content:   create.Content,
		Category:  category,
		Tags:      domain.JoinTags(create.Tags),
		IsPinned:  create.IsPinned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rec, err := toRecord(note)
	if err != nil {
		return nil, err
	}
	if err := r.store.Insert(ctx, recordstore.TableNotes, rec); err != nil {
		return nil, err
	}
	if err := r.store.Save(ctx); err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) Update(ctx context.Context, id string, patch repository.NotePatch) (*domain.Note, error) {
	partial := recordstore.Record{}
	if patch.TaskID != nil {
		partial["task_id"] = *patch.TaskID
	}
	if patch.LessonID != nil {
		partial["lesson_id"] = *patch.LessonID
	}
	if patch.Title != nil {
		partial["title"] = *patch.Title
	}
	if patch.Content != nil {
		partial["content"] = *patch.Content
	}
	if patch.Category != nil {
		partial["category"] = *patch.Category
	}
	if patch.Tags != nil {
		partial["tags"] = domain.JoinTags(*patch.Tags)
	}
	if patch.IsPinned != nil {
		partial["is_pinned"] = *patch.IsPinned
	}
	partial["updated_at"] = nowUTC().Format(time.RFC3339)

	if err := r.store.Update(ctx, recordstore.TableNotes, id, partial); err != nil {
		return nil, err
	}
	note, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.store.Save(ctx); err != nil {
		return nil, err
	}
	return note, nil
}

func (r *noteRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, recordstore.TableNotes, id); err != nil {
		return err
	}
	return r.store.Save(ctx)
}

// TogglePin is get-then-update, not atomic. Fine under the single-writer
// model this store assumes.
func (r *noteRepository) TogglePin(ctx context.Context, id string) (*domain.Note, error) {
	note, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pinned := !note.IsPinned
	return r.Update(ctx, id, repository.NotePatch{IsPinned: &pinned})
}

func (r *noteRepository) Categories(ctx context.Context, userID string) ([]string, error) {
	notes, err := r.List(ctx, userID, repository.NoteFilter{})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var categories []string
	for _, n := range notes {
		if _, ok := seen[n.Category]; !ok {
			seen[n.Category] = struct{}{}
			categories = append(categories, n.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *noteRepository) Tags(ctx context.Context, userID string) ([]string, error) {
	notes, err := r.List(ctx, userID, repository.NoteFilter{})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var tags []string
	for _, n := range notes {
		for _, tag := range n.TagList() {
			if _, ok := seen[tag]; !ok {
				seen[tag] = struct{}{}
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags, nil
}

func matchesAnyTag(stored string, wanted []string) bool {
	lower := strings.ToLower(stored)
	for _, tag := range wanted {
		if tag != "" && strings.Contains(lower, strings.ToLower(tag)) {
			return true
		}
	}
	return false
}
