package bolt

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cadwork/worklog/domain"
	"github.com/cadwork/worklog/internal/infrastructure/recordstore"
	"github.com/cadwork/worklog/repository"
)

type userRepository struct {
	store *recordstore.Store
	// configuredID pins the current user explicitly. When empty the first
	// row in the users table is taken, which assumes exactly one user
	// exists (the seeded profile).
	configuredID string
	logger       *zap.Logger

	mu      sync.Mutex
	current *domain.User
	subs    map[int]func(*domain.User)
	nextSub int
}

// NewUserRepository returns a record-store-backed UserRepository. The
// current-user cache is primed lazily on the first CurrentUser call and
// invalidated only by Update calls matching the cached id.
func NewUserRepository(store *recordstore.Store, configuredID string, logger *zap.Logger) repository.UserRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userRepository{
		store:        store,
		configuredID: configuredID,
		logger:       logger,
		subs:         make(map[int]func(*domain.User)),
	}
}

func (r *userRepository) CurrentUser(ctx context.Context) (*domain.User, error) {
	r.mu.Lock()
	if r.current != nil {
		u := *r.current
		r.mu.Unlock()
		return &u, nil
	}
	r.mu.Unlock()

	var user *domain.User
	if r.configuredID != "" {
		u, err := r.GetByID(ctx, r.configuredID)
		if err != nil {
			return nil, err
		}
		user = u
	} else {
		users, err := r.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		if len(users) == 0 {
			return nil, domain.ErrUserNotFound
		}
		user = &users[0]
	}

	r.setCurrent(user)
	u := *user
	return &u, nil
}

func (r *userRepository) Watch(fn func(*domain.User)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// setCurrent swaps the cache and notifies watchers outside the lock.
func (r *userRepository) setCurrent(user *domain.User) {
	r.mu.Lock()
	r.current = user
	watchers := make([]func(*domain.User), 0, len(r.subs))
	for _, fn := range r.subs {
		watchers = append(watchers, fn)
	}
	r.mu.Unlock()

	for _, fn := range watchers {
		u := *user
		fn(&u)
	}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	rec, err := r.store.FindByID(ctx, recordstore.TableUsers, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrUserNotFound
	}
	var user domain.User
	if err := decodeInto(rec, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	records, err := r.store.GetAll(ctx, recordstore.TableUsers)
	if err != nil {
		return nil, err
	}
	var users []domain.User
	for _, rec := range records {
		var u domain.User
		if err := decodeInto(rec, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, create repository.UserCreate) (*domain.User, error) {
	if create.Name == "" || create.Email == "" {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "user name and email are required", nil)
	}
	now := nowUTC()
	user := domain.User{
		ID:        recordstore.GenerateID(),
		Name:      create.Name,
		Email:     create.Email,
		Role:      create.Role,
		AvatarURL: create.AvatarURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rec, err := toRecord(user)
	if err != nil {
		return nil, err
	}
	if err := r.store.Insert(ctx, recordstore.TableUsers, rec); err != nil {
		return nil, err
	}
	if err := r.store.Save(ctx); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id string, patch repository.UserPatch) (*domain.User, error) {
	partial := recordstore.Record{}
	if patch.Name != nil {
		partial["name"] = *patch.Name
	}
	if patch.Email != nil {
		partial["email"] = *patch.Email
	}
	if patch.Role != nil {
		partial["role"] = *patch.Role
	}
	if patch.AvatarURL != nil {
		partial["avatar_url"] = *patch.AvatarURL
	}
	partial["updated_at"] = nowUTC().Format(time.RFC3339)

	if err := r.store.Update(ctx, recordstore.TableUsers, id, partial); err != nil {
		return nil, err
	}
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.store.Save(ctx); err != nil {
		return nil, err
	}

	// Refresh the cache only when the mutated row is the cached user.
	r.mu.Lock()
	cachedMatch := r.current != nil && r.current.ID == id
	r.mu.Unlock()
	if cachedMatch {
		r.setCurrent(user)
	}

	u := *user
	return &u, nil
}

func (r *userRepository) Settings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	records, err := r.store.GetAllByIndex(ctx, recordstore.TableSettings, "user_id", userID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrSettingsNotFound
	}
	var settings domain.UserSettings
	if err := decodeInto(records[0], &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *userRepository) UpdateSettings(ctx context.Context, userID string, patch repository.SettingsPatch) (*domain.UserSettings, error) {
	existing, err := r.Settings(ctx, userID)
	if err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}

	settingsID := ""
	if existing != nil {
		settingsID = existing.ID
	} else {
		// First write for this user: provision a defaults row, then patch.
		defaults := domain.DefaultSettings(userID)
		defaults.ID = recordstore.GenerateID()
		settingsID = defaults.ID
		rec, err := toRecord(defaults)
		if err != nil {
			return nil, err
		}
		if err := r.store.Insert(ctx, recordstore.TableSettings, rec); err != nil {
			return nil, err
		}
	}

	partial := recordstore.Record{}
	if patch.Theme != nil {
		partial["theme"] = *patch.Theme
	}
	if patch.NotificationsEnabled != nil {
		partial["notifications_enabled"] = *patch.NotificationsEnabled
	}
	if patch.DailyGoalHours != nil {
		partial["daily_goal_hours"] = *patch.DailyGoalHours
	}
	if patch.WeekStartDay != nil {
		partial["week_start_day"] = *patch.WeekStartDay
	}
	if len(partial) > 0 {
		if err := r.store.Update(ctx, recordstore.TableSettings, settingsID, partial); err != nil {
			return nil, err
		}
	}
	if err := r.store.Save(ctx); err != nil {
		return nil, err
	}

	rec, err := r.store.FindByID(ctx, recordstore.TableSettings, settingsID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrSettingsNotFound
	}
	var settings domain.UserSettings
	if err := decodeInto(rec, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
