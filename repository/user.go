package repository

import (
	"context"

	"github.com/cadwork/worklog/domain"
)

// UserCreate carries the caller-supplied fields of a new user.
type UserCreate struct {
	Name      string
	Email     string
	Role      string
	AvatarURL string
}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	Name      *string
	Email     *string
	Role      *string
	AvatarURL *string
}

// SettingsPatch is a partial settings update; nil fields are left untouched.
type SettingsPatch struct {
	Theme                *string
	NotificationsEnabled *bool
	DailyGoalHours       *int
	WeekStartDay         *string
}

type UserRepository interface {
	// CurrentUser returns the single local user, resolving and caching it
	// on first call. Returns ErrUserNotFound when the store holds no user.
	CurrentUser(ctx context.Context) (*domain.User, error)
	// Watch subscribes to current-user changes. The callback fires on
	// every Update that touches the cached user. The returned func
	// cancels the subscription.
	Watch(fn func(*domain.User)) (cancel func())

	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, create UserCreate) (*domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)

	Settings(ctx context.Context, userID string) (*domain.UserSettings, error)
	// UpdateSettings patches the user's settings row, creating it with
	// defaults first when absent.
	UpdateSettings(ctx context.Context, userID string, patch SettingsPatch) (*domain.UserSettings, error)
}
