package domain

import "time"

// User represents the single local profile owning all data in the store.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSettings holds per-user preferences, one row per user.
type UserSettings struct {
	ID                   string `json:"id"`
	UserID               string `json:"user_id"`
	Theme                string `json:"theme"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	DailyGoalHours       int    `json:"daily_goal_hours"`
	WeekStartDay         string `json:"week_start_day"`
}

// DefaultSettings returns the settings provisioned for a fresh user.
func DefaultSettings(userID string) UserSettings {
	return UserSettings{
		UserID:               userID,
		Theme:                "light",
		NotificationsEnabled: true,
		DailyGoalHours:       8,
		WeekStartDay:         "monday",
	}
}
