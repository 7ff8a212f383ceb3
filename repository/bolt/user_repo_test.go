package bolt

import (
	"context"
	"testing"

	"github.com/cadwork/worklog/domain"
	"github.com/cadwork/worklog/repository"
)

func TestCurrentUserEmptyStore(t *testing.T) {
	store := newTestStore(t)
	repo := NewUserRepository(store, "", nil)

	if _, err := repo.CurrentUser(context.Background()); err != domain.ErrUserNotFound {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestCurrentUserFirstRow(t *testing.T) {
	store := newTestStore(t)
	repo := NewUserRepository(store, "", nil)
	ctx := context.Background()

	created, err := repo.Create(ctx, repository.UserCreate{Name: "Intern", Email: "i@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	user, err := repo.CurrentUser(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != created.ID {
		t.Fatalf("current = %s, want %s", user.ID, created.ID)
	}

	// Cached: mutating the returned copy must not poison later reads.
	user.Name = "mutated"
	again, err := repo.CurrentUser(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if again.Name != "Intern" {
		t.Fatalf("cache aliased caller copy: %q", again.Name)
	}
}

func TestCurrentUserConfiguredID(t *testing.T) {
	store := newTestStore(t)
	setupRepo := NewUserRepository(store, "", nil)
	ctx := context.Background()

	if _, err := setupRepo.Create(ctx, repository.UserCreate{Name: "First", Email: "a@example.com"}); err != nil {
		t.Fatal(err)
	}
	second, err := setupRepo.Create(ctx, repository.UserCreate{Name: "Second", Email: "b@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	repo := NewUserRepository(store, second.ID, nil)
	user, err := repo.CurrentUser(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != second.ID {
		t.Fatalf("configured id ignored: got %s", user.ID)
	}
}

func TestWatchNotifiesOnUpdate(t *testing.T) {
	store := newTestStore(t)
	repo := NewUserRepository(store, "", nil)
	ctx := context.Background()

	created, err := repo.Create(ctx, repository.UserCreate{Name: "Intern", Email: "i@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CurrentUser(ctx); err != nil {
		t.Fatal(err)
	}

	var got []string
	cancel := repo.Watch(func(u *domain.User) {
		got = append(got, u.Name)
	})

	if _, err := repo.Update(ctx, created.ID, repository.UserPatch{Name: ptr("Renamed")}); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "Renamed" {
		t.Fatalf("watcher calls = %v, want [Renamed]", got)
	}

	cancel()
	if _, err := repo.Update(ctx, created.ID, repository.UserPatch{Name: ptr("Again")}); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("watcher fired after cancel: %v", got)
	}
}

func TestSettingsUpsert(t *testing.T) {
	store := newTestStore(t)
	repo := NewUserRepository(store, "", nil)
	ctx := context.Background()

	if _, err := repo.Settings(ctx, "user-1"); err != domain.ErrSettingsNotFound {
		t.Fatalf("err = %v, want ErrSettingsNotFound", err)
	}

	// First write provisions defaults and applies the patch on top.
	settings, err := repo.UpdateSettings(ctx, "user-1", repository.SettingsPatch{Theme: ptr("dark")})
	if err != nil {
		t.Fatal(err)
	}
	if settings.Theme != "dark" {
		t.Fatalf("theme = %q, want dark", settings.Theme)
	}
	if settings.DailyGoalHours != 8 || settings.WeekStartDay != "monday" {
		t.Fatalf("defaults not applied: %+v", settings)
	}

	// Second write patches the same row.
	settings, err = repo.UpdateSettings(ctx, "user-1", repository.SettingsPatch{DailyGoalHours: ptr(6)})
	if err != nil {
		t.Fatal(err)
	}
	if settings.Theme != "dark" || settings.DailyGoalHours != 6 {
		t.Fatalf("patch lost earlier state: %+v", settings)
	}

	got, err := repo.Settings(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != settings.ID {
		t.Fatalf("settings row duplicated: %s vs %s", got.ID, settings.ID)
	}
}
