package repo_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"kaizen/internal/db"
	"kaizen/internal/domain"
	"kaizen/internal/migrate"
	"kaizen/internal/repo"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestAddGeneratesID(t *testing.T) {
	conn := newTestDB(t)
	actions := repo.NewActions(conn)
	ctx := context.Background()

	a, err := actions.Add(ctx, domain.Action{SpaceID: "s1", Name: "Sweep", Points: 2, DateCreated: time.Now().UTC()})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if a.ID == "" {
		t.Fatalf("expected generated id")
	}

	got, err := actions.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Sweep" || got.Points != 2 {
		t.Fatalf("unexpected roundtrip %+v", got)
	}
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	conn := newTestDB(t)
	actions := repo.NewActions(conn)

	err := actions.Update(context.Background(), domain.Action{ID: "ghost", SpaceID: "s1", Name: "x"})
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSpacesUpdateStampsDateModified(t *testing.T) {
	conn := newTestDB(t)
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := epoch
	spaces := repo.NewSpaces(conn, func() time.Time { return now })
	ctx := context.Background()

	s, err := spaces.Add(ctx, domain.Space{Name: "Garage", DateCreated: epoch, DateModified: epoch})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	now = epoch.Add(time.Hour)
	// the caller-supplied DateModified is overwritten, never trusted
	s.DateModified = epoch.Add(-time.Hour)
	s, err = spaces.Update(ctx, s)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !s.DateModified.Equal(now) {
		t.Fatalf("expected stamped DateModified %v, got %v", now, s.DateModified)
	}

	got, err := spaces.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.DateModified.Equal(now) {
		t.Fatalf("stored DateModified %v, want %v", got.DateModified, now)
	}
}

func TestSpacesListOrdersByDateModified(t *testing.T) {
	conn := newTestDB(t)
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := epoch
	spaces := repo.NewSpaces(conn, func() time.Time { return now })
	ctx := context.Background()

	first, err := spaces.Add(ctx, domain.Space{Name: "First", DateCreated: epoch, DateModified: epoch})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := spaces.Add(ctx, domain.Space{Name: "Second", DateCreated: epoch.Add(time.Minute), DateModified: epoch.Add(time.Minute)})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	all, err := spaces.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID {
		t.Fatalf("expected most recently modified first")
	}

	// touching the older space moves it to the front
	now = epoch.Add(time.Hour)
	if _, err := spaces.Update(ctx, first); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, err = spaces.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all[0].ID != first.ID {
		t.Fatalf("expected touched space first, got %s", all[0].Name)
	}
}

func TestJournalOrdering(t *testing.T) {
	conn := newTestDB(t)
	logs := repo.NewLogs(conn)
	todos := repo.NewTodos(conn)
	ctx := context.Background()
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		ts := epoch.Add(time.Duration(i) * time.Minute)
		if _, err := logs.Add(ctx, domain.LogEntry{SpaceID: "s1", Timestamp: ts, ActionName: "a", Type: domain.LogTypeAction}); err != nil {
			t.Fatalf("add log: %v", err)
		}
		if _, err := todos.Add(ctx, domain.TodoItem{SpaceID: "s1", Description: "t", DateCreated: ts}); err != nil {
			t.Fatalf("add todo: %v", err)
		}
	}

	entries, err := logs.GetBySpaceID(ctx, "s1")
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if !entries[0].Timestamp.After(entries[2].Timestamp) {
		t.Fatalf("logs must come back newest first")
	}

	items, err := todos.GetBySpaceID(ctx, "s1")
	if err != nil {
		t.Fatalf("list todos: %v", err)
	}
	if !items[0].DateCreated.Before(items[2].DateCreated) {
		t.Fatalf("todos must come back oldest first")
	}
}
