package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"kaizen/internal/app"
	"kaizen/internal/db"
	"kaizen/internal/domain"
	"kaizen/internal/migrate"
	"kaizen/internal/repo"
)

func newSpaces(t *testing.T) *repo.Spaces {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo.NewSpaces(conn, time.Now)
}

func TestResolveSpaceSingle(t *testing.T) {
	spaces := newSpaces(t)
	ctx := context.Background()
	s, err := spaces.Add(ctx, domain.Space{Name: "Garage"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := app.ResolveSpace(ctx, "", spaces)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != s.ID {
		t.Fatalf("expected sole space, got %s", got.ID)
	}
}

func TestResolveSpaceNoneOrAmbiguous(t *testing.T) {
	spaces := newSpaces(t)
	ctx := context.Background()

	if _, err := app.ResolveSpace(ctx, "", spaces); err == nil {
		t.Fatalf("expected error with zero spaces")
	}

	for _, name := range []string{"Garage", "Kitchen"} {
		if _, err := spaces.Add(ctx, domain.Space{Name: name}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if _, err := app.ResolveSpace(ctx, "", spaces); err == nil {
		t.Fatalf("expected error with two spaces and no override")
	}
}

func TestResolveSpaceOverride(t *testing.T) {
	spaces := newSpaces(t)
	ctx := context.Background()
	garage, err := spaces.Add(ctx, domain.Space{Name: "Garage"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := spaces.Add(ctx, domain.Space{Name: "Kitchen"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	byID, err := app.ResolveSpace(ctx, garage.ID, spaces)
	if err != nil || byID.ID != garage.ID {
		t.Fatalf("resolve by id: %v", err)
	}
	byName, err := app.ResolveSpace(ctx, "Garage", spaces)
	if err != nil || byName.ID != garage.ID {
		t.Fatalf("resolve by name: %v", err)
	}

	_, err = app.ResolveSpace(ctx, "Attic", spaces)
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown override, got %v", err)
	}
}
