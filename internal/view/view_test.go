package view_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaizen/internal/config"
	"kaizen/internal/db"
	"kaizen/internal/engine"
	"kaizen/internal/logging"
	"kaizen/internal/migrate"
	"kaizen/internal/view"
)

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func newLoader(t *testing.T) (*engine.Engine, view.Loader) {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, migrate.Migrate(conn))
	e := engine.New(conn, config.Default(), logging.NewWithWriter("error", nopWriter{}))
	loader := view.Loader{
		Spaces:   e.Spaces,
		Actions:  e.Actions,
		Quests:   e.Quests,
		Logs:     e.Logs,
		Waste:    e.Waste,
		Comments: e.Comments,
		Todos:    e.Todos,
	}
	return e, loader
}

func TestLoadSnapshot(t *testing.T) {
	e, loader := newLoader(t)
	ctx := context.Background()

	s, err := e.CreateSpace(ctx, engine.SpaceCreateOptions{Name: "Garage"})
	require.NoError(t, err)
	a, err := e.CreateAction(ctx, engine.ActionCreateOptions{SpaceID: s.ID, Name: "Sweep", Points: 5})
	require.NoError(t, err)
	_, err = e.LogAction(ctx, a.ID)
	require.NoError(t, err)
	_, err = e.LogWaste(ctx, s.ID, []string{"waiting"})
	require.NoError(t, err)

	v, err := loader.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, v.Space.ID)
	assert.Len(t, v.Actions, 1)
	assert.Len(t, v.Logs, 1)
	assert.Len(t, v.Waste, 1)
	assert.Empty(t, v.Quests)
	assert.Empty(t, v.Todos)

	sum := v.Summary(time.Now())
	assert.Equal(t, 5, sum.TotalPoints)
	assert.Equal(t, 4, sum.TotalWastePoints)
}

func TestRefreshPicksUpChanges(t *testing.T) {
	e, loader := newLoader(t)
	ctx := context.Background()

	s, err := e.CreateSpace(ctx, engine.SpaceCreateOptions{Name: "Garage"})
	require.NoError(t, err)
	v, err := loader.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, v.Actions)

	_, err = e.CreateAction(ctx, engine.ActionCreateOptions{SpaceID: s.ID, Name: "Sweep"})
	require.NoError(t, err)
	require.NoError(t, loader.Refresh(ctx, v))
	assert.Len(t, v.Actions, 1)
}

func TestLoadMissingSpace(t *testing.T) {
	_, loader := newLoader(t)
	_, err := loader.Load(context.Background(), "ghost")
	assert.Error(t, err)
}
