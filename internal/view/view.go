// Package view holds the request-scoped snapshot of one space and its child
// collections. A SpaceView is loaded explicitly, passed to whatever needs it
// and dropped when the caller is done; there is no ambient current-space
// state.
package view

import (
	"context"
	"time"

	"kaizen/internal/domain"
	"kaizen/internal/metrics"
	"kaizen/internal/repo"
)

// SpaceView mirrors the persisted state of one space at load time.
type SpaceView struct {
	Space    domain.Space        `json:"space"`
	Actions  []domain.Action     `json:"actions"`
	Quests   []domain.Quest      `json:"quests"`
	Logs     []domain.LogEntry   `json:"logs"`
	Waste    []domain.WasteEntry `json:"waste"`
	Comments []domain.Comment    `json:"comments"`
	Todos    []domain.TodoItem   `json:"todos"`
}

// Summary computes the derived metrics over the snapshot.
func (v *SpaceView) Summary(now time.Time) metrics.Summary {
	return metrics.Compute(v.Space, v.Logs, v.Waste, now)
}

// Loader fetches space snapshots from the repositories.
type Loader struct {
	Spaces   *repo.Spaces
	Actions  *repo.Actions
	Quests   *repo.Quests
	Logs     *repo.Logs
	Waste    *repo.Waste
	Comments *repo.Comments
	Todos    *repo.Todos
}

// Load reads the space and all of its child collections.
func (l Loader) Load(ctx context.Context, spaceID string) (*SpaceView, error) {
	v := &SpaceView{}
	var err error
	if v.Space, err = l.Spaces.GetByID(ctx, spaceID); err != nil {
		return nil, err
	}
	if v.Actions, err = l.Actions.GetBySpaceID(ctx, spaceID); err != nil {
		return nil, err
	}
	if v.Quests, err = l.Quests.GetBySpaceID(ctx, spaceID); err != nil {
		return nil, err
	}
	if v.Logs, err = l.Logs.GetBySpaceID(ctx, spaceID); err != nil {
		return nil, err
	}
	if v.Waste, err = l.Waste.GetBySpaceID(ctx, spaceID); err != nil {
		return nil, err
	}
	if v.Comments, err = l.Comments.GetBySpaceID(ctx, spaceID); err != nil {
		return nil, err
	}
	if v.Todos, err = l.Todos.GetBySpaceID(ctx, spaceID); err != nil {
		return nil, err
	}
	return v, nil
}

// Refresh reloads the snapshot in place.
func (l Loader) Refresh(ctx context.Context, v *SpaceView) error {
	fresh, err := l.Load(ctx, v.Space.ID)
	if err != nil {
		return err
	}
	*v = *fresh
	return nil
}
