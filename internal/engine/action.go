package engine

import (
	"context"
	"strings"

	"kaizen/internal/domain"
)

// ActionCreateOptions are parameters for creating an action.
type ActionCreateOptions struct {
	SpaceID     string
	Name        string
	Description string
	Points      int
}

// CreateAction validates and persists a point-earning action. Non-positive
// point values are coerced to 1, not rejected.
func (e *Engine) CreateAction(ctx context.Context, opts ActionCreateOptions) (domain.Action, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return domain.Action{}, invalidf("action name is required")
	}
	if _, err := e.Spaces.GetByID(ctx, opts.SpaceID); err != nil {
		return domain.Action{}, err
	}
	a := domain.Action{
		SpaceID:     opts.SpaceID,
		Name:        opts.Name,
		Description: opts.Description,
		Points:      coercePoints(opts.Points),
		DateCreated: e.now().UTC(),
	}
	a, err := e.Actions.Add(ctx, a)
	if err != nil {
		return a, err
	}
	return a, e.touchSpace(ctx, a.SpaceID)
}

// ActionUpdateOptions encapsulates allowed action edits.
type ActionUpdateOptions struct {
	ID          string
	Name        *string
	Description *string
	Points      *int
}

func (e *Engine) UpdateAction(ctx context.Context, opts ActionUpdateOptions) (domain.Action, error) {
	a, err := e.Actions.GetByID(ctx, opts.ID)
	if err != nil {
		return a, err
	}
	if opts.Name != nil {
		if strings.TrimSpace(*opts.Name) == "" {
			return a, invalidf("action name is required")
		}
		a.Name = *opts.Name
	}
	if opts.Description != nil {
		a.Description = *opts.Description
	}
	if opts.Points != nil {
		a.Points = coercePoints(*opts.Points)
	}
	if err := e.Actions.Update(ctx, a); err != nil {
		return a, err
	}
	return a, e.touchSpace(ctx, a.SpaceID)
}

func (e *Engine) DeleteAction(ctx context.Context, id string) error {
	return e.Actions.Delete(ctx, id)
}

func (e *Engine) ListActions(ctx context.Context, spaceID string) ([]domain.Action, error) {
	return e.Actions.GetBySpaceID(ctx, spaceID)
}

// LogAction appends a log entry crediting the action's points.
func (e *Engine) LogAction(ctx context.Context, actionID string) (domain.LogEntry, error) {
	a, err := e.Actions.GetByID(ctx, actionID)
	if err != nil {
		return domain.LogEntry{}, err
	}
	entry, err := e.Logs.Add(ctx, domain.LogEntry{
		SpaceID:    a.SpaceID,
		Timestamp:  e.now().UTC(),
		ActionName: a.Name,
		Points:     a.Points,
		Type:       domain.LogTypeAction,
	})
	if err != nil {
		return entry, err
	}
	return entry, e.touchSpace(ctx, a.SpaceID)
}

func coercePoints(points int) int {
	if points < 1 {
		return 1
	}
	return points
}
