package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kaizen/internal/domain"
)

// SpaceCreateOptions are parameters for creating a space.
type SpaceCreateOptions struct {
	Name        string
	Description string
	Goal        string
	BeforeImage string
	AfterImage  string
}

func (e *Engine) CreateSpace(ctx context.Context, opts SpaceCreateOptions) (domain.Space, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return domain.Space{}, invalidf("space name is required")
	}
	now := e.now().UTC()
	s := domain.Space{
		Name:         opts.Name,
		Description:  opts.Description,
		Goal:         opts.Goal,
		BeforeImage:  opts.BeforeImage,
		AfterImage:   opts.AfterImage,
		DateCreated:  now,
		DateModified: now,
	}
	return e.Spaces.Add(ctx, s)
}

// SpaceUpdateOptions encapsulates allowed space edits. Nil fields are left
// untouched.
type SpaceUpdateOptions struct {
	ID          string
	Name        *string
	Description *string
	Goal        *string
	BeforeImage *string
	AfterImage  *string
}

func (e *Engine) UpdateSpace(ctx context.Context, opts SpaceUpdateOptions) (domain.Space, error) {
	s, err := e.Spaces.GetByID(ctx, opts.ID)
	if err != nil {
		return s, err
	}
	if opts.Name != nil {
		if strings.TrimSpace(*opts.Name) == "" {
			return s, invalidf("space name is required")
		}
		s.Name = *opts.Name
	}
	if opts.Description != nil {
		s.Description = *opts.Description
	}
	if opts.Goal != nil {
		s.Goal = *opts.Goal
	}
	if opts.BeforeImage != nil {
		s.BeforeImage = *opts.BeforeImage
	}
	if opts.AfterImage != nil {
		s.AfterImage = *opts.AfterImage
	}
	return e.Spaces.Update(ctx, s)
}

func (e *Engine) GetSpace(ctx context.Context, id string) (domain.Space, error) {
	return e.Spaces.GetByID(ctx, id)
}

func (e *Engine) ListSpaces(ctx context.Context) ([]domain.Space, error) {
	return e.Spaces.List(ctx)
}

// ClockIn starts a clock session and appends exactly one clockIn log entry.
func (e *Engine) ClockIn(ctx context.Context, spaceID string) (domain.Space, error) {
	s, err := e.Spaces.GetByID(ctx, spaceID)
	if err != nil {
		return s, err
	}
	if s.IsClockedIn {
		return s, invalidf("space is already clocked in")
	}
	now := e.now().UTC()
	s.IsClockedIn = true
	s.ClockInStartTime = &now
	s, err = e.Spaces.Update(ctx, s)
	if err != nil {
		return s, err
	}
	_, err = e.Logs.Add(ctx, domain.LogEntry{
		SpaceID:     s.ID,
		Timestamp:   now,
		ActionName:  "Clocked in",
		Type:        domain.LogTypeClockIn,
		ClockInTime: &now,
	})
	return s, err
}

// ClockOut ends the session, accumulates whole elapsed minutes onto the
// space, clears clock state and appends the clockOut log entry.
func (e *Engine) ClockOut(ctx context.Context, spaceID string) (domain.Space, error) {
	s, err := e.Spaces.GetByID(ctx, spaceID)
	if err != nil {
		return s, err
	}
	if !s.IsClockedIn || s.ClockInStartTime == nil {
		return s, invalidf("space is not clocked in")
	}
	now := e.now().UTC()
	start := *s.ClockInStartTime
	minutes := int(now.Sub(start).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	s.TotalClockedInTime += minutes
	s.IsClockedIn = false
	s.ClockInStartTime = nil
	s, err = e.Spaces.Update(ctx, s)
	if err != nil {
		return s, err
	}
	_, err = e.Logs.Add(ctx, domain.LogEntry{
		SpaceID:          s.ID,
		Timestamp:        now,
		ActionName:       "Clocked out",
		Type:             domain.LogTypeClockOut,
		ClockInTime:      &start,
		ClockOutTime:     &now,
		MinutesClockedIn: &minutes,
	})
	return s, err
}

// AddClockedTime is a direct additive adjustment. Negative deltas would break
// the monotonic accumulation, so they are logged and ignored rather than
// surfaced as an error.
func (e *Engine) AddClockedTime(ctx context.Context, spaceID string, minutes int) (domain.Space, error) {
	s, err := e.Spaces.GetByID(ctx, spaceID)
	if err != nil {
		return s, err
	}
	if minutes < 0 {
		e.Log.Warn().Str("space_id", spaceID).Int("minutes", minutes).
			Msg("ignoring negative clocked-time adjustment")
		return s, nil
	}
	s.TotalClockedInTime += minutes
	return e.Spaces.Update(ctx, s)
}

// DeleteSpace cascades over every child collection, then removes the space
// row itself. The steps are independent store operations with no transaction:
// on partial failure the space row is kept so a repeat delete can finish the
// job.
func (e *Engine) DeleteSpace(ctx context.Context, spaceID string) error {
	if _, err := e.Spaces.GetByID(ctx, spaceID); err != nil {
		return err
	}
	err := errors.Join(
		e.Actions.DeleteBySpaceID(ctx, spaceID),
		e.Quests.DeleteBySpaceID(ctx, spaceID),
		e.Logs.DeleteBySpaceID(ctx, spaceID),
		e.Waste.DeleteBySpaceID(ctx, spaceID),
		e.Comments.DeleteBySpaceID(ctx, spaceID),
		e.Todos.DeleteBySpaceID(ctx, spaceID),
	)
	if err != nil {
		e.Log.Error().Err(err).Str("space_id", spaceID).Msg("cascade delete incomplete")
		return fmt.Errorf("cascade delete incomplete, retry to finish: %w", err)
	}
	return e.Spaces.Delete(ctx, spaceID)
}

// DuplicateSpace clones the space with its actions and quests. Quests restart
// from scratch: fresh step ids, nothing completed. Log entries, waste
// entries, comments and todos are deliberately not copied.
func (e *Engine) DuplicateSpace(ctx context.Context, spaceID string) (domain.Space, error) {
	src, err := e.Spaces.GetByID(ctx, spaceID)
	if err != nil {
		return domain.Space{}, err
	}
	copySpace, err := e.CreateSpace(ctx, SpaceCreateOptions{
		Name:        src.Name + " (Copy)",
		Description: src.Description,
		Goal:        src.Goal,
		BeforeImage: src.BeforeImage,
		AfterImage:  src.AfterImage,
	})
	if err != nil {
		return domain.Space{}, err
	}
	actions, err := e.Actions.GetBySpaceID(ctx, spaceID)
	if err != nil {
		return copySpace, err
	}
	for _, a := range actions {
		clone := domain.Action{
			SpaceID:     copySpace.ID,
			Name:        a.Name,
			Description: a.Description,
			Points:      a.Points,
			DateCreated: e.now().UTC(),
		}
		if _, err := e.Actions.Add(ctx, clone); err != nil {
			return copySpace, fmt.Errorf("clone action %s: %w", a.ID, err)
		}
	}
	quests, err := e.Quests.GetBySpaceID(ctx, spaceID)
	if err != nil {
		return copySpace, err
	}
	for _, q := range quests {
		clone := domain.Quest{
			SpaceID:       copySpace.ID,
			Name:          q.Name,
			Description:   q.Description,
			PointsPerStep: q.PointsPerStep,
			Steps:         freshSteps(q.Steps),
			DateCreated:   e.now().UTC(),
		}
		if _, err := e.Quests.Add(ctx, clone); err != nil {
			return copySpace, fmt.Errorf("clone quest %s: %w", q.ID, err)
		}
	}
	return copySpace, nil
}

// touchSpace refreshes the owning space's dateModified after a child-entity
// mutation.
func (e *Engine) touchSpace(ctx context.Context, spaceID string) error {
	s, err := e.Spaces.GetByID(ctx, spaceID)
	if err != nil {
		return err
	}
	_, err = e.Spaces.Update(ctx, s)
	return err
}
