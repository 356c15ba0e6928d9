package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"kaizen/internal/domain"
)

// QuestCreateOptions are parameters for creating a multi-step action.
type QuestCreateOptions struct {
	SpaceID       string
	Name          string
	Description   string
	PointsPerStep int
	StepNames     []string
}

func (e *Engine) CreateQuest(ctx context.Context, opts QuestCreateOptions) (domain.Quest, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return domain.Quest{}, invalidf("quest name is required")
	}
	if len(opts.StepNames) == 0 {
		return domain.Quest{}, invalidf("quest needs at least one step")
	}
	for i, name := range opts.StepNames {
		if strings.TrimSpace(name) == "" {
			return domain.Quest{}, invalidf("step %d has an empty name", i+1)
		}
	}
	if _, err := e.Spaces.GetByID(ctx, opts.SpaceID); err != nil {
		return domain.Quest{}, err
	}
	steps := make([]domain.Step, 0, len(opts.StepNames))
	for _, name := range opts.StepNames {
		steps = append(steps, domain.Step{ID: uuid.New().String(), Name: name})
	}
	q := domain.Quest{
		SpaceID:       opts.SpaceID,
		Name:          opts.Name,
		Description:   opts.Description,
		PointsPerStep: coercePoints(opts.PointsPerStep),
		Steps:         steps,
		DateCreated:   e.now().UTC(),
	}
	q, err := e.Quests.Add(ctx, q)
	if err != nil {
		return q, err
	}
	return q, e.touchSpace(ctx, q.SpaceID)
}

// QuestUpdateOptions encapsulates allowed quest edits. Step progression goes
// through CompleteQuestStep only.
type QuestUpdateOptions struct {
	ID            string
	Name          *string
	Description   *string
	PointsPerStep *int
}

func (e *Engine) UpdateQuest(ctx context.Context, opts QuestUpdateOptions) (domain.Quest, error) {
	q, err := e.Quests.GetByID(ctx, opts.ID)
	if err != nil {
		return q, err
	}
	if opts.Name != nil {
		if strings.TrimSpace(*opts.Name) == "" {
			return q, invalidf("quest name is required")
		}
		q.Name = *opts.Name
	}
	if opts.Description != nil {
		q.Description = *opts.Description
	}
	if opts.PointsPerStep != nil {
		q.PointsPerStep = coercePoints(*opts.PointsPerStep)
	}
	if err := e.Quests.Update(ctx, q); err != nil {
		return q, err
	}
	return q, e.touchSpace(ctx, q.SpaceID)
}

func (e *Engine) DeleteQuest(ctx context.Context, id string) error {
	return e.Quests.Delete(ctx, id)
}

func (e *Engine) ListQuests(ctx context.Context, spaceID string) ([]domain.Quest, error) {
	return e.Quests.GetBySpaceID(ctx, spaceID)
}

// CompleteQuestStep marks the current step completed, advances the cursor by
// one and credits pointsPerStep through a log entry. The terminal state is
// absorbing: calling this on a completed quest returns it unchanged with no
// mutation and no points awarded.
func (e *Engine) CompleteQuestStep(ctx context.Context, questID string) (domain.Quest, error) {
	q, err := e.Quests.GetByID(ctx, questID)
	if err != nil {
		return q, err
	}
	if q.Complete() {
		return q, nil
	}
	idx := q.CurrentStepIndex
	q.Steps[idx].Completed = true
	q.CurrentStepIndex++
	if err := e.Quests.Update(ctx, q); err != nil {
		return q, err
	}
	if _, err := e.Logs.Add(ctx, domain.LogEntry{
		SpaceID:    q.SpaceID,
		Timestamp:  e.now().UTC(),
		ActionName: fmt.Sprintf("%s: %s", q.Name, q.Steps[idx].Name),
		Points:     q.PointsPerStep,
		Type:       domain.LogTypeQuestStep,
		QuestID:    q.ID,
		StepIndex:  &idx,
	}); err != nil {
		return q, err
	}
	return q, e.touchSpace(ctx, q.SpaceID)
}

func freshSteps(steps []domain.Step) []domain.Step {
	res := make([]domain.Step, 0, len(steps))
	for _, s := range steps {
		res = append(res, domain.Step{ID: uuid.New().String(), Name: s.Name})
	}
	return res
}
