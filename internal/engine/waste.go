package engine

import (
	"context"

	"kaizen/internal/domain"
)

// LogWaste creates one waste entry per valid category id. All entries in one
// batch share a timestamp, and each copies its category's fixed point weight.
// Unknown category ids are skipped with a warning; a batch with zero valid
// categories returns an empty result, not an error.
func (e *Engine) LogWaste(ctx context.Context, spaceID string, categoryIDs []string) ([]domain.WasteEntry, error) {
	if _, err := e.Spaces.GetByID(ctx, spaceID); err != nil {
		return nil, err
	}
	now := e.now().UTC()
	var entries []domain.WasteEntry
	for _, id := range categoryIDs {
		cat, ok := e.Config.Category(id)
		if !ok {
			e.Log.Warn().Str("space_id", spaceID).Str("category", id).
				Msg("skipping unknown waste category")
			continue
		}
		entry, err := e.Waste.Add(ctx, domain.WasteEntry{
			SpaceID:   spaceID,
			Timestamp: now,
			Category:  cat.ID,
			Points:    cat.Points,
		})
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return entries, nil
	}
	return entries, e.touchSpace(ctx, spaceID)
}

func (e *Engine) ListWaste(ctx context.Context, spaceID string) ([]domain.WasteEntry, error) {
	return e.Waste.GetBySpaceID(ctx, spaceID)
}

func (e *Engine) DeleteWasteEntry(ctx context.Context, id string) error {
	return e.Waste.Delete(ctx, id)
}
