package engine

import (
	"context"

	"kaizen/internal/domain"
)

// ListLogs returns the space's log entries newest first. A limit of 0 means
// all entries.
func (e *Engine) ListLogs(ctx context.Context, spaceID string, limit int) ([]domain.LogEntry, error) {
	entries, err := e.Logs.GetBySpaceID(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// DeleteLogEntry removes one entry by id. Entries are otherwise immutable.
func (e *Engine) DeleteLogEntry(ctx context.Context, id string) error {
	return e.Logs.Delete(ctx, id)
}
