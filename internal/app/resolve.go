package app

import (
	"context"
	"errors"
	"fmt"

	"kaizen/internal/domain"
	"kaizen/internal/repo"
)

// ResolveSpace picks the space a command should operate on. An explicit
// override wins, matched by id first and exact name second; otherwise the
// sole existing space is used.
func ResolveSpace(ctx context.Context, override string, spaces *repo.Spaces) (domain.Space, error) {
	if override != "" {
		s, err := spaces.GetByID(ctx, override)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return domain.Space{}, err
		}
		all, err := spaces.List(ctx)
		if err != nil {
			return domain.Space{}, err
		}
		for _, cand := range all {
			if cand.Name == override {
				return cand, nil
			}
		}
		return domain.Space{}, fmt.Errorf("space %q: %w", override, repo.ErrNotFound)
	}
	all, err := spaces.List(ctx)
	if err != nil {
		return domain.Space{}, err
	}
	switch len(all) {
	case 0:
		return domain.Space{}, fmt.Errorf("no spaces exist; create one with 'kz space create'")
	case 1:
		return all[0], nil
	default:
		return domain.Space{}, fmt.Errorf("multiple spaces exist; specify --space")
	}
}
