package engine

import (
	"context"
	"strings"

	"kaizen/internal/domain"
)

// CommentCreateOptions are parameters for creating a comment.
type CommentCreateOptions struct {
	SpaceID string
	Text    string
	Image   string
}

// CreateComment requires at least one of text or image.
func (e *Engine) CreateComment(ctx context.Context, opts CommentCreateOptions) (domain.Comment, error) {
	if strings.TrimSpace(opts.Text) == "" && opts.Image == "" {
		return domain.Comment{}, invalidf("comment needs text or an image")
	}
	if _, err := e.Spaces.GetByID(ctx, opts.SpaceID); err != nil {
		return domain.Comment{}, err
	}
	c, err := e.Comments.Add(ctx, domain.Comment{
		SpaceID:   opts.SpaceID,
		Text:      opts.Text,
		Image:     opts.Image,
		Timestamp: e.now().UTC(),
	})
	if err != nil {
		return c, err
	}
	return c, e.touchSpace(ctx, c.SpaceID)
}

func (e *Engine) ListComments(ctx context.Context, spaceID string) ([]domain.Comment, error) {
	return e.Comments.GetBySpaceID(ctx, spaceID)
}

func (e *Engine) DeleteComment(ctx context.Context, id string) error {
	return e.Comments.Delete(ctx, id)
}
