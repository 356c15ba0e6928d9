package engine

import (
	"context"
	"strings"

	"kaizen/internal/domain"
)

// TodoCreateOptions are parameters for creating a todo item. The before-image
// may be supplied later, but completion requires one to exist.
type TodoCreateOptions struct {
	SpaceID     string
	Description string
	BeforeImage string
}

func (e *Engine) CreateTodo(ctx context.Context, opts TodoCreateOptions) (domain.TodoItem, error) {
	if strings.TrimSpace(opts.Description) == "" {
		return domain.TodoItem{}, invalidf("todo description is required")
	}
	if _, err := e.Spaces.GetByID(ctx, opts.SpaceID); err != nil {
		return domain.TodoItem{}, err
	}
	t, err := e.Todos.Add(ctx, domain.TodoItem{
		SpaceID:     opts.SpaceID,
		Description: opts.Description,
		BeforeImage: opts.BeforeImage,
		DateCreated: e.now().UTC(),
	})
	if err != nil {
		return t, err
	}
	return t, e.touchSpace(ctx, t.SpaceID)
}

// SetTodoBeforeImage attaches or replaces the before-image on an open item.
func (e *Engine) SetTodoBeforeImage(ctx context.Context, id, image string) (domain.TodoItem, error) {
	t, err := e.Todos.GetByID(ctx, id)
	if err != nil {
		return t, err
	}
	if t.Completed {
		return t, invalidf("todo is already completed")
	}
	if image == "" {
		return t, invalidf("before image is required")
	}
	t.BeforeImage = image
	if err := e.Todos.Update(ctx, t); err != nil {
		return t, err
	}
	return t, e.touchSpace(ctx, t.SpaceID)
}

// CompleteTodo flips the completion flag, supplying the after-image. A stored
// before-image is required to initiate completion; completing an already
// completed item is a no-op.
func (e *Engine) CompleteTodo(ctx context.Context, id, afterImage string) (domain.TodoItem, error) {
	t, err := e.Todos.GetByID(ctx, id)
	if err != nil {
		return t, err
	}
	if t.Completed {
		return t, nil
	}
	if t.BeforeImage == "" {
		return t, invalidf("todo needs a before image before it can be completed")
	}
	if afterImage == "" {
		return t, invalidf("after image is required to complete a todo")
	}
	t.AfterImage = afterImage
	t.Completed = true
	if err := e.Todos.Update(ctx, t); err != nil {
		return t, err
	}
	return t, e.touchSpace(ctx, t.SpaceID)
}

func (e *Engine) ListTodos(ctx context.Context, spaceID string) ([]domain.TodoItem, error) {
	return e.Todos.GetBySpaceID(ctx, spaceID)
}

func (e *Engine) DeleteTodo(ctx context.Context, id string) error {
	return e.Todos.Delete(ctx, id)
}
