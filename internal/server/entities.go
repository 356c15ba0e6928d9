package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"kaizen/internal/config"
	"kaizen/internal/domain"
	"kaizen/internal/engine"
)

func registerActions(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-action",
		Method:        http.MethodPost,
		Path:          "/actions",
		Summary:       "Create action",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		Body CreateActionRequest
	}) (*actionResponse, error) {
		a, err := e.CreateAction(ctx, engine.ActionCreateOptions{
			SpaceID:     input.Body.SpaceID,
			Name:        input.Body.Name,
			Description: input.Body.Description,
			Points:      input.Body.Points,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &actionResponse{Body: a}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-actions",
		Method:      http.MethodGet,
		Path:        "/spaces/{id}/actions",
		Summary:     "List actions in a space",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*actionListResponse, error) {
		items, err := e.ListActions(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &actionListResponse{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-action",
		Method:      http.MethodPatch,
		Path:        "/actions/{id}",
		Summary:     "Update action",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body UpdateActionRequest
	}) (*actionResponse, error) {
		a, err := e.UpdateAction(ctx, engine.ActionUpdateOptions{
			ID:          input.ID,
			Name:        input.Body.Name,
			Description: input.Body.Description,
			Points:      input.Body.Points,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &actionResponse{Body: a}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-action",
		Method:      http.MethodDelete,
		Path:        "/actions/{id}",
		Summary:     "Delete action",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := e.DeleteAction(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "log-action",
		Method:        http.MethodPost,
		Path:          "/actions/{id}/log",
		Summary:       "Record one performance of the action",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*logEntryResponse, error) {
		entry, err := e.LogAction(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &logEntryResponse{Body: entry}, nil
	})
}

func registerQuests(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-quest",
		Method:        http.MethodPost,
		Path:          "/quests",
		Summary:       "Create multi-step action",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		Body CreateQuestRequest
	}) (*questResponse, error) {
		q, err := e.CreateQuest(ctx, engine.QuestCreateOptions{
			SpaceID:       input.Body.SpaceID,
			Name:          input.Body.Name,
			Description:   input.Body.Description,
			PointsPerStep: input.Body.PointsPerStep,
			StepNames:     input.Body.StepNames,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &questResponse{Body: q}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-quests",
		Method:      http.MethodGet,
		Path:        "/spaces/{id}/quests",
		Summary:     "List multi-step actions in a space",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*questListResponse, error) {
		items, err := e.ListQuests(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &questListResponse{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-quest",
		Method:      http.MethodPatch,
		Path:        "/quests/{id}",
		Summary:     "Update multi-step action",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body UpdateQuestRequest
	}) (*questResponse, error) {
		q, err := e.UpdateQuest(ctx, engine.QuestUpdateOptions{
			ID:            input.ID,
			Name:          input.Body.Name,
			Description:   input.Body.Description,
			PointsPerStep: input.Body.PointsPerStep,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &questResponse{Body: q}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-quest",
		Method:      http.MethodDelete,
		Path:        "/quests/{id}",
		Summary:     "Delete multi-step action",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := e.DeleteQuest(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "complete-quest-step",
		Method:      http.MethodPost,
		Path:        "/quests/{id}/complete-step",
		Summary:     "Complete the current step and advance the cursor",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*questResponse, error) {
		q, err := e.CompleteQuestStep(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &questResponse{Body: q}, nil
	})
}

func registerLogs(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-logs",
		Method:      http.MethodGet,
		Path:        "/spaces/{id}/logs",
		Summary:     "List log entries, newest first",
	}, func(ctx context.Context, input *struct {
		ID    string `path:"id"`
		Limit int    `query:"limit" minimum:"0" doc:"Maximum entries to return, 0 for all"`
	}) (*logListResponse, error) {
		items, err := e.ListLogs(ctx, input.ID, input.Limit)
		if err != nil {
			return nil, handleError(err)
		}
		return &logListResponse{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-log-entry",
		Method:      http.MethodDelete,
		Path:        "/logs/{id}",
		Summary:     "Delete log entry",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := e.DeleteLogEntry(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerWaste(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-waste-categories",
		Method:      http.MethodGet,
		Path:        "/waste-categories",
		Summary:     "The configured waste catalog",
	}, func(ctx context.Context, _ *struct{}) (*wasteCategoryListResponse, error) {
		return &wasteCategoryListResponse{Body: e.Config.Waste.Catalog}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "log-waste",
		Method:        http.MethodPost,
		Path:          "/waste",
		Summary:       "Record one or more waste observations",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		Body LogWasteRequest
	}) (*wasteListResponse, error) {
		entries, err := e.LogWaste(ctx, input.Body.SpaceID, input.Body.CategoryIDs)
		if err != nil {
			return nil, handleError(err)
		}
		return &wasteListResponse{Body: entries}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-waste",
		Method:      http.MethodGet,
		Path:        "/spaces/{id}/waste",
		Summary:     "List waste entries in a space, newest first",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*wasteListResponse, error) {
		items, err := e.ListWaste(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &wasteListResponse{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-waste-entry",
		Method:      http.MethodDelete,
		Path:        "/waste/{id}",
		Summary:     "Delete waste entry",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := e.DeleteWasteEntry(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerComments(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-comment",
		Method:        http.MethodPost,
		Path:          "/comments",
		Summary:       "Create comment",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		Body CreateCommentRequest
	}) (*commentResponse, error) {
		c, err := e.CreateComment(ctx, engine.CommentCreateOptions{
			SpaceID: input.Body.SpaceID,
			Text:    input.Body.Text,
			Image:   input.Body.Image,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &commentResponse{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-comments",
		Method:      http.MethodGet,
		Path:        "/spaces/{id}/comments",
		Summary:     "List comments in a space, newest first",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*commentListResponse, error) {
		items, err := e.ListComments(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &commentListResponse{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-comment",
		Method:      http.MethodDelete,
		Path:        "/comments/{id}",
		Summary:     "Delete comment",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := e.DeleteComment(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerTodos(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-todo",
		Method:        http.MethodPost,
		Path:          "/todos",
		Summary:       "Create todo item",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		Body CreateTodoRequest
	}) (*todoResponse, error) {
		t, err := e.CreateTodo(ctx, engine.TodoCreateOptions{
			SpaceID:     input.Body.SpaceID,
			Description: input.Body.Description,
			BeforeImage: input.Body.BeforeImage,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &todoResponse{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-todos",
		Method:      http.MethodGet,
		Path:        "/spaces/{id}/todos",
		Summary:     "List todo items in a space, oldest first",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*todoListResponse, error) {
		items, err := e.ListTodos(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &todoListResponse{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-todo-before-image",
		Method:      http.MethodPut,
		Path:        "/todos/{id}/before-image",
		Summary:     "Attach or replace the before image on an open todo",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body TodoBeforeImageRequest
	}) (*todoResponse, error) {
		t, err := e.SetTodoBeforeImage(ctx, input.ID, input.Body.Image)
		if err != nil {
			return nil, handleError(err)
		}
		return &todoResponse{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "complete-todo",
		Method:      http.MethodPost,
		Path:        "/todos/{id}/complete",
		Summary:     "Complete a todo with its after image",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body CompleteTodoRequest
	}) (*todoResponse, error) {
		t, err := e.CompleteTodo(ctx, input.ID, input.Body.AfterImage)
		if err != nil {
			return nil, handleError(err)
		}
		return &todoResponse{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-todo",
		Method:      http.MethodDelete,
		Path:        "/todos/{id}",
		Summary:     "Delete todo item",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := e.DeleteTodo(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

type actionResponse struct {
	Body domain.Action
}

type actionListResponse struct {
	Body []domain.Action
}

type questResponse struct {
	Body domain.Quest
}

type questListResponse struct {
	Body []domain.Quest
}

type logEntryResponse struct {
	Body domain.LogEntry
}

type logListResponse struct {
	Body []domain.LogEntry
}

type wasteListResponse struct {
	Body []domain.WasteEntry
}

type wasteCategoryListResponse struct {
	Body []config.WasteCategory
}

type commentResponse struct {
	Body domain.Comment
}

type commentListResponse struct {
	Body []domain.Comment
}

type todoResponse struct {
	Body domain.TodoItem
}

type todoListResponse struct {
	Body []domain.TodoItem
}
