package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"kaizen/internal/domain"
	"kaizen/internal/engine"
	"kaizen/internal/metrics"
	"kaizen/internal/repo"
	"kaizen/internal/view"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   *engine.Engine
	BasePath string
	Auth     AuthConfig
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"not_found"`
	Message string         `json:"message" example:"space not found"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Kaizen API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}

	router := chi.NewRouter()
	if cfg.Auth.Secret != "" {
		router.Use(newAuthMiddleware(basePath, cfg.Auth))
	}
	hcfg := huma.DefaultConfig("Kaizen API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	loader := view.Loader{
		Spaces:   cfg.Engine.Spaces,
		Actions:  cfg.Engine.Actions,
		Quests:   cfg.Engine.Quests,
		Logs:     cfg.Engine.Logs,
		Waste:    cfg.Engine.Waste,
		Comments: cfg.Engine.Comments,
		Todos:    cfg.Engine.Todos,
	}

	registerHealth(group)
	registerSpaces(group, cfg.Engine, loader)
	registerActions(group, cfg.Engine)
	registerQuests(group, cfg.Engine)
	registerLogs(group, cfg.Engine)
	registerWaste(group, cfg.Engine)
	registerComments(group, cfg.Engine)
	registerTodos(group, cfg.Engine)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var ve engine.ValidationError
	if errors.As(err, &ve) {
		return newAPIError(http.StatusUnprocessableEntity, "validation_failed", err.Error(), nil)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": err.Error()})
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body struct {
			Status string `json:"status" example:"ok"`
		}
	}, error) {
		resp := &struct {
			Body struct {
				Status string `json:"status" example:"ok"`
			}
		}{}
		resp.Body.Status = "ok"
		return resp, nil
	})
}

func registerSpaces(api huma.API, e *engine.Engine, loader view.Loader) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-space",
		Method:        http.MethodPost,
		Path:          "/spaces",
		Summary:       "Create space",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		Body CreateSpaceRequest
	}) (*spaceResponse, error) {
		s, err := e.CreateSpace(ctx, engine.SpaceCreateOptions{
			Name:        input.Body.Name,
			Description: input.Body.Description,
			Goal:        input.Body.Goal,
			BeforeImage: input.Body.BeforeImage,
			AfterImage:  input.Body.AfterImage,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &spaceResponse{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-spaces",
		Method:      http.MethodGet,
		Path:        "/spaces",
		Summary:     "List spaces, most recently modified first",
	}, func(ctx context.Context, _ *struct{}) (*spaceListResponse, error) {
		items, err := e.ListSpaces(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &spaceListResponse{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-space",
		Method:      http.MethodGet,
		Path:        "/spaces/{id}",
		Summary:     "Get space",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*spaceResponse, error) {
		s, err := e.GetSpace(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &spaceResponse{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-space",
		Method:      http.MethodPatch,
		Path:        "/spaces/{id}",
		Summary:     "Update space",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body UpdateSpaceRequest
	}) (*spaceResponse, error) {
		s, err := e.UpdateSpace(ctx, engine.SpaceUpdateOptions{
			ID:          input.ID,
			Name:        input.Body.Name,
			Description: input.Body.Description,
			Goal:        input.Body.Goal,
			BeforeImage: input.Body.BeforeImage,
			AfterImage:  input.Body.AfterImage,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &spaceResponse{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-space",
		Method:      http.MethodDelete,
		Path:        "/spaces/{id}",
		Summary:     "Delete space and every entity it owns",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := e.DeleteSpace(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "duplicate-space",
		Method:        http.MethodPost,
		Path:          "/spaces/{id}/duplicate",
		Summary:       "Duplicate space with its actions and quests",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*spaceResponse, error) {
		s, err := e.DuplicateSpace(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &spaceResponse{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "clock-in",
		Method:      http.MethodPost,
		Path:        "/spaces/{id}/clock-in",
		Summary:     "Start a clock session",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*spaceResponse, error) {
		s, err := e.ClockIn(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &spaceResponse{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "clock-out",
		Method:      http.MethodPost,
		Path:        "/spaces/{id}/clock-out",
		Summary:     "End the clock session",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*spaceResponse, error) {
		s, err := e.ClockOut(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &spaceResponse{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-clocked-time",
		Method:      http.MethodPost,
		Path:        "/spaces/{id}/clocked-time",
		Summary:     "Add minutes to the accumulated clocked time",
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body AddClockedTimeRequest
	}) (*spaceResponse, error) {
		s, err := e.AddClockedTime(ctx, input.ID, input.Body.Minutes)
		if err != nil {
			return nil, handleError(err)
		}
		return &spaceResponse{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "space-summary",
		Method:      http.MethodGet,
		Path:        "/spaces/{id}/summary",
		Summary:     "Derived metrics for the space",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body metrics.Summary
	}, error) {
		v, err := loader.Load(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body metrics.Summary
		}{Body: v.Summary(time.Now())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "space-view",
		Method:      http.MethodGet,
		Path:        "/spaces/{id}/view",
		Summary:     "Full snapshot of the space and its child collections",
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body view.SpaceView
	}, error) {
		v, err := loader.Load(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body view.SpaceView
		}{Body: *v}, nil
	})
}

type spaceResponse struct {
	Body domain.Space
}

type spaceListResponse struct {
	Body []domain.Space
}
