// Package engine holds the domain services: validation, derived behavior and
// cross-entity lifecycle orchestration on top of the repositories.
package engine

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"kaizen/internal/config"
	"kaizen/internal/repo"
)

type Engine struct {
	DB       *sql.DB
	Spaces   *repo.Spaces
	Actions  *repo.Actions
	Quests   *repo.Quests
	Logs     *repo.Logs
	Waste    *repo.Waste
	Comments *repo.Comments
	Todos    *repo.Todos
	Config   *config.Config
	Log      zerolog.Logger
	Now      func() time.Time
}

func New(db *sql.DB, cfg *config.Config, log zerolog.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{
		DB:       db,
		Actions:  repo.NewActions(db),
		Quests:   repo.NewQuests(db),
		Logs:     repo.NewLogs(db),
		Waste:    repo.NewWaste(db),
		Comments: repo.NewComments(db),
		Todos:    repo.NewTodos(db),
		Config:   cfg,
		Log:      log,
		Now:      time.Now,
	}
	// The spaces repository stamps dateModified through the engine clock so
	// tests can pin time after construction.
	e.Spaces = repo.NewSpaces(db, func() time.Time { return e.now() })
	return e
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// ValidationError marks input rejected before any store write. It is surfaced
// distinctly from repo.ErrNotFound so callers can decide how to react.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

func invalidf(format string, args ...any) error {
	return ValidationError{Msg: fmt.Sprintf(format, args...)}
}
