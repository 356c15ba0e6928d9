// Package repo provides one repository per entity type, all sharing a generic
// CRUD core over the store adapter.
package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"kaizen/internal/domain"
	"kaizen/internal/store"
)

// ErrNotFound is re-exported so callers need not import the store package to
// classify errors.
var ErrNotFound = store.ErrNotFound

// Entity is implemented (on the pointer type) by every persisted entity.
type Entity interface {
	Key() string
	SetKey(string)
	SpaceKey() string
	At() time.Time
}

// Repo is the shared repository core for one entity type.
type Repo[E any, P interface {
	*E
	Entity
}] struct {
	col   store.Collection
	order store.Order
}

func (r *Repo[E, P]) GetByID(ctx context.Context, id string) (E, error) {
	var e E
	rec, err := r.col.Get(ctx, id)
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(rec.Data, &e)
	return e, err
}

func (r *Repo[E, P]) GetBySpaceID(ctx context.Context, spaceID string) ([]E, error) {
	recs, err := r.col.ListBySpace(ctx, spaceID, r.order)
	if err != nil {
		return nil, err
	}
	return decodeAll[E](recs)
}

func (r *Repo[E, P]) List(ctx context.Context) ([]E, error) {
	recs, err := r.col.List(ctx, r.order)
	if err != nil {
		return nil, err
	}
	return decodeAll[E](recs)
}

// Add persists the entity, generating an identifier when none is set, and
// returns the stored value.
func (r *Repo[E, P]) Add(ctx context.Context, e E) (E, error) {
	p := P(&e)
	if p.Key() == "" {
		p.SetKey(uuid.New().String())
	}
	return e, r.put(ctx, p)
}

// Update replaces the stored entity by id. A missing id is reported as
// ErrNotFound rather than silently inserted.
func (r *Repo[E, P]) Update(ctx context.Context, e E) error {
	p := P(&e)
	if _, err := r.col.Get(ctx, p.Key()); err != nil {
		return err
	}
	return r.put(ctx, p)
}

func (r *Repo[E, P]) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}

// DeleteBySpaceID removes every entity owned by the space; idempotent on an
// empty result set.
func (r *Repo[E, P]) DeleteBySpaceID(ctx context.Context, spaceID string) error {
	return r.col.DeleteBySpace(ctx, spaceID)
}

func (r *Repo[E, P]) put(ctx context.Context, p P) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.col.Put(ctx, store.Record{
		ID:      p.Key(),
		SpaceID: p.SpaceKey(),
		TS:      p.At(),
		Data:    data,
	})
}

func decodeAll[E any](recs []store.Record) ([]E, error) {
	var res []E
	for _, rec := range recs {
		var e E
		if err := json.Unmarshal(rec.Data, &e); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}

// Concrete repositories. Orderings follow the read contract: journal entities
// newest first, todos oldest first, actions and quests unordered.

type Actions = Repo[domain.Action, *domain.Action]
type Quests = Repo[domain.Quest, *domain.Quest]
type Logs = Repo[domain.LogEntry, *domain.LogEntry]
type Waste = Repo[domain.WasteEntry, *domain.WasteEntry]
type Comments = Repo[domain.Comment, *domain.Comment]
type Todos = Repo[domain.TodoItem, *domain.TodoItem]

func NewActions(db *sql.DB) *Actions {
	return &Actions{col: store.Collection{DB: db, Name: "actions"}}
}

func NewQuests(db *sql.DB) *Quests {
	return &Quests{col: store.Collection{DB: db, Name: "quests"}}
}

func NewLogs(db *sql.DB) *Logs {
	return &Logs{col: store.Collection{DB: db, Name: "log_entries"}, order: store.Desc}
}

func NewWaste(db *sql.DB) *Waste {
	return &Waste{col: store.Collection{DB: db, Name: "waste_entries"}, order: store.Desc}
}

func NewComments(db *sql.DB) *Comments {
	return &Comments{col: store.Collection{DB: db, Name: "comments"}, order: store.Desc}
}

func NewTodos(db *sql.DB) *Todos {
	return &Todos{col: store.Collection{DB: db, Name: "todos"}, order: store.Asc}
}

// Spaces overrides Update to stamp a fresh last-modified timestamp
// unconditionally, even when the caller supplied one.
type Spaces struct {
	Repo[domain.Space, *domain.Space]
	now func() time.Time
}

func NewSpaces(db *sql.DB, now func() time.Time) *Spaces {
	if now == nil {
		now = time.Now
	}
	return &Spaces{
		Repo: Repo[domain.Space, *domain.Space]{
			col:   store.Collection{DB: db, Name: "spaces"},
			order: store.Desc,
		},
		now: now,
	}
}

func (r *Spaces) Update(ctx context.Context, s domain.Space) (domain.Space, error) {
	s.DateModified = r.now().UTC()
	if err := r.Repo.Update(ctx, s); err != nil {
		return s, err
	}
	return s, nil
}
