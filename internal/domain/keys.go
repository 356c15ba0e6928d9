package domain

import "time"

// Accessors consumed by the generic repository layer: primary key, owning
// space key, and the timestamp used for ordered scans. Spaces order by last
// modification, journal-style entities by their own timestamp.

func (s *Space) Key() string      { return s.ID }
func (s *Space) SetKey(id string) { s.ID = id }
func (s *Space) SpaceKey() string { return "" }
func (s *Space) At() time.Time    { return s.DateModified }

func (a *Action) Key() string      { return a.ID }
func (a *Action) SetKey(id string) { a.ID = id }
func (a *Action) SpaceKey() string { return a.SpaceID }
func (a *Action) At() time.Time    { return a.DateCreated }

func (q *Quest) Key() string      { return q.ID }
func (q *Quest) SetKey(id string) { q.ID = id }
func (q *Quest) SpaceKey() string { return q.SpaceID }
func (q *Quest) At() time.Time    { return q.DateCreated }

func (l *LogEntry) Key() string      { return l.ID }
func (l *LogEntry) SetKey(id string) { l.ID = id }
func (l *LogEntry) SpaceKey() string { return l.SpaceID }
func (l *LogEntry) At() time.Time    { return l.Timestamp }

func (w *WasteEntry) Key() string      { return w.ID }
func (w *WasteEntry) SetKey(id string) { w.ID = id }
func (w *WasteEntry) SpaceKey() string { return w.SpaceID }
func (w *WasteEntry) At() time.Time    { return w.Timestamp }

func (c *Comment) Key() string      { return c.ID }
func (c *Comment) SetKey(id string) { c.ID = id }
func (c *Comment) SpaceKey() string { return c.SpaceID }
func (c *Comment) At() time.Time    { return c.Timestamp }

func (t *TodoItem) Key() string      { return t.ID }
func (t *TodoItem) SetKey(id string) { t.ID = id }
func (t *TodoItem) SpaceKey() string { return t.SpaceID }
func (t *TodoItem) At() time.Time    { return t.DateCreated }
