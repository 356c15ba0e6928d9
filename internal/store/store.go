// Package store is the entity store adapter: named document collections over
// the embedded SQLite engine. Every collection shares one shape, a JSON
// document keyed by primary id and secondarily indexed by owning space id.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("not found")

// tsLayout is fixed-width UTC so lexicographic order equals time order.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

// Order controls ListBySpace scan direction over the ts column.
type Order int

const (
	Unordered Order = iota
	Asc
	Desc
)

// Record is one row of a collection.
type Record struct {
	ID      string
	SpaceID string
	TS      time.Time
	Data    []byte
}

// Collection exposes the per-collection engine contract: get by key, scan by
// secondary index, insert-or-replace, delete, and bulk delete by index value.
type Collection struct {
	DB   *sql.DB
	Name string
}

func (c Collection) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	var ts string
	err := c.DB.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id,space_id,ts,data FROM %s WHERE id=?`, c.Name), id).
		Scan(&rec.ID, &rec.SpaceID, &ts, &rec.Data)
	if err == sql.ErrNoRows {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, err
	}
	rec.TS, err = time.Parse(tsLayout, ts)
	return rec, err
}

func (c Collection) List(ctx context.Context, order Order) ([]Record, error) {
	query := fmt.Sprintf(`SELECT id,space_id,ts,data FROM %s%s`, c.Name, orderClause(order))
	rows, err := c.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (c Collection) ListBySpace(ctx context.Context, spaceID string, order Order) ([]Record, error) {
	query := fmt.Sprintf(`SELECT id,space_id,ts,data FROM %s WHERE space_id=?%s`, c.Name, orderClause(order))
	rows, err := c.DB.QueryContext(ctx, query, spaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Put inserts or replaces by primary id (last write wins).
func (c Collection) Put(ctx context.Context, rec Record) error {
	_, err := c.DB.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s(id,space_id,ts,data) VALUES (?,?,?,?)
ON CONFLICT(id) DO UPDATE SET space_id=excluded.space_id, ts=excluded.ts, data=excluded.data`, c.Name),
		rec.ID, rec.SpaceID, rec.TS.UTC().Format(tsLayout), rec.Data)
	return err
}

func (c Collection) Delete(ctx context.Context, id string) error {
	res, err := c.DB.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id=?`, c.Name), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBySpace removes every row owned by the space. Zero matches is not an
// error.
func (c Collection) DeleteBySpace(ctx context.Context, spaceID string) error {
	_, err := c.DB.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE space_id=?`, c.Name), spaceID)
	return err
}

func orderClause(order Order) string {
	switch order {
	case Asc:
		return ` ORDER BY ts ASC, id ASC`
	case Desc:
		return ` ORDER BY ts DESC, id DESC`
	}
	return ``
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var res []Record
	for rows.Next() {
		var rec Record
		var ts string
		if err := rows.Scan(&rec.ID, &rec.SpaceID, &ts, &rec.Data); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(tsLayout, ts)
		if err != nil {
			return nil, err
		}
		rec.TS = parsed
		res = append(res, rec)
	}
	return res, rows.Err()
}
