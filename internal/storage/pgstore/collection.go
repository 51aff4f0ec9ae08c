// Package pgstore is the postgres record-store backend. Each collection is a
// two-column document table (id text primary key, doc jsonb); Update takes a
// row lock for its read-modify-write cycle, giving the same exclusivity the
// file backend gets from its collection mutex. Predicates run in process
// after decoding — the contract is a keyed record store, not a query engine.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dchgoh/SWE30003-ART-System/internal/storage"
)

type Collection[T any] struct {
	pool  *pgxpool.Pool
	table string
	key   func(T) string
}

func NewCollection[T any](pool *pgxpool.Pool, table string, key func(T) string) *Collection[T] {
	return &Collection[T]{pool: pool, table: table, key: key}
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, bool, error) {
	var zero T
	sql := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, c.table)

	var doc []byte
	err := c.pool.QueryRow(ctx, sql, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("select %s: %w", c.table, err)
	}

	var rec T
	if err := json.Unmarshal(doc, &rec); err != nil {
		// a corrupt document reads as absent, matching the file backend
		return zero, false, nil
	}
	return rec, true, nil
}

func (c *Collection[T]) FindBy(ctx context.Context, pred func(T) bool) ([]T, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []T
	for _, rec := range all {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	sql := fmt.Sprintf(`SELECT doc FROM %s`, c.table)

	rows, err := c.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", c.table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.table, err)
		}
		var rec T
		if err := json.Unmarshal(doc, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (c *Collection[T]) Upsert(ctx context.Context, rec T) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s doc: %w", c.table, err)
	}

	sql := fmt.Sprintf(`
		INSERT INTO %s (id, doc) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc
	`, c.table)

	if _, err := c.pool.Exec(ctx, sql, c.key(rec), doc); err != nil {
		return fmt.Errorf("upsert %s: %w", c.table, err)
	}
	return nil
}

func (c *Collection[T]) DeleteBy(ctx context.Context, pred func(T) bool) (int, error) {
	matches, err := c.FindBy(ctx, pred)
	if err != nil {
		return 0, err
	}
	removed := 0
	sql := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table)
	for _, rec := range matches {
		tag, err := c.pool.Exec(ctx, sql, c.key(rec))
		if err != nil {
			return removed, fmt.Errorf("delete %s: %w", c.table, err)
		}
		removed += int(tag.RowsAffected())
	}
	return removed, nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, fn func(*T) error) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update %s: %w", c.table, err)
	}
	defer tx.Rollback(ctx)

	var doc []byte
	selectSQL := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1 FOR UPDATE`, c.table)
	if err := tx.QueryRow(ctx, selectSQL, id).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("lock %s row: %w", c.table, err)
	}

	var rec T
	if err := json.Unmarshal(doc, &rec); err != nil {
		return storage.ErrNotFound
	}
	if err := fn(&rec); err != nil {
		return err
	}

	updated, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s doc: %w", c.table, err)
	}
	updateSQL := fmt.Sprintf(`UPDATE %s SET doc = $2 WHERE id = $1`, c.table)
	if _, err := tx.Exec(ctx, updateSQL, id, updated); err != nil {
		return fmt.Errorf("update %s: %w", c.table, err)
	}
	return tx.Commit(ctx)
}
