// Package sql adapts database/sql queries to aiter iterators. A query
// iterator owns its *sql.Rows: the query runs lazily on the first Next,
// and Close releases the rows.
package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lguimbarda/aiter/aiter/core"
)

// Scanner is a function that scans the current row into a value.
type Scanner[T any] func(*sql.Rows) (T, error)

// rowsIterator pulls rows on demand. The query is deferred until the first
// Next so a constructed iterator that is closed unused touches the
// database not at all.
type rowsIterator[T any] struct {
	db    *sql.DB
	query string
	args  []any
	scan  Scanner[T]

	rows   *sql.Rows
	closed bool
}

// Query returns an iterator over the rows produced by the query. The
// scanner converts each row to the output type. The iterator owns the
// underlying rows; close it when done, or consume it with a terminal that
// closes it for you.
func Query[T any](db *sql.DB, query string, scan Scanner[T], args ...any) core.Iterator[T] {
	return &rowsIterator[T]{db: db, query: query, args: args, scan: scan}
}

func (r *rowsIterator[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if r.closed {
		return zero, core.ErrExhausted
	}
	if r.rows == nil {
		rows, err := r.db.QueryContext(ctx, r.query, r.args...)
		if err != nil {
			r.closed = true
			return zero, err
		}
		r.rows = rows
	}
	if !r.rows.Next() {
		err := r.rows.Err()
		_ = r.Close(ctx)
		if err != nil {
			return zero, err
		}
		return zero, core.ErrExhausted
	}
	value, err := r.scan(r.rows)
	if err != nil {
		_ = r.Close(ctx)
		return zero, err
	}
	return value, nil
}

func (r *rowsIterator[T]) Close(context.Context) error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.rows == nil {
		return nil
	}
	rows := r.rows
	r.rows = nil
	return rows.Close()
}

// QueryRow executes a query expecting a single row and returns its scanned
// value directly.
func QueryRow[T any](ctx context.Context, db *sql.DB, query string, scan func(*sql.Row) (T, error), args ...any) (T, error) {
	return scan(db.QueryRowContext(ctx, query, args...))
}

// ExecResult contains the result of an exec operation.
type ExecResult struct {
	LastInsertId int64
	RowsAffected int64
}

// Exec executes a statement and reports the driver's result.
func Exec(ctx context.Context, db *sql.DB, query string, args ...any) (ExecResult, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return ExecResult{}, err
	}
	lastID, _ := result.LastInsertId()
	rowsAffected, _ := result.RowsAffected()
	return ExecResult{LastInsertId: lastID, RowsAffected: rowsAffected}, nil
}

// ExecEach executes the statement once per item from the source. The binder
// converts each item to query arguments. The returned iterator owns the
// source.
func ExecEach[T any](db *sql.DB, src core.Iterator[T], query string, binder func(T) []any) core.Iterator[ExecResult] {
	return core.Derive(func(ctx context.Context) (ExecResult, error) {
		item, err := src.Next(ctx)
		if err != nil {
			return ExecResult{}, err
		}
		return Exec(ctx, db, query, binder(item)...)
	}, src)
}

// Transaction runs fn inside a transaction, rolling back on error and
// committing on success.
func Transaction[T any](ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) (T, error)) (T, error) {
	var zero T
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zero, err
	}
	value, err := fn(tx)
	if err != nil {
		tx.Rollback()
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		return zero, err
	}
	return value, nil
}

// QueryStrings queries for rows rendered as string slices, one entry per
// column.
func QueryStrings(db *sql.DB, query string, args ...any) core.Iterator[[]string] {
	return Query(db, query, func(rows *sql.Rows) ([]string, error) {
		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}
		result := make([]string, len(cols))
		for i, v := range values {
			switch val := v.(type) {
			case nil:
				result[i] = ""
			case []byte:
				result[i] = string(val)
			case string:
				result[i] = val
			case int64:
				result[i] = fmt.Sprintf("%d", val)
			case float64:
				result[i] = fmt.Sprintf("%g", val)
			case bool:
				result[i] = fmt.Sprintf("%t", val)
			default:
				result[i] = fmt.Sprintf("%v", val)
			}
		}
		return result, nil
	}, args...)
}

// QueryMaps queries for rows rendered as maps keyed by column name.
func QueryMaps(db *sql.DB, query string, args ...any) core.Iterator[map[string]any] {
	return Query(db, query, func(rows *sql.Rows) (map[string]any, error) {
		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}
		result := make(map[string]any, len(cols))
		for i, col := range cols {
			result[col] = values[i]
		}
		return result, nil
	}, args...)
}
