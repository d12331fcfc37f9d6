package sql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lguimbarda/aiter/aiter/core"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	_, err = db.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			age INTEGER NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	_, err = db.Exec(`INSERT INTO users (name, age) VALUES ('Alice', 30), ('Bob', 25), ('Charlie', 35)`)
	if err != nil {
		t.Fatalf("failed to insert data: %v", err)
	}
	return db
}

type User struct {
	ID   int
	Name string
	Age  int
}

func scanUser(rows *sql.Rows) (User, error) {
	var u User
	err := rows.Scan(&u.ID, &u.Name, &u.Age)
	return u, err
}

func TestQuery(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	users, err := core.SliceOf(ctx, Query(db, "SELECT id, name, age FROM users ORDER BY id", scanUser))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	if users[0].Name != "Alice" {
		t.Errorf("expected first user 'Alice', got %q", users[0].Name)
	}
	if users[1].Name != "Bob" {
		t.Errorf("expected second user 'Bob', got %q", users[1].Name)
	}
	if users[2].Name != "Charlie" {
		t.Errorf("expected third user 'Charlie', got %q", users[2].Name)
	}
}

func TestQueryWithArgs(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	users, err := core.SliceOf(ctx, Query(db, "SELECT id, name, age FROM users WHERE age > ?", scanUser, 26))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestQueryCloseUnused(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	it := Query(db, "SELECT id, name, age FROM users", scanUser)
	if err := it.Close(ctx); err != nil {
		t.Fatalf("close unused: %v", err)
	}
	if err := it.Close(ctx); err != nil {
		t.Fatalf("close twice: %v", err)
	}
	if _, err := it.Next(ctx); !core.IsExhausted(err) {
		t.Fatalf("expected exhaustion after close, got %v", err)
	}
}

func TestQueryClosePartway(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	it := Query(db, "SELECT id, name, age FROM users ORDER BY id", scanUser)

	u, err := it.Next(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name != "Alice" {
		t.Errorf("expected 'Alice', got %q", u.Name)
	}
	if err := it.Close(ctx); err != nil {
		t.Fatalf("close partway: %v", err)
	}
	if _, err := it.Next(ctx); !core.IsExhausted(err) {
		t.Fatalf("expected exhaustion after close, got %v", err)
	}
}

func TestQueryRow(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	user, err := QueryRow(ctx, db, "SELECT id, name, age FROM users WHERE name = ?", func(row *sql.Row) (User, error) {
		var u User
		err := row.Scan(&u.ID, &u.Name, &u.Age)
		return u, err
	}, "Alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Name != "Alice" || user.Age != 30 {
		t.Errorf("expected Alice(30), got %s(%d)", user.Name, user.Age)
	}
}

func TestExec(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	result, err := Exec(ctx, db, "INSERT INTO users (name, age) VALUES (?, ?)", "David", 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RowsAffected != 1 {
		t.Errorf("expected 1 row affected, got %d", result.RowsAffected)
	}
	if result.LastInsertId != 4 {
		t.Errorf("expected last insert id 4, got %d", result.LastInsertId)
	}
}

func TestExecEach(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	newcomers := core.Iter[User](sliceSource[User]{{Name: "David", Age: 40}, {Name: "Eve", Age: 28}})
	results, err := core.SliceOf(ctx, ExecEach(db, newcomers, "INSERT INTO users (name, age) VALUES (?, ?)", func(u User) []any {
		return []any{u.Name, u.Age}
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	if count != 5 {
		t.Errorf("expected 5 users after inserts, got %d", count)
	}
}

// sliceSource is a minimal local source so the test does not depend on the
// root package.
type sliceSource[T any] []T

func (s sliceSource[T]) Iter() core.Iterator[T] {
	i := 0
	return core.Derive(func(context.Context) (T, error) {
		var zero T
		if i >= len(s) {
			return zero, core.ErrExhausted
		}
		v := s[i]
		i++
		return v, nil
	})
}

func TestTransaction(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	lastID, err := Transaction(ctx, db, func(tx *sql.Tx) (int64, error) {
		result, err := tx.Exec("INSERT INTO users (name, age) VALUES (?, ?)", "Eve", 28)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lastID != 4 {
		t.Errorf("expected last insert id 4, got %d", lastID)
	}

	// Verify the data was committed
	var count int
	db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	if count != 4 {
		t.Errorf("expected 4 users after transaction, got %d", count)
	}
}

func TestQueryStrings(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	rows, err := core.SliceOf(ctx, QueryStrings(db, "SELECT name, age FROM users ORDER BY id LIMIT 1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if len(row) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(row))
	}
	if row[0] != "Alice" {
		t.Errorf("expected name 'Alice', got %q", row[0])
	}
}

func TestQuery_Error(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	_, err := core.SliceOf(ctx, Query(db, "SELECT * FROM nonexistent_table", scanUser))
	if err == nil {
		t.Error("expected error for nonexistent table")
	}
}
