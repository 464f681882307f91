package builtin

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, city TEXT);
		INSERT INTO users (name, city) VALUES
			('Alice', 'Beijing'),
			('Bob', 'Shanghai'),
			('Carol', 'Shenzhen');
	`)
	if err != nil {
		t.Fatalf("seed db: %v", err)
	}
	return db
}

func TestSQLQueryExecute(t *testing.T) {
	tool := NewSQLQuery(testDB(t))

	out, err := tool.Execute(context.Background(),
		json.RawMessage(`{"query":"SELECT name, city FROM users ORDER BY name"}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var result queryResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result.RowCount != 3 {
		t.Errorf("row_count = %d, want 3", result.RowCount)
	}
	if len(result.Columns) != 2 || result.Columns[0] != "name" {
		t.Errorf("columns = %v, want [name city]", result.Columns)
	}
	if result.Rows[0]["name"] != "Alice" {
		t.Errorf("first row = %v, want Alice", result.Rows[0])
	}
	if result.Truncated {
		t.Error("Truncated = true for a small result set")
	}
}

func TestSQLQueryTruncation(t *testing.T) {
	tool := NewSQLQuery(testDB(t))
	tool.SetMaxRows(2)

	out, err := tool.Execute(context.Background(),
		json.RawMessage(`{"query":"SELECT * FROM users"}`))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var result queryResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result.RowCount != 2 || !result.Truncated {
		t.Errorf("row_count=%d truncated=%v, want 2/true", result.RowCount, result.Truncated)
	}
}

func TestScreenQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"plain select", "SELECT * FROM users", false},
		{"lowercase select", "select name from users", false},
		{"trailing semicolon", "SELECT 1;", false},
		{"empty", "", true},
		{"insert", "INSERT INTO users (name) VALUES ('Eve')", true},
		{"update", "UPDATE users SET name = 'x'", true},
		{"delete", "DELETE FROM users", true},
		{"drop", "DROP TABLE users", true},
		{"select with embedded drop", "SELECT 1; DROP TABLE users", true},
		{"select with comment", "SELECT name FROM users -- sneaky", true},
		{"select with pragma", "SELECT * FROM users WHERE id IN (SELECT 1) PRAGMA writable_schema", true},
		{"select with exec", "SELECT 1 EXEC something", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := screenQuery(tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("screenQuery(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
		})
	}
}

func TestSQLQueryRejectsWrites(t *testing.T) {
	db := testDB(t)
	tool := NewSQLQuery(db)

	if _, err := tool.Execute(context.Background(),
		json.RawMessage(`{"query":"DELETE FROM users"}`)); err == nil {
		t.Fatal("DELETE accepted, want error")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("users table has %d rows after rejected DELETE, want 3", count)
	}
}
