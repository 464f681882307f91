package builtin

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/youssefsiam38/agentctx/tool"
)

// DefaultMaxRows bounds SQL result sets.
const DefaultMaxRows = 100

var forbiddenSQLPattern = regexp.MustCompile(
	`(?i)\b(INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|TRUNCATE|GRANT|REVOKE|EXEC|EXECUTE|PRAGMA|ATTACH)\b`)

// SQLQuery runs read-only queries against a database handle. Statements
// are screened before execution: only a single SELECT is accepted.
type SQLQuery struct {
	db      *sql.DB
	maxRows int
}

// NewSQLQuery creates a SQL tool over the given database handle
func NewSQLQuery(db *sql.DB) *SQLQuery {
	return &SQLQuery{db: db, maxRows: DefaultMaxRows}
}

// SetMaxRows overrides the result-set row cap
func (s *SQLQuery) SetMaxRows(n int) {
	if n > 0 {
		s.maxRows = n
	}
}

func (s *SQLQuery) Name() string { return "execute_sql" }

func (s *SQLQuery) Description() string {
	return "Run a read-only SQL SELECT query against the database and return the rows."
}

func (s *SQLQuery) InputSchema() tool.Schema {
	return tool.Schema{
		Type: "object",
		Properties: map[string]tool.Property{
			"query": {
				Type:        "string",
				Description: "A single SELECT statement",
				MinLength:   tool.IntPtr(1),
			},
		},
		Required: []string{"query"},
	}
}

// queryResult is the wire shape of a successful query.
type queryResult struct {
	Columns   []string         `json:"columns"`
	Rows      []map[string]any `json:"rows"`
	RowCount  int              `json:"row_count"`
	Truncated bool             `json:"truncated"`
}

func (s *SQLQuery) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var params struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}

	query, err := screenQuery(params.Query)
	if err != nil {
		return "", err
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}

	result := queryResult{Columns: columns, Rows: []map[string]any{}}
	for rows.Next() {
		if len(result.Rows) >= s.maxRows {
			result.Truncated = true
			break
		}

		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	result.RowCount = len(result.Rows)

	out, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// screenQuery enforces the read-only contract: a single SELECT with no
// write keywords, comments, or piggybacked statements.
func screenQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	q = strings.TrimSuffix(q, ";")

	if q == "" {
		return "", fmt.Errorf("empty query")
	}
	if !strings.HasPrefix(strings.ToUpper(q), "SELECT") {
		return "", fmt.Errorf("only SELECT queries are allowed")
	}
	if strings.Contains(q, ";") {
		return "", fmt.Errorf("multiple statements are not allowed")
	}
	if strings.Contains(q, "--") {
		return "", fmt.Errorf("SQL comments are not allowed")
	}
	if match := forbiddenSQLPattern.FindString(q); match != "" {
		return "", fmt.Errorf("forbidden keyword in query: %s", strings.ToUpper(match))
	}
	return q, nil
}
