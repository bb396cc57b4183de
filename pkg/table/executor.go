package table

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/asaidimu/tablequery/pkg/core"
)

// Querier is the part of *sql.DB, *sql.Tx and *sql.Conn the executor needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DBExecutor implements core.Executor over database/sql.
type DBExecutor struct {
	db Querier
}

// NewDBExecutor creates a new DBExecutor instance.
func NewDBExecutor(db Querier) *DBExecutor {
	return &DBExecutor{db: db}
}

// Query runs sql with params and reads every row into memory.
func (e *DBExecutor) Query(ctx context.Context, query string, params ...any) ([]core.Row, error) {
	rows, err := e.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return readRows(rows)
}

// readRows reads all rows from a sql.Rows result and converts them into a slice of Row maps.
func readRows(rows *sql.Rows) ([]core.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get column types: %w", err)
	}
	kinds := make([]string, len(columnTypes))
	for i, ct := range columnTypes {
		kinds[i] = baseTypeName(ct.DatabaseTypeName())
	}

	results := []core.Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(core.Row, len(columns))
		for i, col := range columns {
			row[col] = normalize(kinds[i], values[i])
		}
		results = append(results, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning rows: %w", err)
	}
	return results, nil
}

// baseTypeName upper-cases a declared type and drops its size modifier,
// so "varchar(255)" and "VARCHAR" compare equal.
func baseTypeName(name string) string {
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	return strings.ToUpper(strings.TrimSpace(name))
}

// normalize converts driver values into plain Go values by declared column
// type. Drivers commonly return text and decimals as []byte, and SQLite
// stores booleans as integers.
func normalize(kind string, val any) any {
	switch kind {
	case "BOOL", "BOOLEAN":
		if intVal, ok := val.(int64); ok {
			return intVal != 0
		}
	case "TEXT", "VARCHAR", "CHAR", "BPCHAR", "NVARCHAR", "CHARACTER", "CITEXT", "UUID", "NUMERIC", "DECIMAL", "JSON", "JSONB":
		if byteVal, ok := val.([]byte); ok {
			return string(byteVal)
		}
	}
	return val
}

var _ core.Executor = (*DBExecutor)(nil)
