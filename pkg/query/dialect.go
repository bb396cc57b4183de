package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Dialect names, matching the database/sql driver names they are used with.
const (
	Postgres = "postgres"
	SQLite   = "sqlite3"
	MySQL    = "mysql"
)

// Dialect captures the syntax that differs between databases.
type Dialect interface {
	// Name returns the dialect name.
	Name() string

	// QuoteChar returns the identifier delimiter.
	QuoteChar() byte

	// Quote delimits an identifier exactly once, escaping embedded delimiters.
	Quote(ident string) string

	// Placeholder returns the placeholder for the n-th parameter (1-based).
	Placeholder(n int) string

	// SearchPredicate builds a full-text predicate over the given (already
	// resolved) columns, matching against the term bound at placeholder.
	SearchPredicate(columns []string, placeholder string) string
}

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case Postgres, "postgresql", "pq", "pgx":
		return PostgresDialect{}, nil
	case SQLite, "sqlite":
		return SQLiteDialect{}, nil
	case MySQL, "mariadb":
		return MySQLDialect{}, nil
	}
	return nil, fmt.Errorf("tablequery: unsupported dialect %q", name)
}

// PostgresDialect renders PostgreSQL: double-quoted identifiers, $n
// placeholders and tsvector full-text search. It is the default dialect.
type PostgresDialect struct{}

func (PostgresDialect) Name() string    { return Postgres }
func (PostgresDialect) QuoteChar() byte { return '"' }

func (PostgresDialect) Quote(ident string) string { return pq.QuoteIdentifier(ident) }

func (PostgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (PostgresDialect) SearchPredicate(columns []string, placeholder string) string {
	return fmt.Sprintf("to_tsvector(concat_ws(' ', %s)) @@ plainto_tsquery(%s)", strings.Join(columns, ", "), placeholder)
}

// SQLiteDialect renders SQLite. SQLite accepts $n as a parameter name and
// numbers parameters by first appearance, which matches the compiler's order.
// It has no built-in text search outside FTS tables, so search is a
// case-insensitive substring match over the concatenated columns.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string    { return SQLite }
func (SQLiteDialect) QuoteChar() byte { return '"' }

func (SQLiteDialect) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (SQLiteDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (SQLiteDialect) SearchPredicate(columns []string, placeholder string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("coalesce(%s, '')", c)
	}
	return fmt.Sprintf("instr(lower(%s), lower(%s)) > 0", strings.Join(parts, " || ' ' || "), placeholder)
}

// MySQLDialect renders MySQL: backtick identifiers, positional ? placeholders
// and MATCH ... AGAINST search, which needs a FULLTEXT index on the columns.
type MySQLDialect struct{}

func (MySQLDialect) Name() string    { return MySQL }
func (MySQLDialect) QuoteChar() byte { return '`' }

func (MySQLDialect) Quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (MySQLDialect) Placeholder(int) string { return "?" }

func (MySQLDialect) SearchPredicate(columns []string, placeholder string) string {
	return fmt.Sprintf("MATCH (%s) AGAINST (%s IN NATURAL LANGUAGE MODE)", strings.Join(columns, ","), placeholder)
}

var (
	_ Dialect = PostgresDialect{}
	_ Dialect = SQLiteDialect{}
	_ Dialect = MySQLDialect{}
)
