package table

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/asaidimu/tablequery/pkg/core"
	"github.com/asaidimu/tablequery/pkg/query"
)

// DB is a database handle that hands out Table handles and executes their
// compiled statements through a single core.Executor.
type DB struct {
	exec    core.Executor
	dialect query.Dialect
	logger  *slog.Logger
	closer  func() error

	mu     sync.RWMutex // Protects tables
	tables map[string]*Table
}

// Option configures a DB.
type Option func(*DB)

// WithDialect sets the SQL dialect. The default is PostgreSQL.
func WithDialect(d query.Dialect) Option {
	return func(db *DB) {
		if d != nil {
			db.dialect = d
		}
	}
}

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(db *DB) {
		if l != nil {
			db.logger = l
		}
	}
}

// New creates a DB over exec.
func New(exec core.Executor, opts ...Option) *DB {
	db := &DB{
		exec:    exec,
		dialect: query.PostgresDialect{},
		logger:  slog.Default(),
		tables:  make(map[string]*Table),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Open opens a database/sql connection pool with the driver registered for
// dialect ("postgres", "sqlite3" or "mysql") and wraps it in a DB using the
// matching SQL dialect.
func Open(dialect, dsn string, opts ...Option) (*DB, error) {
	d, err := query.DialectFor(dialect)
	if err != nil {
		return nil, err
	}
	pool, err := sql.Open(d.Name(), dsn)
	if err != nil {
		return nil, fmt.Errorf("tablequery: open %s: %w", d.Name(), err)
	}
	db := New(NewDBExecutor(pool), append([]Option{WithDialect(d)}, opts...)...)
	db.closer = pool.Close
	return db, nil
}

// OpenDB wraps an existing pool. The caller keeps ownership of pool.
func OpenDB(pool *sql.DB, opts ...Option) *DB {
	return New(NewDBExecutor(pool), opts...)
}

// Dialect returns the SQL dialect in use.
func (db *DB) Dialect() query.Dialect { return db.dialect }

// Table returns the handle for name, creating it on first use. pk is the
// primary key column used by core.PrimaryKey filters; the value given on
// first use is kept.
func (db *DB) Table(name, pk string) *Table {
	db.mu.RLock()
	t, ok := db.tables[name]
	db.mu.RUnlock()
	if ok {
		return t
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if t, ok := db.tables[name]; ok {
		return t
	}
	t = newTable(db, core.TableInfo{Name: name, PrimaryKey: pk})
	db.tables[name] = t
	db.logger.Debug("registered table", "table", name, "primary_key", pk)
	return t
}

// Tables returns the names of all registered tables, sorted.
func (db *DB) Tables() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes sql verbatim. No compilation is involved.
func (db *DB) Run(ctx context.Context, sql string, params ...any) ([]core.Row, error) {
	return db.execute(ctx, "", core.Statement{SQL: sql, Params: core.Params(params...)})
}

// Close releases the pool when the DB was created by Open.
func (db *DB) Close() error {
	if db.closer == nil {
		return nil
	}
	return db.closer()
}

// execute hands a compiled statement to the executor.
func (db *DB) execute(ctx context.Context, table string, st core.Statement) ([]core.Row, error) {
	db.logger.DebugContext(ctx, "executing statement", "table", table, "sql", st.SQL, "params", st.Params)
	rows, err := db.exec.Query(ctx, st.SQL, st.Params...)
	if err != nil {
		db.logger.ErrorContext(ctx, "statement failed", "table", table, "sql", st.SQL, "error", err)
		return nil, &core.ExecutionError{SQL: st.SQL, Err: err}
	}
	return rows, nil
}
