package core

import (
	"context"
)

// Executor runs a parameterized SQL string against the database and returns
// the resulting rows. Pooling, timeouts and cancellation are its concern.
type Executor interface {
	Query(ctx context.Context, sql string, params ...any) ([]Row, error)
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(ctx context.Context, sql string, params ...any) ([]Row, error)

// Query calls f.
func (f ExecutorFunc) Query(ctx context.Context, sql string, params ...any) ([]Row, error) {
	return f(ctx, sql, params...)
}

// QueryTable is the public surface of a table handle.
type QueryTable interface {
	// Info returns the metadata the handle was built with.
	Info() TableInfo

	// Find returns every row matching filter with opts applied.
	Find(ctx context.Context, filter Filter, opts *QueryOptions) ([]Row, error)

	// FindOne returns the first matching row, or nil when nothing matched.
	FindOne(ctx context.Context, filter Filter, opts *QueryOptions) (Row, error)

	// Where runs a raw boolean expression with $n placeholders.
	Where(ctx context.Context, sql string, params ...any) ([]Row, error)

	// Count returns the number of rows matching filter.
	Count(ctx context.Context, filter Filter) (int64, error)

	// Search runs a full-text search over the configured columns.
	Search(ctx context.Context, search SearchOptions, opts *QueryOptions) ([]Row, error)

	// Run executes sql verbatim.
	Run(ctx context.Context, sql string, params ...any) ([]Row, error)
}
