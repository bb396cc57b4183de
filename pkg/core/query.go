package core

// QueryGenerator compiles filters and options into database-specific statements
// for a single table.
type QueryGenerator interface {
	// Select creates a SELECT statement for filter and opts.
	Select(filter Filter, opts *QueryOptions) (Statement, error)

	// Count creates a SELECT COUNT(*) statement for filter.
	Count(filter Filter) (Statement, error)

	// Search creates a full-text search statement.
	Search(search SearchOptions, opts *QueryOptions) (Statement, error)
}
