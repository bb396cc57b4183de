package table

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/asaidimu/tablequery/pkg/core"
	"github.com/asaidimu/tablequery/pkg/query"
)

// Table is a queryable handle for one table. Every method compiles a fresh
// statement and issues exactly one executor call (Page issues two), so a
// Table is safe for concurrent use.
type Table struct {
	db   *DB
	info core.TableInfo
	gen  *query.Generator
}

func newTable(db *DB, info core.TableInfo) *Table {
	t := &Table{db: db, info: info, gen: query.NewGenerator(db.dialect, info)}
	t.gen.OnLenient = func(c core.Condition) {
		db.logger.Warn("unrecognized operator in condition key, comparing with =",
			"table", info.Name, "key", c.Key, "token", c.Unrecognized)
	}
	return t
}

// Info returns the table metadata.
func (t *Table) Info() core.TableInfo { return t.info }

// Find returns every row matching filter. A nil filter matches all rows and
// nil opts select every column in database order.
func (t *Table) Find(ctx context.Context, filter core.Filter, opts *core.QueryOptions) ([]core.Row, error) {
	st, err := t.gen.Select(filter, opts)
	if err != nil {
		return nil, err
	}
	return t.db.execute(ctx, t.info.Name, st)
}

// FindOne returns the first row matching filter, or nil if none matched.
// Any limit in opts is replaced by 1.
func (t *Table) FindOne(ctx context.Context, filter core.Filter, opts *core.QueryOptions) (core.Row, error) {
	rows, err := t.Find(ctx, filter, opts.Clone().WithLimit(1))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// Where runs a raw boolean expression with $n placeholders. A single []any
// argument is spread into the parameter list.
func (t *Table) Where(ctx context.Context, sql string, params ...any) ([]core.Row, error) {
	return t.Find(ctx, core.RawSQL(sql, params...), nil)
}

// Count returns the number of rows matching filter.
func (t *Table) Count(ctx context.Context, filter core.Filter) (int64, error) {
	st, err := t.gen.Count(filter)
	if err != nil {
		return 0, err
	}
	rows, err := t.db.execute(ctx, t.info.Name, st)
	if err != nil {
		return 0, err
	}
	return scalarCount(rows)
}

// CountWhere counts rows matching a raw boolean expression.
func (t *Table) CountWhere(ctx context.Context, sql string, params ...any) (int64, error) {
	return t.Count(ctx, core.RawSQL(sql, params...))
}

// Search runs a full-text search over search.Columns, combined with
// search.Where when set.
func (t *Table) Search(ctx context.Context, search core.SearchOptions, opts *core.QueryOptions) ([]core.Row, error) {
	st, err := t.gen.Search(search, opts)
	if err != nil {
		return nil, err
	}
	return t.db.execute(ctx, t.info.Name, st)
}

// Run executes sql verbatim.
func (t *Table) Run(ctx context.Context, sql string, params ...any) ([]core.Row, error) {
	return t.db.Run(ctx, sql, params...)
}

// Page returns one page of rows together with the total number of matching
// rows. The two statements run concurrently and independently.
func (t *Table) Page(ctx context.Context, filter core.Filter, opts *core.QueryOptions) (core.Page, error) {
	rowsSt, countSt, err := t.gen.Page(filter, opts)
	if err != nil {
		return core.Page{}, err
	}

	var page core.Page
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		rows, err := t.db.execute(ctx, t.info.Name, rowsSt)
		page.Rows = rows
		return err
	})
	eg.Go(func() error {
		rows, err := t.db.execute(ctx, t.info.Name, countSt)
		if err != nil {
			return err
		}
		page.Total, err = scalarCount(rows)
		return err
	})
	if err := eg.Wait(); err != nil {
		return core.Page{}, err
	}
	return page, nil
}

// scalarCount extracts the single value of a COUNT(*) result.
func scalarCount(rows []core.Row) (int64, error) {
	if len(rows) != 1 || len(rows[0]) != 1 {
		return 0, fmt.Errorf("tablequery: count returned %d rows, expected one single-column row", len(rows))
	}
	for _, v := range rows[0] {
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case float64:
			return int64(n), nil
		case []byte:
			return strconv.ParseInt(string(n), 10, 64)
		case string:
			return strconv.ParseInt(n, 10, 64)
		default:
			return 0, fmt.Errorf("tablequery: unexpected count type %T", v)
		}
	}
	return 0, nil
}

var _ core.QueryTable = (*Table)(nil)
