package query

import (
	"fmt"
	"strings"

	"github.com/asaidimu/tablequery/pkg/core"
)

// Select assembles a SELECT statement for table. The WHERE clause is present
// only when where is non-empty; ORDER BY, LIMIT and OFFSET only when set.
func Select(d Dialect, table string, where Predicate, opts *core.QueryOptions) core.Statement {
	if opts == nil {
		opts = &core.QueryOptions{}
	}
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(columnList(opts.Columns))
	sb.WriteString(" FROM ")
	sb.WriteString(ResolveTable(d, table))
	writeWhere(&sb, where)
	if order := strings.TrimSpace(opts.Order); order != "" {
		sb.WriteString(" ORDER BY " + order)
	}
	if opts.Limit != nil && *opts.Limit >= 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", *opts.Limit))
	}
	if opts.Offset != nil && *opts.Offset >= 0 {
		sb.WriteString(fmt.Sprintf(" OFFSET %d", *opts.Offset))
	}
	return core.Statement{SQL: sb.String(), Params: where.Params}
}

// Count assembles a SELECT COUNT(*) statement for table.
func Count(d Dialect, table string, where Predicate) core.Statement {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(ResolveTable(d, table))
	writeWhere(&sb, where)
	return core.Statement{SQL: sb.String(), Params: where.Params}
}

func writeWhere(sb *strings.Builder, where Predicate) {
	if !where.Empty() {
		sb.WriteString(" WHERE ")
		sb.WriteString(where.Fragment)
	}
}

// columnList renders the projection. Each entry is one column name; a
// single entry is never split on commas.
func columnList(columns []string) string {
	resolved := make([]string, 0, len(columns))
	for _, c := range columns {
		if c = Resolve(c); c != "" {
			resolved = append(resolved, c)
		}
	}
	if len(resolved) == 0 {
		return "*"
	}
	return strings.Join(resolved, ",")
}

// Generator compiles statements for one table. It holds no per-call state
// and is safe for concurrent use.
type Generator struct {
	dialect Dialect
	table   core.TableInfo

	// OnLenient, when set, is called for every condition compiled as
	// equality because its operator token was not recognized.
	OnLenient func(core.Condition)
}

// NewGenerator creates a Generator for table. A nil dialect means Postgres.
func NewGenerator(d Dialect, table core.TableInfo) *Generator {
	if d == nil {
		d = PostgresDialect{}
	}
	return &Generator{dialect: d, table: table}
}

// Dialect returns the generator's dialect.
func (g *Generator) Dialect() Dialect { return g.dialect }

// Select implements core.QueryGenerator.
func (g *Generator) Select(filter core.Filter, opts *core.QueryOptions) (core.Statement, error) {
	where, err := g.compile(filter, 1)
	if err != nil {
		return core.Statement{}, err
	}
	return Select(g.dialect, g.table.Name, where, opts), nil
}

// Count implements core.QueryGenerator.
func (g *Generator) Count(filter core.Filter) (core.Statement, error) {
	where, err := g.compile(filter, 1)
	if err != nil {
		return core.Statement{}, err
	}
	return Count(g.dialect, g.table.Name, where), nil
}

// Page compiles filter once and returns both the SELECT for one page of
// rows and the COUNT over every matching row.
func (g *Generator) Page(filter core.Filter, opts *core.QueryOptions) (rows, count core.Statement, err error) {
	where, err := g.compile(filter, 1)
	if err != nil {
		return core.Statement{}, core.Statement{}, err
	}
	return Select(g.dialect, g.table.Name, where, opts), Count(g.dialect, g.table.Name, where), nil
}

// Search implements core.QueryGenerator. Extra criteria in search.Where
// take the first placeholders and the term the next one.
func (g *Generator) Search(search core.SearchOptions, opts *core.QueryOptions) (core.Statement, error) {
	where, err := g.compile(search.Where, 1)
	if err != nil {
		return core.Statement{}, err
	}
	match, err := Search(g.dialect, search, where.Next)
	if err != nil {
		return core.Statement{}, err
	}
	return Select(g.dialect, g.table.Name, And(where, match), opts), nil
}

func (g *Generator) compile(filter core.Filter, start int) (Predicate, error) {
	p, err := Compile(g.dialect, filter, start, g.table.PrimaryKey)
	if err != nil {
		return Predicate{}, err
	}
	if g.OnLenient != nil {
		for _, c := range p.Lenient {
			g.OnLenient(c)
		}
	}
	return p, nil
}

var _ core.QueryGenerator = (*Generator)(nil)
