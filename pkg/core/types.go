package core

import "sort"

// Row represents a single record/row of data retrieved from the database,
// keyed by the column name the database reported.
type Row map[string]any

// Operator is a comparison operator understood by the predicate compiler.
type Operator string

const (
	OperatorEq    Operator = "="
	OperatorNeq   Operator = "<>"
	OperatorLt    Operator = "<"
	OperatorLte   Operator = "<="
	OperatorGt    Operator = ">"
	OperatorGte   Operator = ">="
	OperatorIn    Operator = "IN"
	OperatorNotIn Operator = "NOT IN"
)

// Filter describes which rows a query matches. A nil Filter matches every row.
//
// The concrete forms are Criteria, PrimaryKey and Raw.
type Filter interface {
	isFilter()
}

// Pair is a single loosely-typed condition: Key is a column name optionally
// followed by whitespace and an operator token ("price >=", "id <>").
type Pair struct {
	Key   string
	Value any
}

// Criteria is an ordered set of conditions joined with AND.
type Criteria []Pair

func (Criteria) isFilter() {}

// Where builds Criteria from alternating key/value arguments, keeping their order.
//
//	core.Where("id >", 2, "name", "widget")
//
// A trailing key without a value is paired with nil.
func Where(kv ...any) Criteria {
	c := make(Criteria, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key, _ := kv[i].(string)
		var value any
		if i+1 < len(kv) {
			value = kv[i+1]
		}
		c = append(c, Pair{Key: key, Value: value})
	}
	return c
}

// FromMap converts a map into Criteria. Go maps carry no order, so keys are
// sorted to keep the generated SQL deterministic.
func FromMap(m map[string]any) Criteria {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	c := make(Criteria, 0, len(keys))
	for _, k := range keys {
		c = append(c, Pair{Key: k, Value: m[k]})
	}
	return c
}

// And returns a copy of c with the given pair appended.
func (c Criteria) And(key string, value any) Criteria {
	out := make(Criteria, len(c), len(c)+1)
	copy(out, c)
	return append(out, Pair{Key: key, Value: value})
}

// PrimaryKey matches the row whose primary key equals Value.
type PrimaryKey struct {
	Value any
}

func (PrimaryKey) isFilter() {}

// ID is shorthand for PrimaryKey{Value: v}.
func ID(v any) PrimaryKey { return PrimaryKey{Value: v} }

// Raw is a caller-written boolean SQL expression using $1..$n placeholders.
// It is passed through unmodified except for placeholder renumbering when it
// is combined with other fragments.
type Raw struct {
	SQL    string
	Params []any
}

func (Raw) isFilter() {}

// RawSQL builds a Raw filter. A single []any argument is spread into the
// parameter list, so RawSQL(s, 1) and RawSQL(s, []any{1}) are equivalent.
func RawSQL(sql string, params ...any) Raw {
	return Raw{SQL: sql, Params: Params(params...)}
}

// Params normalises a loosely supplied parameter list.
func Params(params ...any) []any {
	if len(params) == 1 {
		if spread, ok := params[0].([]any); ok {
			return spread
		}
	}
	return params
}

// QueryOptions controls projection, ordering and pagination.
// Unset fields are left out of the statement entirely.
type QueryOptions struct {
	Columns []string // Projection; "*" when empty
	Order   string   // Raw ORDER BY expression, trusted
	Limit   *int     `json:",omitempty"`
	Offset  *int     `json:",omitempty"`
}

// Options returns an empty QueryOptions ready for chaining.
func Options() *QueryOptions { return &QueryOptions{} }

// WithColumns sets the projection.
func (o *QueryOptions) WithColumns(cols ...string) *QueryOptions {
	o.Columns = cols
	return o
}

// WithOrder sets the ORDER BY expression.
func (o *QueryOptions) WithOrder(order string) *QueryOptions {
	o.Order = order
	return o
}

// WithLimit sets LIMIT.
func (o *QueryOptions) WithLimit(n int) *QueryOptions {
	o.Limit = &n
	return o
}

// WithOffset sets OFFSET.
func (o *QueryOptions) WithOffset(n int) *QueryOptions {
	o.Offset = &n
	return o
}

// Clone returns a copy that can be modified without touching o.
func (o *QueryOptions) Clone() *QueryOptions {
	if o == nil {
		return &QueryOptions{}
	}
	c := *o
	if o.Columns != nil {
		c.Columns = append([]string(nil), o.Columns...)
	}
	if o.Limit != nil {
		n := *o.Limit
		c.Limit = &n
	}
	if o.Offset != nil {
		n := *o.Offset
		c.Offset = &n
	}
	return &c
}

// SearchOptions configures a full-text search.
type SearchOptions struct {
	Columns []string // Columns concatenated into the search document
	Term    string   // Bound as a single parameter
	Where   Filter   // Optional extra criteria combined with AND
}

// Statement is a compiled SQL statement and its ordered parameters.
type Statement struct {
	SQL    string
	Params []any
}

// TableInfo is the metadata a table handle is constructed with.
type TableInfo struct {
	Name       string
	PrimaryKey string
}

// Page is the result of a paginated find.
type Page struct {
	Rows  []Row
	Total int64
}
