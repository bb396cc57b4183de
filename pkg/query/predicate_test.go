package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaidimu/tablequery/pkg/core"
)

var pg = PostgresDialect{}

func TestCompileNoFilter(t *testing.T) {
	for name, f := range map[string]core.Filter{
		"nil":      nil,
		"empty":    core.Criteria{},
		"emptyRaw": core.RawSQL("  "),
	} {
		t.Run(name, func(t *testing.T) {
			p, err := Compile(pg, f, 1, "id")
			require.NoError(t, err)
			assert.True(t, p.Empty())
			assert.Empty(t, p.Params)
			assert.Equal(t, 1, p.Next)
		})
	}

	p, err := Compile(pg, nil, 4, "id")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Next)
}

func TestCompileCriteria(t *testing.T) {
	tests := []struct {
		name     string
		criteria core.Criteria
		fragment string
		params   []any
	}{
		{
			name:     "Equality",
			criteria: core.Where("id", 1),
			fragment: "id = $1",
			params:   []any{1},
		},
		{
			name:     "GreaterThan",
			criteria: core.Where("id > ", 2),
			fragment: "id > $1",
			params:   []any{2},
		},
		{
			name:     "In",
			criteria: core.Where("id", []int{1, 2}),
			fragment: "id IN ($1,$2)",
			params:   []any{1, 2},
		},
		{
			name:     "NotIn",
			criteria: core.Where("id <>", []any{1, 2}),
			fragment: "id NOT IN ($1,$2)",
			params:   []any{1, 2},
		},
		{
			name:     "EmptyIn",
			criteria: core.Where("id", []any{}),
			fragment: "1=0",
		},
		{
			name:     "EmptyNotIn",
			criteria: core.Where("id <>", []any{}),
			fragment: "1=1",
		},
		{
			name:     "IsNull",
			criteria: core.Where("deleted_at", nil),
			fragment: "deleted_at IS NULL",
		},
		{
			name:     "IsNotNull",
			criteria: core.Where("deleted_at <>", nil),
			fragment: "deleted_at IS NOT NULL",
		},
		{
			name:     "MultipleKeysKeepOrder",
			criteria: core.Where("price >=", 10, "id", []any{1, 2, 3}, "deleted_at", nil, "name <>", "x"),
			fragment: "price >= $1 AND id IN ($2,$3,$4) AND deleted_at IS NULL AND name <> $5",
			params:   []any{10, 1, 2, 3, "x"},
		},
		{
			name:     "QuotedColumn",
			criteria: core.Where(`"Email"`, "a@b.c"),
			fragment: `"Email" = $1`,
			params:   []any{"a@b.c"},
		},
		{
			name:     "QualifiedColumn",
			criteria: core.Where(`products.id <`, 3),
			fragment: `products.id < $1`,
			params:   []any{3},
		},
		{
			name:     "BangEqualsAlias",
			criteria: core.Where("id !=", 3),
			fragment: "id <> $1",
			params:   []any{3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(pg, tt.criteria, 1, "id")
			require.NoError(t, err)
			assert.Equal(t, tt.fragment, p.Fragment)
			assert.Equal(t, tt.params, p.Params)
			assert.Equal(t, 1+len(tt.params), p.Next)
		})
	}
}

func TestCompileStartIndex(t *testing.T) {
	p, err := Compile(pg, core.Where("a", 1, "b", []any{2, 3}), 3, "")
	require.NoError(t, err)
	assert.Equal(t, "a = $3 AND b IN ($4,$5)", p.Fragment)
	assert.Equal(t, 6, p.Next)
}

func TestCompileParamCountMatchesPlaceholders(t *testing.T) {
	criteria := core.Where(
		"a", 1,
		"b <>", []any{"x", "y", "z"},
		"c", nil,
		"d >", 4.5,
		"e <>", nil,
		"f", []any{},
	)
	p, err := Compile(pg, criteria, 1, "")
	require.NoError(t, err)
	assert.Len(t, p.Params, 5)
	assert.Equal(t, len(p.Params), MaxPlaceholder(p.Fragment))
}

func TestCompileIsDeterministic(t *testing.T) {
	criteria := core.FromMap(map[string]any{"z": 1, "a <>": []any{1, 2}, "m >": 3, "k": nil})
	first, err := Compile(pg, criteria, 2, "id")
	require.NoError(t, err)
	second, err := Compile(pg, criteria, 2, "id")
	require.NoError(t, err)
	assert.Equal(t, first.Fragment, second.Fragment)
	assert.Equal(t, first.Params, second.Params)
}

func TestCompilePrimaryKey(t *testing.T) {
	p, err := Compile(pg, core.ID(7), 1, "product_id")
	require.NoError(t, err)
	assert.Equal(t, "product_id = $1", p.Fragment)
	assert.Equal(t, []any{7}, p.Params)

	_, err = Compile(pg, core.ID(7), 1, "")
	assert.True(t, errors.Is(err, core.ErrMalformedCriteria))
}

func TestCompileRaw(t *testing.T) {
	p, err := Compile(pg, core.RawSQL("id=$1 OR id=$2", []any{1, 2}), 1, "id")
	require.NoError(t, err)
	assert.Equal(t, "id=$1 OR id=$2", p.Fragment)
	assert.Equal(t, []any{1, 2}, p.Params)
	assert.Equal(t, 3, p.Next)

	p, err = Compile(pg, core.RawSQL("id=$1", 1), 3, "id")
	require.NoError(t, err)
	assert.Equal(t, "id=$3", p.Fragment)
	assert.Equal(t, []any{1}, p.Params)
	assert.Equal(t, 4, p.Next)
}

func TestCompileRawPlaceholderMismatch(t *testing.T) {
	tests := map[string]core.Raw{
		"TooFewParams":     core.RawSQL("a=$1 AND b=$2", 1),
		"TooManyParams":    core.RawSQL("a=$1", 1, 2),
		"NoPlaceholders":   core.RawSQL("a=1", 1),
		"EmptyWithParams":  core.RawSQL("  ", 1),
		"QuotedDollarOnly": core.RawSQL("a='$1'", 1),
	}
	for name, r := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Compile(pg, r, 3, "id")
			assert.True(t, errors.Is(err, core.ErrMalformedCriteria), "got %v", err)
		})
	}

	p, err := Compile(pg, core.RawSQL("a=$1 OR b=$1", 1), 1, "id")
	require.NoError(t, err)
	assert.Equal(t, "a=$1 OR b=$1", p.Fragment)
	assert.Equal(t, 2, p.Next)
}

func TestCompileTypedNil(t *testing.T) {
	p, err := Compile(pg, core.Where("id", (*int)(nil), "note <>", []byte(nil)), 1, "id")
	require.NoError(t, err)
	assert.Equal(t, "id IS NULL AND note IS NOT NULL", p.Fragment)
	assert.Empty(t, p.Params)
	assert.Equal(t, 1, p.Next)
}

func TestCompileQualifiedQuotedColumn(t *testing.T) {
	p, err := Compile(pg, core.Where(`t."First Name"`, "Ann", `t."Last Name" ~~`, "Lee"), 1, "id")
	require.NoError(t, err)
	assert.Equal(t, `t."First Name" = $1 AND t."Last Name" = $2`, p.Fragment)
	require.Len(t, p.Lenient, 1)
	assert.Equal(t, "~~", p.Lenient[0].Unrecognized)
}

func TestCompileMalformed(t *testing.T) {
	tests := map[string]core.Criteria{
		"EmptyKey":         core.Where("", 1),
		"OperatorOnly":     core.Where(">=", 1),
		"ComparisonList":   core.Where("id >", []any{1, 2}),
		"NonUniformList":   core.Where("id", []any{1, map[string]any{}}),
		"Injection":        core.Where("id; DROP TABLE x --", 1),
		"Expression":       core.Where("lower(name)", "x"),
		"UnterminatedName": core.Where(`"Email`, "x"),
		"MapValue":         core.Where("id", map[string]any{"a": 1}),
		"StructValue":      core.Where("id", struct{ A int }{1}),
	}
	for name, c := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Compile(pg, c, 1, "id")
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrMalformedCriteria), "got %v", err)
		})
	}
}

func TestCompileLenientOperator(t *testing.T) {
	for _, key := range []string{"id ~~", "id~~"} {
		p, err := Compile(pg, core.Where(key, 3), 1, "id")
		require.NoError(t, err)
		assert.Equal(t, "id = $1", p.Fragment)
		require.Len(t, p.Lenient, 1)
		assert.Equal(t, "~~", p.Lenient[0].Unrecognized)
	}
}

func TestAnd(t *testing.T) {
	where, err := Compile(pg, core.RawSQL("id=$1 OR id=$2", 1, 2), 1, "id")
	require.NoError(t, err)
	match, err := Search(pg, core.SearchOptions{Columns: []string{"name"}, Term: "Product"}, where.Next)
	require.NoError(t, err)

	p := And(where, match)
	assert.Equal(t, "(id=$1 OR id=$2) AND (to_tsvector(concat_ws(' ', name)) @@ plainto_tsquery($3))", p.Fragment)
	assert.Equal(t, []any{1, 2, "Product"}, p.Params)
	assert.Equal(t, 4, p.Next)

	single := And(Predicate{Next: 1}, match)
	assert.Equal(t, match.Fragment, single.Fragment)

	assert.True(t, And().Empty())
}

func TestCompileMySQLPlaceholders(t *testing.T) {
	p, err := Compile(MySQLDialect{}, core.Where("id", []any{1, 2}, "name", "x"), 1, "id")
	require.NoError(t, err)
	assert.Equal(t, "id IN (?,?) AND name = ?", p.Fragment)
	assert.Equal(t, 4, p.Next)
}
