package query

import (
	"fmt"
	"strings"

	"github.com/asaidimu/tablequery/pkg/core"
)

// Predicate is a compiled WHERE fragment. An empty Fragment means the
// statement has no WHERE clause at all.
type Predicate struct {
	Fragment string
	Params   []any
	Next     int // Index of the next free placeholder

	// Lenient lists conditions whose key carried an unrecognized operator
	// token and were compiled as equality.
	Lenient []core.Condition
}

// Empty reports whether the predicate contributes no WHERE clause.
func (p Predicate) Empty() bool { return p.Fragment == "" }

// Compile turns a filter into a WHERE fragment whose placeholders start at
// start. pk names the primary key column used by the PrimaryKey form.
func Compile(d Dialect, f core.Filter, start int, pk string) (Predicate, error) {
	if start < 1 {
		start = 1
	}
	switch f := f.(type) {
	case nil:
		return Predicate{Next: start}, nil
	case core.Criteria:
		return compileCriteria(d, f, start)
	case core.PrimaryKey:
		if pk == "" {
			return Predicate{}, core.NewMalformedCriteriaError("", "table has no primary key for scalar criteria")
		}
		return compileCriteria(d, core.Criteria{{Key: pk, Value: f.Value}}, start)
	case core.Raw:
		return compileRaw(f, start)
	default:
		return Predicate{}, core.NewMalformedCriteriaError("", "unsupported filter type %T", f)
	}
}

func compileCriteria(d Dialect, c core.Criteria, start int) (Predicate, error) {
	p := Predicate{Next: start}
	if len(c) == 0 {
		return p, nil
	}
	fragments := make([]string, 0, len(c))
	for _, pair := range c {
		cond, err := core.ParseKey(pair.Key)
		if err != nil {
			return Predicate{}, err
		}
		cond.Column = Resolve(cond.Column)
		if !validColumn(d, cond.Column) {
			return Predicate{}, core.NewMalformedCriteriaError(pair.Key, "invalid column name %q", cond.Column)
		}
		cond, err = cond.Bind(pair.Value)
		if err != nil {
			return Predicate{}, err
		}
		if cond.Unrecognized != "" {
			p.Lenient = append(p.Lenient, cond)
		}
		fragments = append(fragments, p.condition(d, cond))
	}
	p.Fragment = strings.Join(fragments, " AND ")
	return p, nil
}

// condition renders a bound condition and appends its parameters.
func (p *Predicate) condition(d Dialect, c core.Condition) string {
	switch {
	case c.Value == nil && c.Operator == core.OperatorNeq:
		return c.Column + " IS NOT NULL"
	case c.Value == nil:
		return c.Column + " IS NULL"
	case c.Operator == core.OperatorIn || c.Operator == core.OperatorNotIn:
		list := c.Value.([]any)
		if len(list) == 0 {
			// IN () is not valid SQL.
			if c.Operator == core.OperatorIn {
				return "1=0"
			}
			return "1=1"
		}
		placeholders := make([]string, len(list))
		for i, v := range list {
			placeholders[i] = p.bind(d, v)
		}
		return fmt.Sprintf("%s %s (%s)", c.Column, c.Operator, strings.Join(placeholders, ","))
	default:
		return fmt.Sprintf("%s %s %s", c.Column, c.Operator, p.bind(d, c.Value))
	}
}

// bind appends v to the parameter list and returns its placeholder.
func (p *Predicate) bind(d Dialect, v any) string {
	p.Params = append(p.Params, v)
	ph := d.Placeholder(p.Next)
	p.Next++
	return ph
}

// compileRaw renumbers a raw fragment to start at start. The highest $n it
// references must equal the number of parameters supplied.
func compileRaw(r core.Raw, start int) (Predicate, error) {
	sql := strings.TrimSpace(r.SQL)
	params := core.Params(r.Params...)
	if n := MaxPlaceholder(sql); n != len(params) {
		return Predicate{}, core.NewMalformedCriteriaError(sql,
			"raw expression references %d placeholders but %d parameters were given", n, len(params))
	}
	if sql == "" {
		return Predicate{Next: start}, nil
	}
	return Predicate{
		Fragment: Renumber(sql, start-1),
		Params:   append([]any(nil), params...),
		Next:     start + len(params),
	}, nil
}

// And combines predicates compiled with consecutive placeholder ranges.
// Each fragment is parenthesised when more than one is present so that a
// raw OR expression keeps its meaning.
func And(preds ...Predicate) Predicate {
	var (
		out       Predicate
		fragments []string
	)
	for _, p := range preds {
		out.Params = append(out.Params, p.Params...)
		out.Lenient = append(out.Lenient, p.Lenient...)
		if p.Next > out.Next {
			out.Next = p.Next
		}
		if !p.Empty() {
			fragments = append(fragments, p.Fragment)
		}
	}
	switch len(fragments) {
	case 0:
	case 1:
		out.Fragment = fragments[0]
	default:
		out.Fragment = "(" + strings.Join(fragments, ") AND (") + ")"
	}
	return out
}
