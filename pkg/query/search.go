package query

import (
	"strings"

	"github.com/asaidimu/tablequery/pkg/core"
)

// Search compiles a full-text predicate over search.Columns. The term is
// always exactly one parameter; splitting it into words is left to the
// database. search.Where is ignored here, see Generator.Search.
func Search(d Dialect, search core.SearchOptions, start int) (Predicate, error) {
	if start < 1 {
		start = 1
	}
	columns := make([]string, 0, len(search.Columns))
	for _, c := range search.Columns {
		c = Resolve(c)
		if c == "" {
			continue
		}
		if !validColumn(d, c) {
			return Predicate{}, core.NewMalformedCriteriaError(c, "invalid search column")
		}
		columns = append(columns, c)
	}
	if len(columns) == 0 {
		return Predicate{}, core.NewMalformedCriteriaError("", "search requires at least one column")
	}
	if strings.TrimSpace(search.Term) == "" {
		return Predicate{}, core.NewMalformedCriteriaError("", "search requires a term")
	}
	p := Predicate{Next: start}
	ph := p.bind(d, search.Term)
	p.Fragment = d.SearchPredicate(columns, ph)
	return p, nil
}
