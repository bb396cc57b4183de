package query

import (
	"regexp"
	"strings"
)

var (
	// simpleIdentRe matches names that survive SQL case-folding unchanged.
	simpleIdentRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

	// plainIdentRe matches one undelimited identifier segment.
	plainIdentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)
)

// IsSimple reports whether name is a plain lowercase identifier.
func IsSimple(name string) bool {
	return simpleIdentRe.MatchString(name)
}

// IsQuoted reports whether name is already delimited with the dialect's
// quote character.
func IsQuoted(d Dialect, name string) bool {
	q := d.QuoteChar()
	return len(name) >= 2 && name[0] == q && name[len(name)-1] == q
}

// Resolve returns the SQL form of a column name. Case sensitivity is the
// caller's decision: a delimited name is kept verbatim and an undelimited
// one is kept as written, leaving case-folding to the database. Only
// surrounding whitespace is removed.
func Resolve(name string) string {
	return strings.TrimSpace(name)
}

// ResolveTable returns the SQL form of a table name taken from table
// metadata. Metadata names are the exact catalog spelling, so each segment
// of a (possibly schema-qualified) name that would be case-folded is
// delimited once; delimited and simple segments are kept.
func ResolveTable(d Dialect, name string) string {
	segments, ok := splitQualified(d, name)
	if !ok {
		if IsQuoted(d, name) || IsSimple(name) {
			return name
		}
		return d.Quote(name)
	}
	for i, s := range segments {
		if !IsQuoted(d, s) && !IsSimple(s) {
			segments[i] = d.Quote(s)
		}
	}
	return strings.Join(segments, ".")
}

// validColumn reports whether name can be used as a column reference in a
// condition: plain or delimited segments separated by dots.
func validColumn(d Dialect, name string) bool {
	segments, ok := splitQualified(d, name)
	if !ok {
		return false
	}
	for _, s := range segments {
		if !IsQuoted(d, s) && !plainIdentRe.MatchString(s) {
			return false
		}
	}
	return true
}

// splitQualified splits name on dots outside delimiters. It fails on an
// unterminated delimiter or an empty segment.
func splitQualified(d Dialect, name string) ([]string, bool) {
	q := d.QuoteChar()
	var (
		segments []string
		start    int
		inQuote  bool
	)
	for i := 0; i < len(name); i++ {
		switch c := name[i]; {
		case c == q:
			if inQuote && i+1 < len(name) && name[i+1] == q {
				i++
				continue
			}
			inQuote = !inQuote
		case c == '.' && !inQuote:
			segments = append(segments, name[start:i])
			start = i + 1
		}
	}
	if inQuote {
		return nil, false
	}
	segments = append(segments, name[start:])
	for _, s := range segments {
		if s == "" {
			return nil, false
		}
	}
	return segments, true
}
