package query

import (
	"strconv"
	"strings"
)

// Renumber shifts every $n placeholder in a raw SQL fragment by offset.
// Placeholders inside string literals, delimited identifiers, dollar-quoted
// strings and line comments are left alone.
func Renumber(sql string, offset int) string {
	if offset == 0 || !strings.Contains(sql, "$") {
		return sql
	}
	var b strings.Builder
	b.Grow(len(sql) + 8)
	scanPlaceholders(sql, func(chunk string, n int) {
		if n == 0 {
			b.WriteString(chunk)
			return
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n + offset))
	})
	return b.String()
}

// MaxPlaceholder returns the highest $n index referenced by sql.
func MaxPlaceholder(sql string) int {
	highest := 0
	scanPlaceholders(sql, func(_ string, n int) {
		if n > highest {
			highest = n
		}
	})
	return highest
}

// scanPlaceholders walks sql and calls emit for every chunk of text. Chunks
// that are placeholders carry their index, all other chunks carry zero.
func scanPlaceholders(sql string, emit func(chunk string, n int)) {
	start := 0
	flush := func(end int) {
		if end > start {
			emit(sql[start:end], 0)
		}
		start = end
	}
	for i := 0; i < len(sql); {
		switch c := sql[i]; {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(sql, i, c)
		case c == '-' && strings.HasPrefix(sql[i:], "--"):
			if nl := strings.IndexByte(sql[i:], '\n'); nl >= 0 {
				i += nl + 1
			} else {
				i = len(sql)
			}
		case c == '$':
			j := i + 1
			for j < len(sql) && sql[j] >= '0' && sql[j] <= '9' {
				j++
			}
			if j > i+1 {
				n, _ := strconv.Atoi(sql[i+1 : j])
				flush(i)
				emit(sql[i:j], n)
				start = j
				i = j
				continue
			}
			i = skipDollarQuoted(sql, i)
		default:
			i++
		}
	}
	flush(len(sql))
}

// skipQuoted returns the index just past the quoted section opened at i.
// A doubled delimiter is an escaped delimiter.
func skipQuoted(sql string, i int, q byte) int {
	for j := i + 1; j < len(sql); j++ {
		if sql[j] != q {
			continue
		}
		if j+1 < len(sql) && sql[j+1] == q {
			j++
			continue
		}
		return j + 1
	}
	return len(sql)
}

// skipDollarQuoted skips a $tag$...$tag$ string opened at i. A lone '$' is
// consumed as a single character.
func skipDollarQuoted(sql string, i int) int {
	end := strings.IndexByte(sql[i+1:], '$')
	if end < 0 {
		return i + 1
	}
	tag := sql[i : i+end+2]
	for _, r := range tag[1 : len(tag)-1] {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return i + 1
		}
	}
	body := i + len(tag)
	if j := strings.Index(sql[body:], tag); j >= 0 {
		return body + j + len(tag)
	}
	return len(sql)
}
