package core

import (
	"database/sql/driver"
	"reflect"
	"strings"
	"time"
)

// operatorTokens are matched against the end of a condition key, longest
// first so "<" never wins over "<>".
var operatorTokens = []struct {
	token string
	op    Operator
}{
	{"<>", OperatorNeq},
	{"!=", OperatorNeq},
	{">=", OperatorGte},
	{"<=", OperatorLte},
	{">", OperatorGt},
	{"<", OperatorLt},
	{"=", OperatorEq},
}

// Condition is a parsed condition key with its bound value.
type Condition struct {
	Key      string // The key as supplied
	Column   string // Column name, untouched
	Operator Operator
	Value    any

	// Unrecognized holds a trailing token that was not an operator. The
	// condition falls back to equality when it is set.
	Unrecognized string
}

// ParseKey splits a condition key into column and operator. A key without an
// operator token compares with "=". A trailing word after whitespace, or a
// trailing run of operator punctuation such as "~~", is kept in Unrecognized
// and the condition compares with "=".
func ParseKey(key string) (Condition, error) {
	c := Condition{Key: key, Operator: OperatorEq}
	trimmed := strings.TrimSpace(key)
	matched := false
	for _, t := range operatorTokens {
		if strings.HasSuffix(trimmed, t.token) {
			c.Column = strings.TrimSpace(strings.TrimSuffix(trimmed, t.token))
			c.Operator = t.op
			matched = true
			break
		}
	}
	if !matched {
		c.Column, c.Unrecognized = splitToken(trimmed)
	}
	if c.Column == "" {
		return Condition{}, NewMalformedCriteriaError(key, "missing column name")
	}
	return c, nil
}

// splitToken separates a trailing unrecognized token from the column. Only
// whitespace outside delimited identifiers separates words.
func splitToken(s string) (column, token string) {
	var quote byte
	last := -1
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '`':
			quote = c
		case c == ' ' || c == '\t' || c == '\n':
			last = i
		}
	}
	if last >= 0 {
		return strings.TrimSpace(s[:last]), s[last+1:]
	}
	i := len(s)
	for i > 0 && strings.IndexByte(operatorPunct, s[i-1]) >= 0 {
		i--
	}
	if i > 0 && i < len(s) {
		return s[:i], s[i:]
	}
	return s, ""
}

// operatorPunct are the characters an operator-like suffix is made of.
const operatorPunct = "~!@#%^&*+-/|?:<>="

// Bind attaches value to the condition and resolves the final operator:
// "=" against a list becomes IN and "<>" becomes NOT IN. Any other operator
// against a list is rejected, as is any operator other than "=" and "<>"
// against nil.
func (c Condition) Bind(value any) (Condition, error) {
	if isNull(value) {
		value = nil
	}
	c.Value = value
	if value == nil {
		switch c.Operator {
		case OperatorEq, OperatorNeq:
			return c, nil
		}
		return Condition{}, NewMalformedCriteriaError(c.Key, "operator %s cannot compare with NULL", c.Operator)
	}
	list, ok := AsList(value)
	if !ok {
		if !IsScalar(value) {
			return Condition{}, NewMalformedCriteriaError(c.Key, "value is not a scalar (%T)", value)
		}
		return c, nil
	}
	switch c.Operator {
	case OperatorEq:
		c.Operator = OperatorIn
	case OperatorNeq:
		c.Operator = OperatorNotIn
	default:
		return Condition{}, NewMalformedCriteriaError(c.Key, "operator %s does not accept a list value", c.Operator)
	}
	for i, v := range list {
		if !IsScalar(v) {
			return Condition{}, NewMalformedCriteriaError(c.Key, "list element %d is not a scalar (%T)", i, v)
		}
	}
	c.Value = list
	return c, nil
}

// isNull reports whether v stands for SQL NULL: untyped nil, a nil pointer
// or a nil []byte.
func isNull(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case []byte:
		return v == nil
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// AsList reports whether v is a list value and returns its elements.
// []byte and driver.Valuer implementations are scalars, not lists.
func AsList(v any) ([]any, bool) {
	switch v := v.(type) {
	case nil, []byte, driver.Valuer:
		return nil, false
	case []any:
		return v, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// IsScalar reports whether v can be bound as a single parameter.
func IsScalar(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case []byte, driver.Valuer, time.Time:
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct, reflect.Func, reflect.Chan:
		return false
	}
	return true
}
