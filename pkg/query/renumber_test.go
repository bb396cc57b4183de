package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenumber(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		offset int
		want   string
	}{
		{"NoOffset", "id=$1", 0, "id=$1"},
		{"Simple", "id=$1 OR id=$2", 2, "id=$3 OR id=$4"},
		{"MultiDigit", "a=$10 AND b=$9", 1, "a=$11 AND b=$10"},
		{"Repeated", "a=$1 OR b=$1", 3, "a=$4 OR b=$4"},
		{"StringLiteral", "name='$1' AND id=$1", 1, "name='$1' AND id=$2"},
		{"EscapedQuote", "name='it''s $1' AND id=$1", 1, "name='it''s $1' AND id=$2"},
		{"QuotedIdentifier", `"$1col"=$1`, 1, `"$1col"=$2`},
		{"DollarQuoted", "body=$$ $1 $$ AND id=$1", 1, "body=$$ $1 $$ AND id=$2"},
		{"TaggedDollarQuoted", "body=$tag$ $1 $tag$ AND id=$1", 1, "body=$tag$ $1 $tag$ AND id=$2"},
		{"LineComment", "id=$1 -- $1\nAND x=$2", 1, "id=$2 -- $1\nAND x=$3"},
		{"LoneDollar", "price > $ 5 AND id=$1", 1, "price > $ 5 AND id=$2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Renumber(tt.sql, tt.offset))
		})
	}
}

func TestMaxPlaceholder(t *testing.T) {
	assert.Equal(t, 0, MaxPlaceholder("id = 1"))
	assert.Equal(t, 2, MaxPlaceholder("id=$1 OR id=$2"))
	assert.Equal(t, 12, MaxPlaceholder("a=$12 AND b=$3 AND c='$40'"))
}
