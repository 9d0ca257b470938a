package parser

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_HeaderKeyedRows(t *testing.T) {
	input := "\xEF\xBB\xBFnom,designation,Marque\n" +
		"Laptop Dell,\"Gaming Laptop, 16GB\",Dell\n" +
		"\n" +
		"\"\",\"\",\"\"\n" +
		"Mouse,\"Says \"\"hi\"\"\",  Logitech\n"

	table, err := NewCSVParser().Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"nom", "designation", "Marque"}, table.Headers)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "Gaming Laptop, 16GB", first.Get("designation"))
	assert.Equal(t, "Dell", first.Get("marque"))

	second := table.Rows[1]
	assert.Equal(t, 2, second.Index)
	assert.Equal(t, 5, second.Line)
	assert.Equal(t, `Says "hi"`, second.Get("DESIGNATION"))
	assert.Equal(t, "Logitech", second.Get("marque"))
	assert.False(t, second.Has("fournisseur"))
}

func TestParse_StructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bare quote", "name,phone\nJean \"Dupont,123\n"},
		{"unterminated quote", "name,phone\n\"Jean,123\n"},
		{"field count", "name,phone\nJean,123,extra\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCSVParser().Parse(strings.NewReader(tt.input))
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Contains(t, perr.Error(), "CSV parsing error")
		})
	}
}

func TestParse_EmptyFiles(t *testing.T) {
	for _, input := range []string{"", "name,phone\n", "name,phone\n\n,\n  ,  \n"} {
		_, err := NewCSVParser().Parse(strings.NewReader(input))
		assert.ErrorIs(t, err, ErrEmptyFile, "input %q", input)
	}
}

func TestParseInt(t *testing.T) {
	v, err := ParseInt(" 1,200 ", "quantite")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), v)

	v, err = ParseInt("10.0", "quantite")
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)

	_, err = ParseInt("2.5", "quantite")
	assert.Error(t, err)

	_, err = ParseInt("ten", "quantite")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "quantite", verr.Column)
}

func TestParseInt_OutOfRange(t *testing.T) {
	for _, in := range []string{"1e30", "9223372036854775808", "-9223372036854775809", "99999999999999999999.0"} {
		_, err := ParseInt(in, "quantite")
		assert.ErrorIs(t, err, ErrOutOfRange, in)
	}

	v, err := ParseInt("9223372036854775807", "quantite")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), v)

	v, err = ParseInt("1e3", "quantite")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), v)
}

func TestParseDecimal(t *testing.T) {
	tests := map[string]string{
		"1299.99":   "1299.99",
		"$1,299.99": "1299.99",
		"(45.10)":   "-45.1",
		"€ 12":      "12",
	}
	for in, want := range tests {
		got, err := ParseDecimal(in, "prixtva")
		require.NoError(t, err, in)
		assert.True(t, decimal.RequireFromString(want).Equal(got), "%s → %s", in, got)
	}

	_, err := ParseDecimal("abc", "prixtva")
	assert.Error(t, err)
}

func TestParseDecimal_OutOfRange(t *testing.T) {
	for _, in := range []string{"1e400", "-1e400"} {
		_, err := ParseDecimal(in, "prixtva")
		assert.ErrorIs(t, err, ErrOutOfRange, in)
	}

	got, err := ParseDecimal("1e10", "prixtva")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10000000000).Equal(got))
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-01-15", "1/15/2024", "01/15/2024", "2024-01-15T00:00:00"} {
		got, err := ParseDate(in, "orderDate")
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}

	_, err := ParseDate("15 janvier", "orderDate")
	assert.Error(t, err)
}
