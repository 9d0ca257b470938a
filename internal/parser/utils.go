package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrOutOfRange marks a numeric cell that parses but does not fit the
// target type.
var ErrOutOfRange = errors.New("value out of range")

var (
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
)

// ParseInt parses an integer column. Thousands separators are accepted and
// so is a decimal with no fractional part ("10.0").
func ParseInt(s, column string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Column: column, Value: s, Err: fmt.Errorf("required field is empty")}
	}

	clean := strings.ReplaceAll(s, ",", "")
	if val, err := strconv.ParseInt(clean, 10, 64); err == nil {
		return val, nil
	}

	d, err := decimal.NewFromString(clean)
	if err != nil || !d.IsInteger() {
		return 0, &ValidationError{Column: column, Value: s, Err: fmt.Errorf("not an integer")}
	}
	if d.GreaterThan(maxInt64) || d.LessThan(minInt64) {
		return 0, &ValidationError{Column: column, Value: s, Err: ErrOutOfRange}
	}
	return d.IntPart(), nil
}

// ParseDecimal parses a currency/decimal column
func ParseDecimal(s, column string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &ValidationError{Column: column, Value: s, Err: fmt.Errorf("required field is empty")}
	}

	val, err := decimal.NewFromString(CleanCurrency(s))
	if err != nil {
		return decimal.Zero, &ValidationError{Column: column, Value: s, Err: err}
	}
	// Values are sent upstream as JSON numbers; anything float64 can't hold
	// would go out as +Inf.
	if f := val.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero, &ValidationError{Column: column, Value: s, Err: ErrOutOfRange}
	}
	return val, nil
}

// CleanCurrency removes currency symbols and thousands separators.
// Also handles accounting notation: (123.45) → -123.45
func CleanCurrency(s string) string {
	s = strings.TrimSpace(s)

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimPrefix(s, "(")
		s = strings.TrimSuffix(s, ")")
		s = strings.TrimSpace(s)
	}

	for _, sym := range []string{"$", "€", "£", ","} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(s)

	if isNegative && s != "" && s != "0" && s != "0.00" {
		s = "-" + s
	}

	return s
}

var dateFormats = []string{
	"2006-01-02", // ISO 8601
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",   // M/D/YYYY
	"01/02/2006", // MM/DD/YYYY
	"1-2-2006",   // M-D-YYYY
	"01-02-2006", // MM-DD-YYYY
}

// ParseDate handles multiple date formats
func ParseDate(s, column string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &ValidationError{Column: column, Value: s, Err: fmt.Errorf("required field is empty")}
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &ValidationError{Column: column, Value: s, Err: fmt.Errorf("invalid date format")}
}
