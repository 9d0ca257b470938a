package parser

import "strings"

// Table is a parsed CSV file
type Table struct {
	Headers []string
	Rows    []Row
}

// Row is one data record keyed by header
type Row struct {
	// Index is the 1-based position among data rows, blank rows excluded
	Index int
	// Line is the file line the record started on
	Line int

	values map[string]string
}

// NewRow builds a row from a column → value mapping. Column names are
// matched case-insensitively.
func NewRow(index int, values map[string]string) Row {
	m := make(map[string]string, len(values))
	for k, v := range values {
		m[normalizeColumn(k)] = v
	}
	return Row{Index: index, values: m}
}

// Get returns the trimmed value of column, or "" when absent
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.values[normalizeColumn(column)])
}

// Has reports whether the column exists and is non-blank
func (r Row) Has(column string) bool {
	return r.Get(column) != ""
}

// Values returns a copy of the raw mapping
func (r Row) Values() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
