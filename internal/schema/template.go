package schema

import "strings"

// Template returns the download name and content of the import template for
// kind: the header, the example rows and one empty row to fill in. Every
// field is quoted.
func Template(kind Kind) (string, []byte, error) {
	s, err := For(kind)
	if err != nil {
		return "", nil, err
	}

	rows := make([][]string, 0, len(s.Examples)+1)
	rows = append(rows, s.Examples...)
	rows = append(rows, make([]string, len(s.Fields)))

	return s.Filename, encodeCSV(s.Columns(), rows, true), nil
}

// encodeCSV renders header and rows with "\n" between lines and no trailing
// newline. Data fields are always quoted with embedded quotes doubled; the
// header is quoted only when quoteHeader is set.
func encodeCSV(header []string, rows [][]string, quoteHeader bool) []byte {
	var b strings.Builder
	writeCSVLine(&b, header, quoteHeader)
	for _, row := range rows {
		b.WriteByte('\n')
		writeCSVLine(&b, row, true)
	}
	return []byte(b.String())
}

func writeCSVLine(b *strings.Builder, fields []string, quote bool) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		if !quote {
			b.WriteString(field)
			continue
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
}
