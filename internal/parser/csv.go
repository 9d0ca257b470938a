package parser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type CSVParser struct {
	TrimWhitespace bool
	SkipEmptyRows  bool
}

func NewCSVParser() *CSVParser {
	return &CSVParser{
		TrimWhitespace: true,
		SkipEmptyRows:  true,
	}
}

// Parse reads a CSV whose first record is the header. Quoting is strict and
// every record must have as many fields as the header.
func (p *CSVParser) Parse(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.TrimLeadingSpace = p.TrimWhitespace
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, toParseError(err)
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(h)
	}
	colMap := buildColumnMap(headers)

	table := &Table{Headers: headers}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, toParseError(err)
		}

		if p.SkipEmptyRows && isBlank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		values := make(map[string]string, len(colMap))
		for name, idx := range colMap {
			v := record[idx]
			if p.TrimWhitespace {
				v = strings.TrimSpace(v)
			}
			values[name] = v
		}

		table.Rows = append(table.Rows, Row{
			Index:  len(table.Rows) + 1,
			Line:   line,
			values: values,
		})
	}

	if len(table.Rows) == 0 {
		return nil, ErrEmptyFile
	}

	return table, nil
}

// buildColumnMap creates a case-insensitive map of column name → index.
// Unnamed columns are ignored; on duplicates the first one wins.
func buildColumnMap(headers []string) map[string]int {
	m := make(map[string]int)
	for i, header := range headers {
		normalized := normalizeColumn(header)
		if normalized == "" {
			continue
		}
		if _, exists := m[normalized]; !exists {
			m[normalized] = i
		}
	}
	return m
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func toParseError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Line: csvErr.Line, Err: csvErr.Err}
	}
	return &ParseError{Err: fmt.Errorf("reading CSV: %w", err)}
}
