// Package schema describes the four importable entities. Each schema is a
// field table: names, types, required markers and defaults. Row transforms
// read the table instead of falling back inline.
package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned for an entity type with no schema
var ErrUnknownKind = errors.New("unknown entity type")

// Kind selects an entity schema
type Kind string

const (
	KindProducts  Kind = "products"
	KindCustomers Kind = "customers"
	KindVendors   Kind = "vendors"
	KindReceipts  Kind = "receipts"
)

// Kinds lists every importable kind in display order
var Kinds = []Kind{KindProducts, KindCustomers, KindVendors, KindReceipts}

// ParseKind accepts plural or singular names, case-insensitively
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "products", "product":
		return KindProducts, nil
	case "customers", "customer":
		return KindCustomers, nil
	case "vendors", "vendor":
		return KindVendors, nil
	case "receipts", "receipt", "orders", "order":
		return KindReceipts, nil
	}
	return "", fmt.Errorf("%w: %q (expected products, customers, vendors or receipts)", ErrUnknownKind, s)
}

// FieldType drives coercion of the raw column value
type FieldType int

const (
	String FieldType = iota
	Integer
	Decimal
	Date
	JSONItems
)

// Field is one column of a schema
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	// Default is used, after coercion, when the column is absent or blank,
	// and when an optional numeric column fails to parse
	Default string
}

// Schema is the field table of one entity kind
type Schema struct {
	Kind   Kind
	Fields []Field
	// MissingRequired is the row error reported when any required field is blank
	MissingRequired string
	// Examples are the illustrative rows of the downloadable template
	Examples [][]string
	Filename string
}

// Columns returns the header row of the schema
func (s *Schema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Name
	}
	return cols
}

var schemas = map[Kind]*Schema{
	KindProducts: {
		Kind: KindProducts,
		Fields: []Field{
			{Name: "nom", Type: String, Required: true},
			{Name: "designation", Type: String, Required: true},
			{Name: "marque", Type: String},
			{Name: "fournisseur", Type: String},
			{Name: "quantite", Type: Integer, Default: "0"},
			{Name: "prixtva", Type: Decimal, Default: "0"},
		},
		MissingRequired: "Missing required fields: nom and designation are required",
		Examples: [][]string{
			{"Laptop Dell", "Gaming Laptop 16GB", "Dell", "ABC Tech", "10", "1299.99"},
			{"Wireless Mouse", "Ergonomic Wireless Mouse", "Logitech", "Tech Supplier", "25", "49.99"},
		},
		Filename: "product_import_template.csv",
	},
	KindCustomers: {
		Kind: KindCustomers,
		Fields: []Field{
			{Name: "name", Type: String, Required: true},
			{Name: "phone", Type: String},
			{Name: "address", Type: String},
			{Name: "status", Type: String, Default: "ACTIVE"},
			{Name: "creditLimit", Type: Decimal, Default: "0"},
			{Name: "outstandingBalance", Type: Decimal, Default: "0"},
			{Name: "notes", Type: String},
		},
		MissingRequired: "Missing required field: name",
		Examples: [][]string{
			{"Jean Dupont", "+33 1 23 45 67 89", "123 Rue de Paris", "ACTIVE", "5000.00", "1250.75", "Good customer"},
			{"Marie Martin", "+33 1 34 56 78 90", "456 Avenue des Champs", "ACTIVE", "3000.00", "0.00", "Regular client"},
		},
		Filename: "customer_import_template.csv",
	},
	KindVendors: {
		Kind: KindVendors,
		Fields: []Field{
			{Name: "name", Type: String, Required: true},
			{Name: "contactPerson", Type: String},
			{Name: "phone", Type: String},
			{Name: "status", Type: String, Default: "ACTIVE"},
			{Name: "leadTimeDays", Type: Integer, Default: "0"},
			{Name: "minimumOrderValue", Type: Decimal, Default: "0"},
			{Name: "notes", Type: String},
		},
		MissingRequired: "Missing required field: name",
		Examples: [][]string{
			{"ABC Electronics", "John Smith", "+33 1 23 45 67 89", "ACTIVE", "7", "1000.00", "Reliable supplier"},
			{"Tech Parts Inc", "Sarah Johnson", "+33 1 34 56 78 90", "ACTIVE", "5", "500.00", "Fast delivery"},
		},
		Filename: "vendor_import_template.csv",
	},
	KindReceipts: {
		Kind: KindReceipts,
		Fields: []Field{
			{Name: "customerName", Type: String, Required: true},
			{Name: "orderDate", Type: Date, Required: true},
			{Name: "totalPrice", Type: Decimal, Default: "0"},
			{Name: "items", Type: JSONItems, Default: "[]"},
		},
		MissingRequired: "Missing required fields: customerName and orderDate",
		Examples: [][]string{
			{"Jean Dupont", "2024-01-15", "1299.99", `[{"productId":1,"quantity":1}]`},
			{"Marie Martin", "2024-01-16", "149.98", `[{"productId":2,"quantity":3}]`},
		},
		Filename: "receipt_import_template.csv",
	},
}

// For returns the schema of kind
func For(kind Kind) (*Schema, error) {
	s, ok := schemas[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return s, nil
}

// RowError is a row-level failure. It never aborts an import.
type RowError struct {
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Reason)
}
