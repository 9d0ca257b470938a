package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/datsun80zx/stockdesk/internal/models"
	"github.com/datsun80zx/stockdesk/internal/parser"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// OrderDateLayout is the LocalDateTime form the backend expects
const OrderDateLayout = "2006-01-02T00:00:00"

const invalidItems = "Invalid items format - must be valid JSON array"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Transform maps one raw row to the entity of kind. It is pure: the result is
// one of *models.Product, *models.Customer, *models.Vendor, *models.Receipt,
// or a *RowError.
func Transform(kind Kind, row parser.Row) (any, error) {
	s, err := For(kind)
	if err != nil {
		return nil, &RowError{Row: row.Index, Reason: err.Error()}
	}

	vals, reason := resolve(s, row)
	if reason != "" {
		return nil, &RowError{Row: row.Index, Reason: reason}
	}

	var entity any
	switch kind {
	case KindProducts:
		entity = &models.Product{
			Nom:         vals.str("nom"),
			Designation: vals.str("designation"),
			Marque:      vals.str("marque"),
			Fournisseur: vals.str("fournisseur"),
			Quantite:    vals.int("quantite"),
			PrixTVA:     vals.float("prixtva"),
		}
	case KindCustomers:
		entity = &models.Customer{
			Name:               vals.str("name"),
			Phone:              vals.str("phone"),
			Address:            vals.str("address"),
			Status:             vals.str("status"),
			CreditLimit:        vals.float("creditLimit"),
			OutstandingBalance: vals.float("outstandingBalance"),
			Notes:              vals.str("notes"),
		}
	case KindVendors:
		entity = &models.Vendor{
			Name:              vals.str("name"),
			ContactPerson:     vals.str("contactPerson"),
			Phone:             vals.str("phone"),
			Status:            vals.str("status"),
			LeadTimeDays:      vals.int("leadTimeDays"),
			MinimumOrderValue: vals.float("minimumOrderValue"),
			Notes:             vals.str("notes"),
		}
	case KindReceipts:
		entity = &models.Receipt{
			CustomerName: vals.str("customerName"),
			OrderDate:    vals.str("orderDate"),
			TotalPrice:   vals.float("totalPrice"),
			Items:        vals.items("items"),
		}
	}

	if err := validate.Struct(entity); err != nil {
		return nil, &RowError{Row: row.Index, Reason: describeValidation(err)}
	}

	return entity, nil
}

type resolved map[string]any

func (r resolved) str(name string) string {
	s, _ := r[name].(string)
	return s
}

func (r resolved) int(name string) int64 {
	n, _ := r[name].(int64)
	return n
}

func (r resolved) float(name string) float64 {
	d, _ := r[name].(decimal.Decimal)
	return d.InexactFloat64()
}

func (r resolved) items(name string) []models.ReceiptItem {
	items, _ := r[name].([]models.ReceiptItem)
	if items == nil {
		return []models.ReceiptItem{}
	}
	return items
}

// resolve coerces every field of the row, applying defaults. A non-empty
// reason means the row fails.
func resolve(s *Schema, row parser.Row) (resolved, string) {
	for _, f := range s.Fields {
		if f.Required && !row.Has(f.Name) {
			return nil, s.MissingRequired
		}
	}

	vals := make(resolved, len(s.Fields))
	for _, f := range s.Fields {
		raw := row.Get(f.Name)
		if raw == "" {
			v, err := coerce(f, f.Default)
			if err != nil {
				return nil, fmt.Sprintf("Invalid default for %s: %v", f.Name, err)
			}
			vals[f.Name] = v
			continue
		}

		v, err := coerce(f, raw)
		if err == nil {
			vals[f.Name] = v
			continue
		}

		switch {
		case f.Type == JSONItems:
			return nil, invalidItems
		case f.Required || f.Type == Date:
			return nil, fmt.Sprintf("Invalid %s: %v", f.Name, unwrapValidation(err))
		default:
			// optional numeric columns fall back to their default
			v, _ = coerce(f, f.Default)
			vals[f.Name] = v
		}
	}

	return vals, ""
}

func coerce(f Field, raw string) (any, error) {
	switch f.Type {
	case Integer:
		if raw == "" {
			return int64(0), nil
		}
		return parser.ParseInt(raw, f.Name)
	case Decimal:
		if raw == "" {
			return decimal.Zero, nil
		}
		return parser.ParseDecimal(raw, f.Name)
	case Date:
		if raw == "" {
			return "", nil
		}
		t, err := parser.ParseDate(raw, f.Name)
		if err != nil {
			return nil, err
		}
		return t.Format(OrderDateLayout), nil
	case JSONItems:
		return parseItems(raw)
	default:
		return raw, nil
	}
}

func parseItems(raw string) ([]models.ReceiptItem, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []models.ReceiptItem{}, nil
	}
	var items []models.ReceiptItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func unwrapValidation(err error) error {
	var verr *parser.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("%q: %w", verr.Value, verr.Err)
	}
	return err
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("Invalid %s: must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("Invalid %s: must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("Invalid %s: must be one of %s", field, fe.Param())
	default:
		return fmt.Sprintf("Invalid %s: failed %s check", field, fe.Tag())
	}
}
