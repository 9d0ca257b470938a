package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/datsun80zx/stockdesk/internal/models"
)

// ErrNothingToExport is returned for an empty entity list
var ErrNothingToExport = errors.New("no data to export")

// ErrInvalidEntity wraps a field constraint violation of an edited entity
var ErrInvalidEntity = errors.New("invalid entity")

// ExportFilename is the download name of an export of kind taken at now,
// e.g. products_export_2024-01-15.csv
func ExportFilename(kind Kind, now time.Time) string {
	return fmt.Sprintf("%s_export_%s.csv", kind, now.Format("2006-01-02"))
}

// ExportColumns is "id" followed by the import columns of kind, so an export
// can be edited and imported again
func ExportColumns(kind Kind) ([]string, error) {
	s, err := For(kind)
	if err != nil {
		return nil, err
	}
	return append([]string{"id"}, s.Columns()...), nil
}

// Export renders entities, a []models.Product, []models.Customer,
// []models.Vendor or []models.Receipt matching kind, as CSV. The header is
// bare and every value is quoted.
func Export(kind Kind, entities any) ([]byte, error) {
	header, err := ExportColumns(kind)
	if err != nil {
		return nil, err
	}

	rows, err := records(kind, entities)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNothingToExport
	}

	return encodeCSV(header, rows, false), nil
}

func records(kind Kind, entities any) ([][]string, error) {
	var rows [][]string

	switch list := entities.(type) {
	case []models.Product:
		if kind != KindProducts {
			break
		}
		for _, p := range list {
			rows = append(rows, []string{
				formatInt(p.ID), p.Nom, p.Designation, p.Marque, p.Fournisseur,
				formatInt(p.Quantite), formatFloat(p.PrixTVA),
			})
		}
		return rows, nil
	case []models.Customer:
		if kind != KindCustomers {
			break
		}
		for _, c := range list {
			rows = append(rows, []string{
				formatInt(c.ID), c.Name, c.Phone, c.Address, c.Status,
				formatFloat(c.CreditLimit), formatFloat(c.OutstandingBalance), c.Notes,
			})
		}
		return rows, nil
	case []models.Vendor:
		if kind != KindVendors {
			break
		}
		for _, v := range list {
			rows = append(rows, []string{
				formatInt(v.ID), v.Name, v.ContactPerson, v.Phone, v.Status,
				formatInt(v.LeadTimeDays), formatFloat(v.MinimumOrderValue), v.Notes,
			})
		}
		return rows, nil
	case []models.Receipt:
		if kind != KindReceipts {
			break
		}
		for _, r := range list {
			items := r.Items
			if items == nil {
				items = []models.ReceiptItem{}
			}
			encoded, err := json.Marshal(items)
			if err != nil {
				return nil, fmt.Errorf("encoding items of receipt %d: %w", r.ID, err)
			}
			rows = append(rows, []string{
				formatInt(r.ID), r.CustomerName, r.OrderDate, formatFloat(r.TotalPrice), string(encoded),
			})
		}
		return rows, nil
	}

	return nil, fmt.Errorf("cannot export %T as %s", entities, kind)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Validate checks the field constraints of an edited entity, the same ones
// Transform applies to imported rows
func Validate(entity any) error {
	if err := validate.Struct(entity); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEntity, describeValidation(err))
	}
	return nil
}
