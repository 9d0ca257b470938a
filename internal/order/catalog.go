// Package order composes sales orders against a snapshot of the product
// catalog. The snapshot is taken once per draft; the backend remains the
// authority on stock when the order is submitted.
package order

import (
	"github.com/datsun80zx/stockdesk/internal/models"
	"github.com/shopspring/decimal"
)

// CatalogItem is the read-only stock view of one product
type CatalogItem struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Available int64           `json:"availableQuantity"`
}

// Catalog is a product stock snapshot
type Catalog struct {
	Items []CatalogItem `json:"items"`
}

// NewCatalog builds a snapshot from the backend product listing
func NewCatalog(products []models.Product) Catalog {
	items := make([]CatalogItem, 0, len(products))
	for _, p := range products {
		items = append(items, CatalogItem{
			ID:        p.ID,
			Name:      p.Nom,
			UnitPrice: decimal.NewFromFloat(p.PrixTVA),
			Available: p.Quantite,
		})
	}
	return Catalog{Items: items}
}

// Lookup finds a product by id
func (c Catalog) Lookup(id int64) (CatalogItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CatalogItem{}, false
}

// CustomerRef is an entry of the customer picker
type CustomerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewCustomerRefs builds the picker list from the backend customer listing
func NewCustomerRefs(customers []models.Customer) []CustomerRef {
	refs := make([]CustomerRef, 0, len(customers))
	for _, c := range customers {
		refs = append(refs, CustomerRef{ID: c.ID, Name: c.Name})
	}
	return refs
}
