package order

import "github.com/shopspring/decimal"

// Line is one product of an order in progress. A cart holds at most one
// line per product.
type Line struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
}

// Subtotal is UnitPrice × Quantity
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Cart holds the lines and their running total. Total is only ever changed
// by Add and Remove and always equals the sum of line subtotals.
type Cart struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"totalPrice"`
}

// QuantityOf returns the quantity already in the cart for a product
func (c *Cart) QuantityOf(productID int64) int64 {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

// Remaining is how many more units of a product may be added
func (c *Cart) Remaining(catalog Catalog, productID int64) (int64, error) {
	item, ok := catalog.Lookup(productID)
	if !ok {
		return 0, ErrUnknownProduct
	}
	remaining := item.Available - c.QuantityOf(productID)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// Add puts qty units of a product in the cart, merging with an existing
// line. It is rejected with a *StockError when the cart would then hold more
// than the catalog's available quantity.
func (c *Cart) Add(catalog Catalog, productID, qty int64) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	item, ok := catalog.Lookup(productID)
	if !ok {
		return ErrUnknownProduct
	}

	inCart := c.QuantityOf(productID)
	if qty > item.Available-inCart {
		return &StockError{
			ProductID:   productID,
			ProductName: item.Name,
			Requested:   qty,
			InCart:      inCart,
			Available:   item.Available,
		}
	}

	added := false
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity += qty
			added = true
			break
		}
	}
	if !added {
		c.Lines = append(c.Lines, Line{
			ProductID: productID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  qty,
		})
	}

	c.Total = c.Total.Add(item.UnitPrice.Mul(decimal.NewFromInt(qty)))
	return nil
}

// Remove deletes the line at index. An out-of-range index is rejected and
// leaves the cart as it was.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.Lines) {
		return ErrLineIndex
	}

	removed := c.Lines[index]
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	c.Total = c.Total.Sub(removed.Subtotal())
	return nil
}
