package order

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNoCustomer      = errors.New("please select a customer")
	ErrEmptyCart       = errors.New("please add at least one product to the order")
	ErrUnknownCustomer = errors.New("please select a valid customer")
	ErrUnknownProduct  = errors.New("product not found in catalog")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineIndex       = errors.New("order line does not exist")
	ErrInvalidDate     = errors.New("order date must be YYYY-MM-DD")
	ErrDraftNotFound   = errors.New("order draft not found")
)

// StockError rejects an add that would take a product past its available
// stock. The cart is left unchanged.
type StockError struct {
	ProductID   int64
	ProductName string
	Requested   int64
	InCart      int64
	Available   int64
}

// Remaining is how many more units may still be added
func (e *StockError) Remaining() int64 {
	return e.Available - e.InCart
}

func (e *StockError) Error() string {
	// summed as decimals so a huge request can't wrap negative
	total := decimal.NewFromInt(e.InCart).Add(decimal.NewFromInt(e.Requested))
	return fmt.Sprintf("requested quantity (%s) exceeds available stock for %s; remaining: %d",
		total, e.ProductName, e.Remaining())
}
