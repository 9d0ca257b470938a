package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/datsun80zx/stockdesk/internal/models"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Backend is what a draft needs from the REST API. *apiclient.Client
// satisfies it.
type Backend interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	CreateReceipt(ctx context.Context, r *models.Receipt) (*models.Receipt, error)
}

// Draft is one order being composed. It carries its own catalog snapshot so
// it can be stored and resumed.
type Draft struct {
	ID         string        `json:"id"`
	Owner      string        `json:"owner,omitempty"`
	CustomerID int64         `json:"customerId,omitempty"`
	OrderDate  string        `json:"orderDate"`
	Cart       Cart          `json:"cart"`
	Catalog    Catalog       `json:"catalog"`
	Customers  []CustomerRef `json:"customers"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// Open starts a draft dated today. Products and customers are fetched once.
func Open(ctx context.Context, b Backend, now time.Time) (*Draft, error) {
	products, err := b.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := b.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}

	return &Draft{
		ID:        uuid.NewString(),
		OrderDate: now.Format(dateLayout),
		Catalog:   NewCatalog(products),
		Customers: NewCustomerRefs(customers),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetCustomer selects the customer. Zero clears the selection.
func (d *Draft) SetCustomer(id int64) error {
	if id != 0 {
		if _, ok := d.customer(id); !ok {
			return ErrUnknownCustomer
		}
	}
	d.CustomerID = id
	d.touch()
	return nil
}

// SetOrderDate sets the order date (YYYY-MM-DD)
func (d *Draft) SetOrderDate(date string) error {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return ErrInvalidDate
	}
	d.OrderDate = date
	d.touch()
	return nil
}

// AddLine adds qty units of a product, subject to the stock rule
func (d *Draft) AddLine(productID, qty int64) error {
	if err := d.Cart.Add(d.Catalog, productID, qty); err != nil {
		return err
	}
	d.touch()
	return nil
}

// RemoveLine deletes the line at index
func (d *Draft) RemoveLine(index int) error {
	if err := d.Cart.Remove(index); err != nil {
		return err
	}
	d.touch()
	return nil
}

// Remaining is how many more units of a product may be added
func (d *Draft) Remaining(productID int64) (int64, error) {
	return d.Cart.Remaining(d.Catalog, productID)
}

// Payload builds the receipt to submit. Missing customer or an empty cart
// is a local failure.
func (d *Draft) Payload() (*models.Receipt, error) {
	if d.CustomerID == 0 {
		return nil, ErrNoCustomer
	}
	if len(d.Cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	customer, ok := d.customer(d.CustomerID)
	if !ok {
		return nil, ErrUnknownCustomer
	}

	items := make([]models.ReceiptItem, len(d.Cart.Lines))
	for i, l := range d.Cart.Lines {
		items[i] = models.ReceiptItem{ProductID: l.ProductID, Quantity: l.Quantity}
	}

	return &models.Receipt{
		CustomerName: customer.Name,
		OrderDate:    d.OrderDate + "T00:00:00",
		TotalPrice:   d.Cart.Total.InexactFloat64(),
		Items:        items,
	}, nil
}

// Submit sends the order. Local validation failures make no call. A backend
// rejection is returned unchanged and the draft is kept as it was so the
// user can adjust and retry.
func (d *Draft) Submit(ctx context.Context, b Backend) (*models.Receipt, error) {
	payload, err := d.Payload()
	if err != nil {
		return nil, err
	}
	return b.CreateReceipt(ctx, payload)
}

// Refresh reloads the catalog and customers. Lines whose product no longer
// exists are dropped and the total is rebuilt from the remaining lines;
// quantities are not re-checked against the new stock.
func (d *Draft) Refresh(ctx context.Context, b Backend) error {
	fresh, err := Open(ctx, b, time.Now())
	if err != nil {
		return fmt.Errorf("refreshing catalog: %w", err)
	}

	d.Catalog = fresh.Catalog
	d.Customers = fresh.Customers
	if _, ok := d.customer(d.CustomerID); !ok {
		d.CustomerID = 0
	}

	var kept Cart
	for _, l := range d.Cart.Lines {
		if _, ok := d.Catalog.Lookup(l.ProductID); ok {
			kept.Lines = append(kept.Lines, l)
			kept.Total = kept.Total.Add(l.Subtotal())
		}
	}
	d.Cart = kept
	d.touch()
	return nil
}

func (d *Draft) customer(id int64) (CustomerRef, bool) {
	for _, c := range d.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return CustomerRef{}, false
}

func (d *Draft) touch() {
	d.UpdatedAt = time.Now()
}
