package order

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/datsun80zx/stockdesk/internal/apiclient"
	"github.com/datsun80zx/stockdesk/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return NewCatalog([]models.Product{
		{ID: 7, Nom: "Perceuse", PrixTVA: 89.90, Quantite: 5},
		{ID: 8, Nom: "Vis 4x40", PrixTVA: 0.15, Quantite: 1000},
		{ID: 9, Nom: "Scie", PrixTVA: 24.99, Quantite: 0},
	})
}

func sumLines(c *Cart) decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func TestCart_AddMergesLines(t *testing.T) {
	var cart Cart
	cat := testCatalog()

	require.NoError(t, cart.Add(cat, 7, 2))
	require.NoError(t, cart.Add(cat, 8, 10))
	require.NoError(t, cart.Add(cat, 7, 1))

	require.Len(t, cart.Lines, 2)
	assert.Equal(t, int64(3), cart.QuantityOf(7))
	assert.True(t, decimal.RequireFromString("271.20").Equal(cart.Total), cart.Total.String())

	remaining, err := cart.Remaining(cat, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), remaining)
}

func TestCart_RejectsOverStock(t *testing.T) {
	var cart Cart
	cat := testCatalog()
	require.NoError(t, cart.Add(cat, 7, 3))
	before := cart

	err := cart.Add(cat, 7, 4)
	var stockErr *StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(2), stockErr.Remaining())
	assert.Equal(t, "requested quantity (7) exceeds available stock for Perceuse; remaining: 2", err.Error())

	assert.Equal(t, []Line{{ProductID: 7, Name: "Perceuse", UnitPrice: decimal.NewFromFloat(89.90), Quantity: 3}}, cart.Lines)
	assert.True(t, before.Total.Equal(cart.Total))

	assert.True(t, errors.As(cart.Add(cat, 9, 1), &stockErr))
	assert.ErrorIs(t, cart.Add(cat, 42, 1), ErrUnknownProduct)
	assert.ErrorIs(t, cart.Add(cat, 8, 0), ErrInvalidQuantity)
}

func TestCart_RejectsQuantityThatWouldOverflow(t *testing.T) {
	var cart Cart
	cat := testCatalog()
	require.NoError(t, cart.Add(cat, 8, 1))

	err := cart.Add(cat, 8, math.MaxInt64)
	var stockErr *StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(999), stockErr.Remaining())
	assert.Equal(t, "requested quantity (9223372036854775808) exceeds available stock for Vis 4x40; remaining: 999", err.Error())

	assert.Equal(t, int64(1), cart.QuantityOf(8))
	assert.True(t, decimal.RequireFromString("0.15").Equal(cart.Total), cart.Total.String())
}

func TestCart_Remove(t *testing.T) {
	var cart Cart
	cat := testCatalog()
	require.NoError(t, cart.Add(cat, 7, 1))
	require.NoError(t, cart.Add(cat, 8, 4))

	assert.ErrorIs(t, cart.Remove(2), ErrLineIndex)
	assert.ErrorIs(t, cart.Remove(-1), ErrLineIndex)
	assert.True(t, sumLines(&cart).Equal(cart.Total))

	require.NoError(t, cart.Remove(0))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(8), cart.Lines[0].ProductID)
	assert.True(t, decimal.RequireFromString("0.60").Equal(cart.Total))
}

func TestCart_InvariantsUnderRandomOperations(t *testing.T) {
	cat := testCatalog()
	rng := rand.New(rand.NewSource(42))
	var cart Cart

	for step := 0; step < 2000; step++ {
		if len(cart.Lines) > 0 && rng.Intn(3) == 0 {
			_ = cart.Remove(rng.Intn(len(cart.Lines) + 1))
		} else {
			id := int64(7 + rng.Intn(3))
			_ = cart.Add(cat, id, int64(1+rng.Intn(6)))
		}

		for _, item := range cat.Items {
			require.LessOrEqual(t, cart.QuantityOf(item.ID), item.Available)
		}
		require.True(t, sumLines(&cart).Equal(cart.Total), "step %d: total %s", step, cart.Total)

		seen := map[int64]bool{}
		for _, l := range cart.Lines {
			require.False(t, seen[l.ProductID], "duplicate line for %d", l.ProductID)
			seen[l.ProductID] = true
		}
	}
}

type fakeBackend struct {
	products  []models.Product
	customers []models.Customer
	submitted []*models.Receipt
	submitErr error
}

func (f *fakeBackend) ListProducts(context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeBackend) ListCustomers(context.Context) ([]models.Customer, error) {
	return f.customers, nil
}

func (f *fakeBackend) CreateReceipt(_ context.Context, r *models.Receipt) (*models.Receipt, error) {
	f.submitted = append(f.submitted, r)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	created := *r
	created.ID = 501
	return &created, nil
}

func newBackend() *fakeBackend {
	return &fakeBackend{
		products: []models.Product{
			{ID: 7, Nom: "Perceuse", PrixTVA: 89.90, Quantite: 5},
			{ID: 8, Nom: "Vis 4x40", PrixTVA: 0.15, Quantite: 1000},
		},
		customers: []models.Customer{{ID: 1, Name: "Jean Dupont"}, {ID: 2, Name: "Marie Martin"}},
	}
}

func TestDraft_SubmitValidation(t *testing.T) {
	backend := newBackend()
	d, err := Open(context.Background(), backend, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", d.OrderDate)

	_, err = d.Submit(context.Background(), backend)
	assert.ErrorIs(t, err, ErrNoCustomer)

	require.NoError(t, d.SetCustomer(2))
	_, err = d.Submit(context.Background(), backend)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, backend.submitted, "local failures make no call")

	assert.ErrorIs(t, d.SetCustomer(99), ErrUnknownCustomer)
	assert.ErrorIs(t, d.SetOrderDate("15/01/2024"), ErrInvalidDate)
}

func TestDraft_SubmitPayload(t *testing.T) {
	backend := newBackend()
	d, err := Open(context.Background(), backend, time.Now())
	require.NoError(t, err)

	require.NoError(t, d.SetCustomer(1))
	require.NoError(t, d.SetOrderDate("2024-02-01"))
	require.NoError(t, d.AddLine(7, 2))
	require.NoError(t, d.AddLine(8, 10))

	receipt, err := d.Submit(context.Background(), backend)
	require.NoError(t, err)
	assert.Equal(t, int64(501), receipt.ID)

	require.Len(t, backend.submitted, 1)
	assert.Equal(t, &models.Receipt{
		CustomerName: "Jean Dupont",
		OrderDate:    "2024-02-01T00:00:00",
		TotalPrice:   181.3,
		Items: []models.ReceiptItem{
			{ProductID: 7, Quantity: 2},
			{ProductID: 8, Quantity: 10},
		},
	}, backend.submitted[0])
}

func TestDraft_RemoteRejectionKeepsCart(t *testing.T) {
	backend := newBackend()
	backend.submitErr = &apiclient.APIError{StatusCode: 400, Body: "Insufficient stock for product Perceuse"}

	d, err := Open(context.Background(), backend, time.Now())
	require.NoError(t, err)
	require.NoError(t, d.SetCustomer(1))
	require.NoError(t, d.AddLine(7, 5))

	_, err = d.Submit(context.Background(), backend)
	assert.EqualError(t, err, "API error: 400 - Insufficient stock for product Perceuse")
	assert.Equal(t, int64(5), d.Cart.QuantityOf(7))
}

func TestDraft_Refresh(t *testing.T) {
	backend := newBackend()
	d, err := Open(context.Background(), backend, time.Now())
	require.NoError(t, err)
	require.NoError(t, d.SetCustomer(2))
	require.NoError(t, d.AddLine(7, 1))
	require.NoError(t, d.AddLine(8, 3))

	backend.products = []models.Product{{ID: 8, Nom: "Vis 4x40", PrixTVA: 0.15, Quantite: 2}}
	require.NoError(t, d.Refresh(context.Background(), backend))

	require.Len(t, d.Cart.Lines, 1)
	assert.Equal(t, int64(8), d.Cart.Lines[0].ProductID)
	assert.True(t, decimal.RequireFromString("0.45").Equal(d.Cart.Total))
	assert.Equal(t, int64(2), d.CustomerID)

	remaining, err := d.Remaining(8)
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)
}

func TestMemoryDraftStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore(time.Hour)

	d, err := Open(ctx, newBackend(), time.Now())
	require.NoError(t, err)
	require.NoError(t, d.AddLine(7, 2))
	require.NoError(t, store.Save(ctx, d))

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Cart.QuantityOf(7))
	assert.True(t, d.Cart.Total.Equal(got.Cart.Total))

	// a loaded copy is independent of the stored one
	require.NoError(t, got.AddLine(7, 1))
	again, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.Cart.QuantityOf(7))

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = store.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	require.NoError(t, store.Delete(ctx, "missing"))
}
