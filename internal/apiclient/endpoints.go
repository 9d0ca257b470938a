package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/datsun80zx/stockdesk/internal/models"
	"github.com/datsun80zx/stockdesk/internal/schema"
	"github.com/datsun80zx/stockdesk/internal/session"
	"go.uber.org/zap"
)

const (
	productsPath    = "/api/ecom_drog/produitmagasinbricolage"
	customersPath   = "/api/ecom_drog/customerpath"
	vendorsPath     = "/api/ecom_drog/vendorpath"
	receiptsPath    = "/api/ecom_drog/receiptpath"
	adjustmentsPath = "/api/ecom_drog/stockadjustmentpath"
	assistantPath   = "/api/ai/query"
	dashboardPath   = "/api/dashboard"
	profilePath     = "/api/users/profile"
	registerPath    = "/api/users/register"
)

// Assistant modes
const (
	ModeAssist = "assist"
	ModeSQL    = "sql"
)

// ErrEmptyPrompt is returned before any call when the assistant prompt is blank
var ErrEmptyPrompt = errors.New("prompt is required")

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.Request(ctx, path, RequestOptions{})
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.Request(ctx, path, RequestOptions{Method: http.MethodPost, Body: body})
	if err != nil {
		return err
	}
	if out == nil || !resp.IsJSON() {
		return nil
	}
	return resp.Decode(out)
}

func (c *Client) putJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.Request(ctx, path, RequestOptions{Method: http.MethodPut, Body: body})
	if err != nil {
		return err
	}
	if out == nil || !resp.IsJSON() {
		return nil
	}
	return resp.Decode(out)
}

func (c *Client) delete(ctx context.Context, path string, id int64) error {
	_, err := c.Request(ctx, fmt.Sprintf("%s/%d", path, id), RequestOptions{Method: http.MethodDelete})
	return err
}

// ListProducts returns the catalog
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.getJSON(ctx, productsPath, &products); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// ListCustomers returns every customer
func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := c.getJSON(ctx, customersPath, &customers); err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	return customers, nil
}

// ListVendors returns every vendor
func (c *Client) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	if err := c.getJSON(ctx, vendorsPath, &vendors); err != nil {
		return nil, fmt.Errorf("listing vendors: %w", err)
	}
	return vendors, nil
}

// ListKind returns every entity of kind as the matching models slice, the
// shape schema.Export takes
func (c *Client) ListKind(ctx context.Context, kind schema.Kind) (any, error) {
	switch kind {
	case schema.KindProducts:
		return c.ListProducts(ctx)
	case schema.KindCustomers:
		return c.ListCustomers(ctx)
	case schema.KindVendors:
		return c.ListVendors(ctx)
	case schema.KindReceipts:
		return c.ListReceipts(ctx)
	}
	return nil, fmt.Errorf("%w: %q", schema.ErrUnknownKind, kind)
}

// CreateProduct posts one product
func (c *Client) CreateProduct(ctx context.Context, p *models.Product) error {
	return c.postJSON(ctx, productsPath, p, nil)
}

// UpdateProduct replaces product id. The stored product is returned when
// the backend echoes it back, p otherwise.
func (c *Client) UpdateProduct(ctx context.Context, id int64, p *models.Product) (*models.Product, error) {
	updated := *p
	if err := c.putJSON(ctx, fmt.Sprintf("%s/%d", productsPath, id), p, &updated); err != nil {
		return nil, fmt.Errorf("updating product %d: %w", id, err)
	}
	return &updated, nil
}

// DeleteProduct removes a product from the catalog
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.delete(ctx, productsPath, id); err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	return nil
}

// CreateCustomer posts one customer
func (c *Client) CreateCustomer(ctx context.Context, cu *models.Customer) error {
	return c.postJSON(ctx, customersPath, cu, nil)
}

// DeleteCustomer removes a customer
func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	if err := c.delete(ctx, customersPath, id); err != nil {
		return fmt.Errorf("deleting customer %d: %w", id, err)
	}
	return nil
}

// CreateVendor posts one vendor
func (c *Client) CreateVendor(ctx context.Context, v *models.Vendor) error {
	return c.postJSON(ctx, vendorsPath, v, nil)
}

// UpdateVendor replaces vendor id
func (c *Client) UpdateVendor(ctx context.Context, id int64, v *models.Vendor) (*models.Vendor, error) {
	updated := *v
	if err := c.putJSON(ctx, fmt.Sprintf("%s/%d", vendorsPath, id), v, &updated); err != nil {
		return nil, fmt.Errorf("updating vendor %d: %w", id, err)
	}
	return &updated, nil
}

// DeleteVendor removes a vendor
func (c *Client) DeleteVendor(ctx context.Context, id int64) error {
	if err := c.delete(ctx, vendorsPath, id); err != nil {
		return fmt.Errorf("deleting vendor %d: %w", id, err)
	}
	return nil
}

// Dashboard loads the backend's dashboard summary
func (c *Client) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var d models.Dashboard
	if err := c.getJSON(ctx, dashboardPath, &d); err != nil {
		return nil, fmt.Errorf("loading dashboard: %w", err)
	}
	return &d, nil
}

// CreateReceipt posts a sales order and returns the stored receipt when the
// backend echoes it back
func (c *Client) CreateReceipt(ctx context.Context, r *models.Receipt) (*models.Receipt, error) {
	var created models.Receipt
	if err := c.postJSON(ctx, receiptsPath, r, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListReceipts returns every sales receipt
func (c *Client) ListReceipts(ctx context.Context) ([]models.Receipt, error) {
	var receipts []models.Receipt
	if err := c.getJSON(ctx, receiptsPath, &receipts); err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return receipts, nil
}

// DeleteReceipt removes a sale
func (c *Client) DeleteReceipt(ctx context.Context, id int64) error {
	return c.delete(ctx, receiptsPath, id)
}

// ReceiptPDF downloads the rendered receipt. The body is returned untouched.
func (c *Client) ReceiptPDF(ctx context.Context, id int64) (*Response, error) {
	return c.Request(ctx, fmt.Sprintf("%s/%d/pdf", receiptsPath, id), RequestOptions{
		Headers: map[string]string{"Accept": "application/pdf"},
	})
}

// CreateStockAdjustment records a manual stock correction
func (c *Client) CreateStockAdjustment(ctx context.Context, a *models.StockAdjustment) error {
	return c.postJSON(ctx, adjustmentsPath, a, nil)
}

// ListStockAdjustments accepts both a bare array and a {"data": [...]} envelope
func (c *Client) ListStockAdjustments(ctx context.Context) ([]models.StockAdjustment, error) {
	resp, err := c.Request(ctx, adjustmentsPath, RequestOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing stock adjustments: %w", err)
	}

	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		return nil, nil
	}

	var adjustments []models.StockAdjustment
	if body[0] == '[' {
		if err := json.Unmarshal(body, &adjustments); err != nil {
			return nil, fmt.Errorf("decoding stock adjustments: %w", err)
		}
		return adjustments, nil
	}

	var envelope struct {
		Data []models.StockAdjustment `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding stock adjustments: %w", err)
	}
	return envelope.Data, nil
}

// AIQuery forwards a free-text prompt to the assistant endpoint
func (c *Client) AIQuery(ctx context.Context, prompt, mode string) (*models.AssistantReply, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if mode == "" {
		mode = ModeAssist
	}

	var reply models.AssistantReply
	body := map[string]string{"prompt": prompt, "mode": mode}
	if err := c.postJSON(ctx, assistantPath, body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Profile loads the backend profile of the signed-in user. A user known to
// the identity provider but not yet to the backend is registered from the
// token claims and the profile is fetched again.
func (c *Client) Profile(ctx context.Context, user *session.User) (*models.Profile, error) {
	var profile models.Profile
	err := c.getJSON(ctx, profilePath, &profile)
	if err == nil {
		return &profile, nil
	}
	if !IsAPIError(err, "USER_NOT_FOUND") || user == nil {
		return nil, err
	}

	c.log.Info("User profile not found, registering", zap.String("uid", user.UID))
	if err := c.Register(ctx, user); err != nil {
		return nil, err
	}

	if err := c.getJSON(ctx, profilePath, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Register creates the backend user record. The call is not authenticated.
// A user that already exists counts as registered.
func (c *Client) Register(ctx context.Context, user *session.User) error {
	companyName := user.DisplayName
	if companyName == "" {
		companyName = "My Business"
	}
	payload := models.Profile{
		UID:            user.UID,
		Email:          user.Email,
		CompanyName:    companyName,
		CompanyAddress: "123 Main Street",
		CompanyCity:    "New York",
		CompanyPhone:   "+1-555-0123",
		CompanyTaxID:   "TAX-ID-PENDING",
	}

	_, err := c.do(ctx, c.resolve(registerPath), http.MethodPost, payload, map[string]string{
		"Content-Type": "application/json",
	})
	if err == nil {
		return nil
	}
	if IsAPIError(err, "USER_EXISTS") || IsAPIError(err, "EMAIL_EXISTS") {
		c.log.Info("User already registered", zap.String("uid", user.UID))
		return nil
	}
	return fmt.Errorf("registration failed: %w", err)
}
