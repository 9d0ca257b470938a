package models

// Product is a catalog entry as the backend names it. The same shape is
// posted when creating a product.
type Product struct {
	ID          int64   `json:"id,omitempty"`
	Nom         string  `json:"nom"`
	Designation string  `json:"designation"`
	Marque      string  `json:"marque"`
	Fournisseur string  `json:"fournisseur"`
	Quantite    int64   `json:"quantite" validate:"gte=0"`
	PrixTVA     float64 `json:"prixtva" validate:"gte=0"`
}

// Customer represents a CRM customer record
type Customer struct {
	ID                 int64   `json:"id,omitempty"`
	Name               string  `json:"name"`
	Phone              string  `json:"phone"`
	Address            string  `json:"address"`
	Status             string  `json:"status"`
	CreditLimit        float64 `json:"creditLimit"`
	OutstandingBalance float64 `json:"outstandingBalance"`
	Notes              string  `json:"notes"`
}

// Vendor represents a supplier record
type Vendor struct {
	ID                int64   `json:"id,omitempty"`
	Name              string  `json:"name"`
	ContactPerson     string  `json:"contactPerson"`
	Phone             string  `json:"phone"`
	Status            string  `json:"status"`
	LeadTimeDays      int64   `json:"leadTimeDays" validate:"gte=0"`
	MinimumOrderValue float64 `json:"minimumOrderValue" validate:"gte=0"`
	Notes             string  `json:"notes"`
}

// ReceiptItem is one line of a sales receipt
type ReceiptItem struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int64 `json:"quantity" validate:"gte=1"`
}

// Receipt is a sales order. OrderDate is a LocalDateTime string
// (YYYY-MM-DDT00:00:00) because that is what the backend parses.
type Receipt struct {
	ID           int64         `json:"id,omitempty"`
	CustomerName string        `json:"customerName"`
	OrderDate    string        `json:"orderDate"`
	TotalPrice   float64       `json:"totalPrice" validate:"gte=0"`
	Items        []ReceiptItem `json:"items" validate:"dive"`
}

// Adjustment types accepted by the stock adjustment endpoint
const (
	AdjustmentIncrease = "INCREASE"
	AdjustmentDecrease = "DECREASE"
)

// StockAdjustment records a manual stock correction
type StockAdjustment struct {
	ID             int64  `json:"id,omitempty"`
	ProductID      int64  `json:"productId" validate:"gt=0"`
	AdjustmentType string `json:"adjustmentType" validate:"oneof=INCREASE DECREASE"`
	Quantity       int64  `json:"quantity" validate:"gte=1"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

// AssistantReply is the answer of the natural-language query endpoint.
// Data holds tabular rows when the prompt was answered with a query.
type AssistantReply struct {
	Text string           `json:"text"`
	Data []map[string]any `json:"data,omitempty"`
}

// Profile is the backend user record linked to the identity provider uid
type Profile struct {
	UID            string `json:"uid"`
	Email          string `json:"email"`
	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress,omitempty"`
	CompanyCity    string `json:"companyCity,omitempty"`
	CompanyPhone   string `json:"companyPhone,omitempty"`
	CompanyTaxID   string `json:"companyTaxId,omitempty"`
}

// DashboardStats are the headline counters of the dashboard
type DashboardStats struct {
	TotalProducts  int64   `json:"totalProducts"`
	TotalCustomers int64   `json:"totalCustomers"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	LowStockItems  int64   `json:"lowStockItems"`
	TotalSales     int64   `json:"totalSales"`
	PendingOrders  int64   `json:"pendingOrders"`
}

// Activity is one entry of the recent-activity feed
type Activity struct {
	Action      string `json:"action"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Status      string `json:"status"`
}

// Dashboard is the landing view of a signed-in user
type Dashboard struct {
	User           *Profile       `json:"user,omitempty"`
	Stats          DashboardStats `json:"stats"`
	WelcomeMessage string         `json:"welcomeMessage"`
	RecentActivity []Activity     `json:"recentActivity"`
}
