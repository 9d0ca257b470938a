// Package dashboard builds the landing view of the console. The backend's
// /api/dashboard summary is used when it answers; otherwise the counters are
// computed from the entity lists.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/datsun80zx/stockdesk/internal/apiclient"
	"github.com/datsun80zx/stockdesk/internal/models"
	"github.com/datsun80zx/stockdesk/internal/session"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LowStockThreshold is the quantity at or below which a product counts as
// low on stock
const LowStockThreshold = 5

// Backend is the subset of *apiclient.Client the dashboard reads
type Backend interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Profile(ctx context.Context, user *session.User) (*models.Profile, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	ListReceipts(ctx context.Context) ([]models.Receipt, error)
}

// Load returns the dashboard of user. A backend that rejects the summary
// call (any HTTP error) gets a computed dashboard instead; a backend that
// cannot be reached fails the load.
func Load(ctx context.Context, b Backend, user *session.User, now time.Time, log *zap.Logger) (*models.Dashboard, error) {
	if log == nil {
		log = zap.NewNop()
	}

	d, err := b.Dashboard(ctx)
	if err == nil {
		if d.WelcomeMessage == "" {
			d.WelcomeMessage = welcome(d.User)
		}
		if d.RecentActivity == nil {
			d.RecentActivity = defaultActivity()
		}
		return d, nil
	}

	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return nil, err
	}
	log.Info("Dashboard summary unavailable, computing it", zap.Int("status", apiErr.StatusCode))

	stats, err := Compute(ctx, b, now)
	if err != nil {
		return nil, err
	}

	profile, err := b.Profile(ctx, user)
	if err != nil {
		log.Warn("Failed to load profile for dashboard", zap.Error(err))
		profile = &models.Profile{CompanyName: "Your Company"}
	}

	return &models.Dashboard{
		User:           profile,
		Stats:          *stats,
		WelcomeMessage: welcome(profile),
		RecentActivity: defaultActivity(),
	}, nil
}

// Compute derives the dashboard counters from the entity lists. Revenue is
// the total of the receipts dated in now's month.
func Compute(ctx context.Context, b Backend, now time.Time) (*models.DashboardStats, error) {
	products, err := b.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := b.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	receipts, err := b.ListReceipts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalProducts:  int64(len(products)),
		TotalCustomers: int64(len(customers)),
		TotalSales:     int64(len(receipts)),
	}

	for _, p := range products {
		if p.Quantite <= LowStockThreshold {
			stats.LowStockItems++
		}
	}

	month := now.Format("2006-01")
	revenue := decimal.Zero
	for _, r := range receipts {
		if len(r.OrderDate) >= 7 && r.OrderDate[:7] == month {
			revenue = revenue.Add(decimal.NewFromFloat(r.TotalPrice))
		}
	}
	stats.MonthlyRevenue = revenue.Round(2).InexactFloat64()

	return stats, nil
}

func welcome(p *models.Profile) string {
	if p == nil || p.CompanyName == "" {
		return "Welcome to your dashboard"
	}
	return fmt.Sprintf("Welcome back, %s", p.CompanyName)
}

func defaultActivity() []models.Activity {
	return []models.Activity{
		{Action: "System", Description: "Welcome to your dashboard", Date: "Just now", Status: "info"},
		{Action: "Setup", Description: "Add products, vendors, and customers", Date: "Today", Status: "info"},
	}
}
