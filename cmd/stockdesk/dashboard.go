package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/datsun80zx/stockdesk/internal/dashboard"
)

func handleDashboard(ctx context.Context, a *app) {
	user := a.requireUser()

	d, err := dashboard.Load(ctx, a.client, user, time.Now(), a.log)
	if err != nil {
		fmt.Printf("❌ Error loading dashboard: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(d.WelcomeMessage)
	fmt.Println("══════════════════════════════════════════════════════")
	fmt.Printf("Products:          %d\n", d.Stats.TotalProducts)
	fmt.Printf("Customers:         %d\n", d.Stats.TotalCustomers)
	fmt.Printf("Sales:             %d\n", d.Stats.TotalSales)
	fmt.Printf("Pending orders:    %d\n", d.Stats.PendingOrders)
	fmt.Printf("Monthly revenue:   %.2f\n", d.Stats.MonthlyRevenue)
	if d.Stats.LowStockItems > 0 {
		fmt.Printf("Low stock items:   %d ⚠️\n", d.Stats.LowStockItems)
	} else {
		fmt.Printf("Low stock items:   0\n")
	}

	if len(d.RecentActivity) > 0 {
		fmt.Println()
		fmt.Println("Recent activity")
		fmt.Println("──────────────────────────────────────────────────────")
		for _, act := range d.RecentActivity {
			fmt.Printf("%-12s  %-30s  %s\n", truncate(act.Action, 12), truncate(act.Description, 30), act.Date)
		}
	}
	fmt.Println("══════════════════════════════════════════════════════")
}
