package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/datsun80zx/stockdesk/internal/models"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func handleAdjust(ctx context.Context, a *app, args []string) {
	if len(args) == 0 {
		fmt.Println("Error: adjust requires arguments")
		fmt.Println("Usage: stockdesk adjust <productId> <INCREASE|DECREASE> <qty>")
		fmt.Println("       stockdesk adjust list")
		os.Exit(1)
	}

	a.requireUser()

	if args[0] == "list" {
		listAdjustments(ctx, a)
		return
	}

	adj, err := parseAdjustment(args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := a.client.CreateStockAdjustment(ctx, adj); err != nil {
		fmt.Printf("❌ Error creating adjustment: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Stock adjustment recorded: product %d %s %d\n", adj.ProductID, adj.AdjustmentType, adj.Quantity)
}

func parseAdjustment(args []string) (*models.StockAdjustment, error) {
	if len(args) < 3 {
		return nil, errors.New("usage: stockdesk adjust <productId> <INCREASE|DECREASE> <qty>")
	}

	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid product id %q", args[0])
	}
	qty, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity %q", args[2])
	}

	adj := &models.StockAdjustment{
		ProductID:      productID,
		AdjustmentType: strings.ToUpper(strings.TrimSpace(args[1])),
		Quantity:       qty,
	}

	if err := validate.Struct(adj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "ProductID":
				return nil, errors.New("product id must be positive")
			case "AdjustmentType":
				return nil, fmt.Errorf("adjustment type must be %s or %s", models.AdjustmentIncrease, models.AdjustmentDecrease)
			case "Quantity":
				return nil, errors.New("quantity must be at least 1")
			}
		}
		return nil, err
	}
	return adj, nil
}

func listAdjustments(ctx context.Context, a *app) {
	adjustments, err := a.client.ListStockAdjustments(ctx)
	if err != nil {
		fmt.Printf("Error listing adjustments: %v\n", err)
		os.Exit(1)
	}

	if len(adjustments) == 0 {
		fmt.Println("No stock adjustments found")
		return
	}

	fmt.Println("Stock Adjustments")
	fmt.Println("══════════════════════════════════════════════════════")
	fmt.Printf("%6s  %8s  %-10s  %6s  %-19s\n", "ID", "Product", "Type", "Qty", "Date")
	fmt.Println("──────────────────────────────────────────────────────")
	for _, adj := range adjustments {
		icon := "⬆️"
		if adj.AdjustmentType == models.AdjustmentDecrease {
			icon = "⬇️"
		}
		date := adj.CreatedAt
		if len(date) > 19 {
			date = date[:19]
		}
		fmt.Printf("%6d  %8d  %s %-8s  %6d  %-19s\n", adj.ID, adj.ProductID, icon, adj.AdjustmentType, adj.Quantity, date)
	}
	fmt.Println("══════════════════════════════════════════════════════")
	fmt.Printf("Total: %d adjustment(s)\n", len(adjustments))
}
