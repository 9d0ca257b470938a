package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/datsun80zx/stockdesk/internal/order"
)

// lineSpec is one PRODUCT_ID:QTY argument
type lineSpec struct {
	ProductID int64
	Quantity  int64
}

func parseLineSpec(arg string) (lineSpec, error) {
	idStr, qtyStr, ok := strings.Cut(arg, ":")
	if !ok {
		return lineSpec{}, fmt.Errorf("invalid line %q, expected PRODUCT_ID:QTY", arg)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
	if err != nil || id < 1 {
		return lineSpec{}, fmt.Errorf("invalid product id in %q", arg)
	}
	qty, err := strconv.ParseInt(strings.TrimSpace(qtyStr), 10, 64)
	if err != nil {
		return lineSpec{}, fmt.Errorf("invalid quantity in %q", arg)
	}
	return lineSpec{ProductID: id, Quantity: qty}, nil
}

func handleOrder(ctx context.Context, a *app, args []string) {
	if len(args) < 1 {
		fmt.Println("Error: order requires a subcommand")
		fmt.Println("Available: products, customers, create")
		os.Exit(1)
	}

	a.requireUser()

	switch args[0] {
	case "products":
		orderProducts(ctx, a)
	case "customers":
		orderCustomers(ctx, a)
	case "create":
		orderCreate(ctx, a, args[1:])
	default:
		fmt.Printf("Unknown order subcommand: %s\n", args[0])
		fmt.Println("Available: products, customers, create")
		os.Exit(1)
	}
}

func openDraft(ctx context.Context, a *app) *order.Draft {
	d, err := order.Open(ctx, a.client, time.Now())
	if err != nil {
		fmt.Printf("❌ Error loading catalog: %v\n", err)
		os.Exit(1)
	}
	return d
}

func orderProducts(ctx context.Context, a *app) {
	d := openDraft(ctx, a)

	if len(d.Catalog.Items) == 0 {
		fmt.Println("No products found")
		return
	}

	fmt.Println("Products")
	fmt.Println("══════════════════════════════════════════════════════════════")
	fmt.Printf("%6s  %-32s  %10s  %9s\n", "ID", "Name", "Price", "Available")
	fmt.Println("──────────────────────────────────────────────────────────────")
	for _, item := range d.Catalog.Items {
		name := truncate(item.Name, 32)
		marker := ""
		if item.Available <= 0 {
			marker = " ⚠️"
		}
		fmt.Printf("%6d  %-32s  %10s  %9d%s\n", item.ID, name, item.UnitPrice.StringFixed(2), item.Available, marker)
	}
	fmt.Println("══════════════════════════════════════════════════════════════")
	fmt.Printf("Total: %d product(s)\n", len(d.Catalog.Items))
}

func orderCustomers(ctx context.Context, a *app) {
	d := openDraft(ctx, a)

	if len(d.Customers) == 0 {
		fmt.Println("No customers found")
		return
	}

	fmt.Printf("%6s  %s\n", "ID", "Name")
	fmt.Println("──────────────────────────────────────────")
	for _, c := range d.Customers {
		fmt.Printf("%6d  %s\n", c.ID, c.Name)
	}
}

func orderCreate(ctx context.Context, a *app, args []string) {
	customerArg, args := parseFlag(args, "customer")
	date, args := parseFlag(args, "date")

	if customerArg == "" || len(args) == 0 {
		fmt.Println("Error: order create requires a customer and at least one line")
		fmt.Println("Usage: stockdesk order create --customer ID [--date YYYY-MM-DD] PRODUCT_ID:QTY...")
		os.Exit(1)
	}

	customerID, err := strconv.ParseInt(customerArg, 10, 64)
	if err != nil {
		fmt.Printf("Error: invalid customer id %q\n", customerArg)
		os.Exit(1)
	}

	var lines []lineSpec
	for _, arg := range args {
		l, err := parseLineSpec(arg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		lines = append(lines, l)
	}

	d := openDraft(ctx, a)

	if err := d.SetCustomer(customerID); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if date != "" {
		if err := d.SetOrderDate(date); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
	}

	for _, l := range lines {
		if err := d.AddLine(l.ProductID, l.Quantity); err != nil {
			var stockErr *order.StockError
			if errors.As(err, &stockErr) {
				fmt.Printf("❌ %v\n", stockErr)
			} else {
				fmt.Printf("❌ Product %d: %v\n", l.ProductID, err)
			}
			os.Exit(1)
		}
	}

	printCart(d)

	receipt, err := d.Submit(ctx, a.client)
	if err != nil {
		fmt.Printf("❌ Order failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	if receipt.ID != 0 {
		fmt.Printf("✅ Order created successfully (receipt %d)\n", receipt.ID)
	} else {
		fmt.Println("✅ Order created successfully")
	}
}

func printCart(d *order.Draft) {
	fmt.Printf("Order for customer %d on %s\n", d.CustomerID, d.OrderDate)
	fmt.Println("──────────────────────────────────────────────────────────────")
	fmt.Printf("%-32s  %5s  %10s  %10s\n", "Product", "Qty", "Unit", "Subtotal")
	for _, l := range d.Cart.Lines {
		name := truncate(l.Name, 32)
		fmt.Printf("%-32s  %5d  %10s  %10s\n", name, l.Quantity, l.UnitPrice.StringFixed(2), l.Subtotal().StringFixed(2))
	}
	fmt.Println("──────────────────────────────────────────────────────────────")
	fmt.Printf("%-32s  %5s  %10s  %10s\n", "Total", "", "", d.Cart.Total.StringFixed(2))
}
