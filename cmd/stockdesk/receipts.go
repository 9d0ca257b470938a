package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

func handleReceipts(ctx context.Context, a *app, args []string) {
	a.requireUser()

	if len(args) == 0 || args[0] == "list" {
		listReceipts(ctx, a)
		return
	}

	switch args[0] {
	case "pdf":
		output, rest := parseFlag(args[1:], "output")
		id := receiptID(rest)
		downloadReceipt(ctx, a, id, output)
	case "delete":
		id := receiptID(args[1:])
		if err := a.client.DeleteReceipt(ctx, id); err != nil {
			fmt.Printf("❌ Error deleting receipt: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Receipt %d deleted\n", id)
	default:
		fmt.Printf("Unknown receipts subcommand: %s\n", args[0])
		fmt.Println("Available: list, pdf, delete")
		os.Exit(1)
	}
}

func receiptID(args []string) int64 {
	if len(args) < 1 {
		fmt.Println("Error: a receipt id is required")
		os.Exit(1)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		fmt.Printf("Error: invalid receipt id %q\n", args[0])
		os.Exit(1)
	}
	return id
}

func listReceipts(ctx context.Context, a *app) {
	receipts, err := a.client.ListReceipts(ctx)
	if err != nil {
		fmt.Printf("Error listing receipts: %v\n", err)
		os.Exit(1)
	}

	if len(receipts) == 0 {
		fmt.Println("No receipts found")
		return
	}

	fmt.Println("Receipts")
	fmt.Println("══════════════════════════════════════════════════════════════")
	fmt.Printf("%6s  %-10s  %-28s  %6s  %10s\n", "ID", "Date", "Customer", "Items", "Total")
	fmt.Println("──────────────────────────────────────────────────────────────")
	for _, r := range receipts {
		date := r.OrderDate
		if len(date) > 10 {
			date = date[:10]
		}
		customer := truncate(r.CustomerName, 28)
		fmt.Printf("%6d  %-10s  %-28s  %6d  %10.2f\n", r.ID, date, customer, len(r.Items), r.TotalPrice)
	}
	fmt.Println("══════════════════════════════════════════════════════════════")
	fmt.Printf("Total: %d receipt(s)\n", len(receipts))
}

func downloadReceipt(ctx context.Context, a *app, id int64, output string) {
	resp, err := a.client.ReceiptPDF(ctx, id)
	if err != nil {
		fmt.Printf("❌ Error downloading receipt: %v\n", err)
		os.Exit(1)
	}

	if output == "" {
		output = fmt.Sprintf("receipt-%d.pdf", id)
	}
	if err := os.WriteFile(output, resp.Body, 0o644); err != nil {
		fmt.Printf("❌ Error writing %s: %v\n", output, err)
		os.Exit(1)
	}
	fmt.Printf("✅ Receipt written to %s\n", output)
}
