package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/datsun80zx/stockdesk/internal/schema"
)

func handleExport(ctx context.Context, a *app, args []string) {
	output, args := parseFlag(args, "output")

	if len(args) < 1 {
		fmt.Println("Error: export requires an entity type")
		fmt.Println("Available types: products, customers, vendors, receipts")
		os.Exit(1)
	}

	kind, err := schema.ParseKind(args[0])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	a.requireUser()

	entities, err := a.client.ListKind(ctx, kind)
	if err != nil {
		fmt.Printf("❌ Error loading %s: %v\n", kind, err)
		os.Exit(1)
	}

	content, err := schema.Export(kind, entities)
	if errors.Is(err, schema.ErrNothingToExport) {
		fmt.Println("⚠️  No data to export")
		return
	}
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	if output == "" {
		output = schema.ExportFilename(kind, time.Now())
	}
	if err := os.WriteFile(output, content, 0o644); err != nil {
		fmt.Printf("❌ Error writing export: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Exported %s to %s\n", kind, output)
	fmt.Println()
	fmt.Println("💡 The file can be edited and imported again:")
	fmt.Printf("   stockdesk import %s --kind %s\n", output, kind)
}
