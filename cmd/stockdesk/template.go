package main

import (
	"fmt"
	"os"

	"github.com/datsun80zx/stockdesk/internal/schema"
)

func handleTemplate(args []string) {
	output, args := parseFlag(args, "output")

	if len(args) < 1 {
		fmt.Println("Error: template requires an entity type")
		fmt.Println("Available types: products, customers, vendors, receipts")
		os.Exit(1)
	}

	kind, err := schema.ParseKind(args[0])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	filename, content, err := schema.Template(kind)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if output == "" {
		output = filename
	}

	if err := os.WriteFile(output, content, 0o644); err != nil {
		fmt.Printf("❌ Error writing template: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Template written to %s\n", output)
	fmt.Println()
	fmt.Println("💡 Fill it in, then run:")
	fmt.Printf("   stockdesk import %s --kind %s\n", output, kind)
}
