package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/datsun80zx/stockdesk/internal/models"
	"github.com/datsun80zx/stockdesk/internal/parser"
	"github.com/datsun80zx/stockdesk/internal/schema"
)

func handleProducts(ctx context.Context, a *app, args []string) {
	a.requireUser()

	if len(args) == 0 || args[0] == "list" {
		listProducts(ctx, a)
		return
	}

	switch args[0] {
	case "update":
		id, rest := entityID(args[1:], "product")
		updateProduct(ctx, a, id, rest)
	case "delete":
		id, _ := entityID(args[1:], "product")
		if err := a.client.DeleteProduct(ctx, id); err != nil {
			fmt.Printf("❌ Error deleting product: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Product %d deleted\n", id)
	default:
		fmt.Printf("Unknown products subcommand: %s\n", args[0])
		fmt.Println("Available: list, update, delete")
		os.Exit(1)
	}
}

func handleCustomers(ctx context.Context, a *app, args []string) {
	a.requireUser()

	if len(args) == 0 || args[0] == "list" {
		listCustomers(ctx, a)
		return
	}

	switch args[0] {
	case "delete":
		id, _ := entityID(args[1:], "customer")
		if err := a.client.DeleteCustomer(ctx, id); err != nil {
			fmt.Printf("❌ Error deleting customer: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Customer %d deleted\n", id)
	default:
		fmt.Printf("Unknown customers subcommand: %s\n", args[0])
		fmt.Println("Available: list, delete")
		os.Exit(1)
	}
}

func handleVendors(ctx context.Context, a *app, args []string) {
	a.requireUser()

	if len(args) == 0 || args[0] == "list" {
		listVendors(ctx, a)
		return
	}

	switch args[0] {
	case "update":
		id, rest := entityID(args[1:], "vendor")
		updateVendor(ctx, a, id, rest)
	case "delete":
		id, _ := entityID(args[1:], "vendor")
		if err := a.client.DeleteVendor(ctx, id); err != nil {
			fmt.Printf("❌ Error deleting vendor: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Vendor %d deleted\n", id)
	default:
		fmt.Printf("Unknown vendors subcommand: %s\n", args[0])
		fmt.Println("Available: list, update, delete")
		os.Exit(1)
	}
}

func entityID(args []string, label string) (int64, []string) {
	if len(args) < 1 {
		fmt.Printf("Error: a %s id is required\n", label)
		os.Exit(1)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		fmt.Printf("Error: invalid %s id %q\n", label, args[0])
		os.Exit(1)
	}
	return id, args[1:]
}

func listProducts(ctx context.Context, a *app) {
	products, err := a.client.ListProducts(ctx)
	if err != nil {
		fmt.Printf("Error listing products: %v\n", err)
		os.Exit(1)
	}

	if len(products) == 0 {
		fmt.Println("No products found")
		return
	}

	fmt.Println("Products")
	fmt.Println("══════════════════════════════════════════════════════════════════════════")
	fmt.Printf("%6s  %-28s  %-16s  %8s  %10s\n", "ID", "Name", "Brand", "Stock", "Price")
	fmt.Println("──────────────────────────────────────────────────────────────────────────")
	for _, p := range products {
		marker := ""
		if p.Quantite <= 0 {
			marker = " ⚠️"
		}
		fmt.Printf("%6d  %-28s  %-16s  %8d  %10.2f%s\n",
			p.ID, truncate(p.Nom, 28), truncate(p.Marque, 16), p.Quantite, p.PrixTVA, marker)
	}
	fmt.Println("══════════════════════════════════════════════════════════════════════════")
	fmt.Printf("Total: %d product(s)\n", len(products))
}

func listCustomers(ctx context.Context, a *app) {
	customers, err := a.client.ListCustomers(ctx)
	if err != nil {
		fmt.Printf("Error listing customers: %v\n", err)
		os.Exit(1)
	}

	if len(customers) == 0 {
		fmt.Println("No customers found")
		return
	}

	fmt.Println("Customers")
	fmt.Println("══════════════════════════════════════════════════════════════════════════")
	fmt.Printf("%6s  %-28s  %-16s  %-10s  %12s\n", "ID", "Name", "Phone", "Status", "Balance")
	fmt.Println("──────────────────────────────────────────────────────────────────────────")
	for _, cu := range customers {
		fmt.Printf("%6d  %-28s  %-16s  %-10s  %12.2f\n",
			cu.ID, truncate(cu.Name, 28), truncate(cu.Phone, 16), cu.Status, cu.OutstandingBalance)
	}
	fmt.Println("══════════════════════════════════════════════════════════════════════════")
	fmt.Printf("Total: %d customer(s)\n", len(customers))
}

func listVendors(ctx context.Context, a *app) {
	vendors, err := a.client.ListVendors(ctx)
	if err != nil {
		fmt.Printf("Error listing vendors: %v\n", err)
		os.Exit(1)
	}

	if len(vendors) == 0 {
		fmt.Println("No vendors found")
		return
	}

	fmt.Println("Vendors")
	fmt.Println("══════════════════════════════════════════════════════════════════════════")
	fmt.Printf("%6s  %-28s  %-20s  %-10s  %9s\n", "ID", "Name", "Contact", "Status", "Lead time")
	fmt.Println("──────────────────────────────────────────────────────────────────────────")
	for _, v := range vendors {
		fmt.Printf("%6d  %-28s  %-20s  %-10s  %7dd\n",
			v.ID, truncate(v.Name, 28), truncate(v.ContactPerson, 20), v.Status, v.LeadTimeDays)
	}
	fmt.Println("══════════════════════════════════════════════════════════════════════════")
	fmt.Printf("Total: %d vendor(s)\n", len(vendors))
}

func updateProduct(ctx context.Context, a *app, id int64, args []string) {
	products, err := a.client.ListProducts(ctx)
	if err != nil {
		fmt.Printf("Error listing products: %v\n", err)
		os.Exit(1)
	}

	var current *models.Product
	for i := range products {
		if products[i].ID == id {
			current = &products[i]
			break
		}
	}
	if current == nil {
		fmt.Printf("❌ Product %d not found\n", id)
		os.Exit(1)
	}

	changed, err := applyProductFlags(current, args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if !changed {
		fmt.Println("⚠️  Nothing to update")
		fmt.Println("Flags: --nom --designation --marque --fournisseur --quantite --prixtva")
		return
	}

	updated, err := a.client.UpdateProduct(ctx, id, current)
	if err != nil {
		fmt.Printf("❌ Error updating product: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Product %d updated: %s (stock %d, %.2f)\n", id, updated.Nom, updated.Quantite, updated.PrixTVA)
}

func updateVendor(ctx context.Context, a *app, id int64, args []string) {
	vendors, err := a.client.ListVendors(ctx)
	if err != nil {
		fmt.Printf("Error listing vendors: %v\n", err)
		os.Exit(1)
	}

	var current *models.Vendor
	for i := range vendors {
		if vendors[i].ID == id {
			current = &vendors[i]
			break
		}
	}
	if current == nil {
		fmt.Printf("❌ Vendor %d not found\n", id)
		os.Exit(1)
	}

	changed, err := applyVendorFlags(current, args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if !changed {
		fmt.Println("⚠️  Nothing to update")
		fmt.Println("Flags: --name --contact --phone --status --lead-time --min-order --notes")
		return
	}

	updated, err := a.client.UpdateVendor(ctx, id, current)
	if err != nil {
		fmt.Printf("❌ Error updating vendor: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Vendor %d updated: %s\n", id, updated.Name)
}

// lookupFlag is parseFlag that also reports whether the flag was given, so
// --notes "" can clear a field
func lookupFlag(args []string, name string) (string, bool, []string) {
	value, rest := parseFlag(args, name)
	return value, len(rest) < len(args), rest
}

// applyProductFlags overwrites the fields named by flags and validates the
// result. It reports whether any field was given.
func applyProductFlags(p *models.Product, args []string) (bool, error) {
	changed := false
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"nom", &p.Nom},
		{"designation", &p.Designation},
		{"marque", &p.Marque},
		{"fournisseur", &p.Fournisseur},
	} {
		value, ok, rest := lookupFlag(args, f.name)
		if ok {
			*f.dst = value
			changed = true
		}
		args = rest
	}

	if value, ok, rest := lookupFlag(args, "quantite"); ok {
		n, err := parser.ParseInt(value, "quantite")
		if err != nil {
			return false, err
		}
		p.Quantite = n
		changed = true
		args = rest
	}
	if value, ok, rest := lookupFlag(args, "prixtva"); ok {
		d, err := parser.ParseDecimal(value, "prixtva")
		if err != nil {
			return false, err
		}
		p.PrixTVA = d.InexactFloat64()
		changed = true
		args = rest
	}

	if len(args) > 0 {
		return false, fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	}
	if strings.TrimSpace(p.Nom) == "" || strings.TrimSpace(p.Designation) == "" {
		return false, fmt.Errorf("nom and designation are required")
	}
	return changed, schema.Validate(p)
}

// applyVendorFlags is applyProductFlags for vendors
func applyVendorFlags(v *models.Vendor, args []string) (bool, error) {
	changed := false
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"name", &v.Name},
		{"contact", &v.ContactPerson},
		{"phone", &v.Phone},
		{"status", &v.Status},
		{"notes", &v.Notes},
	} {
		value, ok, rest := lookupFlag(args, f.name)
		if ok {
			*f.dst = value
			changed = true
		}
		args = rest
	}
	v.Status = strings.ToUpper(v.Status)

	if value, ok, rest := lookupFlag(args, "lead-time"); ok {
		n, err := parser.ParseInt(value, "lead-time")
		if err != nil {
			return false, err
		}
		v.LeadTimeDays = n
		changed = true
		args = rest
	}
	if value, ok, rest := lookupFlag(args, "min-order"); ok {
		d, err := parser.ParseDecimal(value, "min-order")
		if err != nil {
			return false, err
		}
		v.MinimumOrderValue = d.InexactFloat64()
		changed = true
		args = rest
	}

	if len(args) > 0 {
		return false, fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	}
	if strings.TrimSpace(v.Name) == "" {
		return false, fmt.Errorf("name is required")
	}
	return changed, schema.Validate(v)
}
