package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/datsun80zx/stockdesk/internal/config"
	"github.com/datsun80zx/stockdesk/internal/logger"
)

const usage = `stockdesk - inventory and CRM console

Usage:
  stockdesk import <file.csv> [--kind KIND] [--report FILE]
                                            Import products, customers, vendors or receipts
  stockdesk template <kind> [--output FILE] Write the CSV template for an entity type
  stockdesk list                            List import history
  stockdesk export <kind> [--output FILE]   Export every entity of a type as CSV
  stockdesk dashboard                       Show headline counters and recent activity
  stockdesk products [list]                 List products
  stockdesk products update <id> [--nom X] [--designation X] [--marque X]
                    [--fournisseur X] [--quantite N] [--prixtva N]
                                            Update a product
  stockdesk products delete <id>            Delete a product
  stockdesk customers [list]                List customers
  stockdesk customers delete <id>           Delete a customer
  stockdesk vendors [list]                  List vendors
  stockdesk vendors update <id> [--name X] [--contact X] [--phone X]
                    [--status X] [--lead-time N] [--min-order N] [--notes X]
                                            Update a vendor
  stockdesk vendors delete <id>             Delete a vendor
  stockdesk order products                  Show the catalog with available stock
  stockdesk order customers                 Show customers
  stockdesk order create --customer ID [--date YYYY-MM-DD] PRODUCT_ID:QTY...
                                            Compose and submit a sales order
  stockdesk receipts [list]                 List sales receipts
  stockdesk receipts pdf <id> [--output FILE]
                                            Download a receipt PDF
  stockdesk receipts delete <id>            Delete a receipt
  stockdesk adjust <productId> <INCREASE|DECREASE> <qty>
                                            Record a stock adjustment
  stockdesk adjust list                     List stock adjustments
  stockdesk ask [--sql] <prompt>            Ask the assistant
  stockdesk whoami                          Show the signed-in user's profile
  stockdesk serve                           Run the console backend

Entity types (--kind, template, export):
  products (default), customers, vendors, receipts

Configuration (environment or .env):
  STOCKDESK_API_URL      REST backend (default https://products-api.zeabur.app)
  STOCKDESK_TOKEN        ID token used for every call
  IMPORT_RATE_LIMIT      Max create calls per second during import (0 = unlimited)
  DATABASE_URL           Postgres DSN; enables import history
  REDIS_URL              Redis URL; shares drafts and import locks between servers
  SERVER_ADDR            Listen address for serve (default :8080)

Examples:
  stockdesk template customers
  stockdesk import customers.csv --kind customers
  stockdesk import products.csv --report products-import.html
  stockdesk order create --customer 3 7:2 8:10
  stockdesk export products --output catalog.csv
  stockdesk products update 7 --quantite 12 --prixtva 89.90
  stockdesk receipts pdf 501 --output receipt-501.pdf
  stockdesk ask "which products are out of stock?"
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "help" || command == "-h" || command == "--help" {
		fmt.Print(usage)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, log)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	args := os.Args[2:]

	switch command {
	case "import":
		handleImport(ctx, a, args)
	case "template":
		handleTemplate(args)
	case "list":
		handleList(ctx, a)
	case "export":
		handleExport(ctx, a, args)
	case "dashboard":
		handleDashboard(ctx, a)
	case "products":
		handleProducts(ctx, a, args)
	case "customers":
		handleCustomers(ctx, a, args)
	case "vendors":
		handleVendors(ctx, a, args)
	case "order":
		handleOrder(ctx, a, args)
	case "receipts":
		handleReceipts(ctx, a, args)
	case "adjust":
		handleAdjust(ctx, a, args)
	case "ask":
		handleAsk(ctx, a, args)
	case "whoami":
		handleWhoami(ctx, a)
	case "serve":
		handleServe(ctx, a)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}
