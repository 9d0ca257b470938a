package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/datsun80zx/stockdesk/internal/importer"
	"github.com/datsun80zx/stockdesk/internal/report"
	"github.com/datsun80zx/stockdesk/internal/schema"
)

const errorSummaryLimit = 3

func handleImport(ctx context.Context, a *app, args []string) {
	kindArg, args := parseFlag(args, "kind")
	reportPath, args := parseFlag(args, "report")

	if len(args) < 1 {
		fmt.Println("Error: import requires a CSV file")
		fmt.Println("Usage: stockdesk import <file.csv> [--kind KIND] [--report FILE]")
		os.Exit(1)
	}

	kind := schema.KindProducts
	if kindArg != "" {
		k, err := schema.ParseKind(kindArg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		kind = k
	}

	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("Error: file not found: %s\n", path)
		os.Exit(1)
	}

	a.requireUser()
	runImport(ctx, a, path, kind, reportPath)
}

func runImport(ctx context.Context, a *app, path string, kind schema.Kind, reportPath string) {
	imp, err := a.newImporter(ctx)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	file, err := importer.FileFromPath(path)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	panel := importer.NewSession(imp)
	if err := panel.SetKind(kind); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if err := panel.Select(file); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Starting import...")
	fmt.Printf("  File: %s\n", file.Name)
	fmt.Printf("  Type: %s\n", kind)
	fmt.Println()

	result, err := panel.Run(ctx, func(percent int, stats importer.Stats) {
		fmt.Printf("\r  Progress: %3d%%  (✅ %d  ❌ %d)", percent, stats.Success, stats.Failed)
	})
	if result != nil && result.TotalRows > 0 {
		fmt.Println()
		fmt.Println()
	}

	if err != nil {
		switch {
		case result != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
			fmt.Println("⚠️  Import interrupted")
			printResult(result)
		case errors.Is(err, importer.ErrImportInProgress):
			fmt.Println("ℹ️  This file is already being imported")
		default:
			fmt.Printf("❌ Import failed: %v\n", err)
		}
		os.Exit(1)
	}

	if result.Succeeded() {
		fmt.Println("✅ " + result.Message())
	} else {
		fmt.Println("⚠️  " + result.Message())
	}
	fmt.Println()
	printResult(result)

	if reportPath != "" {
		if err := writeImportReport(reportPath, result); err != nil {
			fmt.Printf("❌ Error writing report: %v\n", err)
			os.Exit(1)
		}
		fmt.Println()
		fmt.Printf("📄 Report written to %s\n", reportPath)
	}

	if a.cfg.DatabaseURL != "" {
		fmt.Println()
		fmt.Println("💡 Next steps:")
		fmt.Println("   stockdesk list     # View import history")
	}
}

func printResult(result *importer.Result) {
	fmt.Printf("Run ID:     %s\n", result.RunID)
	fmt.Printf("Rows:       %d\n", result.TotalRows)
	fmt.Printf("Succeeded:  %d\n", result.Stats.Success)
	fmt.Printf("Failed:     %d\n", result.Stats.Failed)
	fmt.Printf("Duration:   %v\n", result.Duration.Round(time.Millisecond))

	if len(result.Stats.Errors) > 0 {
		fmt.Println()
		fmt.Println("Errors:")
		for _, e := range result.Stats.Summary(errorSummaryLimit) {
			fmt.Printf("   - %s\n", e)
		}
	}
}

func writeImportReport(path string, result *importer.Result) error {
	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := renderer.RenderImport(f, result); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}
