package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/datsun80zx/stockdesk/internal/apiclient"
)

func handleAsk(ctx context.Context, a *app, args []string) {
	sqlMode, args := hasFlag(args, "sql")
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		fmt.Println("Error: ask requires a prompt")
		fmt.Println(`Usage: stockdesk ask [--sql] "which products are low on stock?"`)
		os.Exit(1)
	}

	a.requireUser()

	mode := apiclient.ModeAssist
	if sqlMode {
		mode = apiclient.ModeSQL
	}

	reply, err := a.client.AIQuery(ctx, prompt, mode)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Println(reply.Text)
	if len(reply.Data) > 0 {
		fmt.Println()
		printRows(reply.Data)
	}
}

// printRows prints query results with columns in name order
func printRows(rows []map[string]any) {
	seen := map[string]bool{}
	var columns []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)

	widths := make([]int, len(columns))
	cells := make([][]string, len(rows))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for i, c := range columns {
			v := ""
			if row[c] != nil {
				v = fmt.Sprint(row[c])
			}
			cells[r][i] = v
			widths[i] = max(widths[i], len(v))
		}
	}

	for i, c := range columns {
		fmt.Printf("%-*s  ", widths[i], c)
	}
	fmt.Println()
	for i := range columns {
		fmt.Print(strings.Repeat("─", widths[i]) + "  ")
	}
	fmt.Println()
	for _, row := range cells {
		for i, v := range row {
			fmt.Printf("%-*s  ", widths[i], v)
		}
		fmt.Println()
	}
	fmt.Printf("\n%d row(s)\n", len(rows))
}
