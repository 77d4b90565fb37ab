// lineproc - invoice line interpretation from the command line.
//
// Usage:
//
//	lineproc process --file invoice.xlsx --vendor food_supply [options]
//	lineproc validate --subtotal 100 --tps 5 --tvq 10.47 --total 115.47
//	lineproc vendors
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kitchencommand/invoice-line-engine/internal/ingest"
	"github.com/kitchencommand/invoice-line-engine/internal/models"
	"github.com/kitchencommand/invoice-line-engine/internal/services"
	"github.com/kitchencommand/invoice-line-engine/internal/vendors"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "lineproc",
		Usage:   "Interpret and reconcile vendor invoice lines",
		Version: version,
		Commands: []*cli.Command{
			processCommand(),
			validateCommand(),
			vendorsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func processCommand() *cli.Command {
	return &cli.Command{
		Name:  "process",
		Usage: "Process invoice lines from a spreadsheet export",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the invoice export (.xlsx or .csv)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "vendor",
				Aliases: []string{"v"},
				Value:   "generic",
				Usage:   "Vendor type (packaging, food_supply, generic)",
			},
			&cli.StringFlag{
				Name:  "sheet",
				Usage: "Workbook sheet name (default: first sheet)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"o"},
				Value:   "table",
				Usage:   "Output format (table, json)",
			},
			&cli.BoolFlag{
				Name:  "anomalies-only",
				Usage: "Show only lines with anomalies",
			},
		},
		Action: runProcess,
	}
}

func runProcess(c *cli.Context) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	path := c.String("file")
	var lines []models.RawLine
	var err error
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		lines, err = ingest.LoadCSV(path, nil, logger)
	} else {
		lines, err = ingest.LoadXLSX(path, c.String("sheet"), nil, logger)
	}
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("no invoice lines found in %s", path)
	}

	validator := services.NewMathValidator(models.DefaultValidationConfig(), models.DefaultTaxConfig())
	registry := vendors.NewRegistry(validator)
	handler, err := registry.Get(c.String("vendor"))
	if err != nil {
		return err
	}

	processed, summary := handler.ProcessLines(lines, ingest.DefaultProfile())

	if c.Bool("anomalies-only") {
		filtered := processed[:0]
		for _, line := range processed {
			if len(line.Anomalies) > 0 {
				filtered = append(filtered, line)
			}
		}
		processed = filtered
	}

	if c.String("format") == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Lines   []models.ProcessedLine `json:"lines"`
			Summary models.Summary         `json:"summary"`
		}{processed, summary})
	}

	printTable(processed, summary)
	return nil
}

func printTable(lines []models.ProcessedLine, summary models.Summary) {
	fmt.Printf("%-40s %-8s %8s %10s %10s  %s\n",
		"DESCRIPTION", "TYPE", "QTY", "TOTAL", "MATH", "ANOMALIES")
	for _, line := range lines {
		math := "-"
		if line.Math != nil {
			math = fmt.Sprintf("%s/%d", line.Math.Tier, line.Math.Confidence)
		}
		var notes []string
		for _, a := range line.Anomalies {
			notes = append(notes, fmt.Sprintf("%s:%s", a.Severity, a.Code))
		}
		fmt.Printf("%-40s %-8s %8.2f %10.2f %10s  %s\n",
			truncate(line.Description, 40), line.LineType, line.Quantity,
			line.TotalPrice, math, strings.Join(notes, ","))
	}

	fmt.Println()
	fmt.Printf("Lines: %d  Subtotal: %.2f\n", summary.TotalLines, summary.LineSubtotal)
	for t, n := range summary.CountsByType {
		fmt.Printf("  %-8s %d\n", t, n)
	}
	if len(summary.AnomalyCounts) > 0 {
		fmt.Printf("Anomalies:")
		for sev, n := range summary.AnomalyCounts {
			fmt.Printf(" %s=%d", sev, n)
		}
		fmt.Println()
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate invoice totals through the tax cascade",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "subtotal", Required: true, Usage: "Stated subtotal"},
			&cli.Float64Flag{Name: "freight", Usage: "Freight / delivery charge"},
			&cli.Float64Flag{Name: "fuel", Usage: "Fuel surcharge"},
			&cli.Float64Flag{Name: "tps", Required: true, Usage: "Stated TPS (GST)"},
			&cli.Float64Flag{Name: "tvq", Required: true, Usage: "Stated TVQ (QST)"},
			&cli.Float64Flag{Name: "total", Required: true, Usage: "Stated grand total"},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"o"},
				Value:   "table",
				Usage:   "Output format (table, json)",
			},
		},
		Action: runValidate,
	}
}

func runValidate(c *cli.Context) error {
	validator := services.NewMathValidator(models.DefaultValidationConfig(), models.DefaultTaxConfig())
	result := validator.ValidateCascade(nil, models.InvoiceTotals{
		Subtotal:      c.Float64("subtotal"),
		Freight:       c.Float64("freight"),
		FuelSurcharge: c.Float64("fuel"),
		TPS:           c.Float64("tps"),
		TVQ:           c.Float64("tvq"),
		Total:         c.Float64("total"),
	})

	if c.String("format") == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		for _, stage := range []services.CascadeStage{
			result.Subtotal, result.TPS, result.TVQ, result.GrandTotal,
		} {
			status := "OK"
			if !stage.IsValid {
				status = "MISMATCH"
			}
			fmt.Printf("%-12s expected %10.2f  stated %10.2f  diff %8.2f  %s\n",
				stage.Name, stage.Expected, stage.Actual, stage.Difference, status)
		}
	}

	if !result.AllValid {
		return cli.Exit("invoice totals do not reconcile", 2)
	}
	return nil
}

func vendorsCommand() *cli.Command {
	return &cli.Command{
		Name:  "vendors",
		Usage: "List available vendor handlers",
		Action: func(c *cli.Context) error {
			validator := services.NewMathValidator(models.DefaultValidationConfig(), models.DefaultTaxConfig())
			registry := vendors.NewRegistry(validator)
			for _, t := range registry.Types() {
				h, err := registry.Get(t)
				if err != nil {
					continue
				}
				fmt.Printf("%-12s %s\n", h.Type(), h.Label())
			}
			return nil
		},
	}
}
