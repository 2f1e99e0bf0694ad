package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/insightdelivered/ledger-analyzer/internal/api"
	"github.com/insightdelivered/ledger-analyzer/internal/engine"
	"github.com/insightdelivered/ledger-analyzer/internal/loader"
	"github.com/insightdelivered/ledger-analyzer/internal/logger"
	"github.com/insightdelivered/ledger-analyzer/internal/models"
	"github.com/insightdelivered/ledger-analyzer/internal/writer"
)

const version = "1.0.0"

func main() {
	// CLI flags
	policyFlag := flag.String("policy", "vendor", "Balance policy: vendor or common-account")
	outputFlag := flag.String("output", "", "Output report path (defaults to input filename with _report.xlsx suffix)")
	csvFlag := flag.Bool("csv", false, "Write a CSV report instead of a spreadsheet")
	serveFlag := flag.Bool("serve", false, "Start the HTTP API instead of processing files")
	addrFlag := flag.String("addr", ":8080", "Listen address for --serve")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Ledger Negative Balance Analyzer
by Insight Delivered (QEA AutoLens)

Scans accounting ledger workbooks (.xlsx, .xls) and reports every
account and day on which the running balance goes negative.

Usage:
  ledger-analyzer [flags] <ledger.xlsx> [ledger2.xlsx ...]
  ledger-analyzer --serve [--addr=:8080]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Analyze with the vendor policy (default)
  ledger-analyzer razao.xlsx

  # Treat negative opening balances as errors in their own right
  ledger-analyzer --policy=common-account razao.xlsx

  # Custom report path, CSV output
  ledger-analyzer --csv --output=errors.csv razao.xlsx

  # Run as an HTTP service
  ledger-analyzer --serve --addr=:9000

Policies:
  vendor          - Negative opening balances only seed the walk
  common-account  - Negative opening balances are reported as errors too
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("ledger-analyzer v%s\n", version)
		os.Exit(0)
	}

	if *serveFlag {
		serve(*addrFlag)
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	policy, err := models.ParsePolicy(*policyFlag)
	if err != nil {
		fatalf("%v. Supported: vendor, common-account\n", err)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(inputPath, policy, *outputFlag, *csvFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func serve(addr string) {
	log := logger.New()
	app := api.NewServer(log).App()

	log.Info().Str("addr", addr).Str("version", version).Msg("starting ledger-analyzer API")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func processFile(inputPath string, policy models.Policy, outputPath string, asCSV bool) error {
	// Validate input file
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".xlsx" && ext != ".xls" {
		return fmt.Errorf("expected .xlsx or .xls file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	rows, err := loader.LoadFile(inputPath)
	if err != nil {
		return fmt.Errorf("workbook load failed: %w", err)
	}

	fmt.Printf("  Loaded %d ledger row(s)\n", len(rows))

	result, err := engine.Analyze(rows, policy)
	if err != nil {
		return err
	}

	fmt.Printf("  Analyzed %d account(s) under the %s policy\n", result.AccountCount, result.Policy)
	fmt.Printf("  Found %d negative balance event(s) across %d account(s)\n", len(result.Detail), len(result.Summary))

	if len(result.Detail) == 0 {
		fmt.Println("  No negative balances detected.")
	}

	// Determine output path
	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		if asCSV {
			outPath = base + "_report.csv"
		} else {
			outPath = base + "_report.xlsx"
		}
	}

	if asCSV {
		w := &writer.CSVWriter{IncludeHeader: true}
		if err := w.WriteToFile(outPath, result); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
	} else {
		w := &writer.ReportWriter{}
		if err := w.WriteToFile(outPath, result); err != nil {
			return fmt.Errorf("report write failed: %w", err)
		}
	}

	fmt.Printf("  Output: %s\n", outPath)
	fmt.Println("  Done.")
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
