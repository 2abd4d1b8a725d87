package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finview/internal/analytics"
	"github.com/dvloznov/finview/internal/ingest"
	"github.com/dvloznov/finview/internal/insights"
	"github.com/dvloznov/finview/internal/logger"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(log)
	case "insights":
		runInsights(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("FinView CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze   Parse a transaction CSV and print summary statistics")
	fmt.Println("  insights  Ask the model for visualization ideas and date ranges")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runAnalyze(log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	file := fs.String("file", "", "Path to the transaction CSV")
	top := fs.Int("top", analytics.TopCategoriesBar, "How many categories to show")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	raw := readFile(log, *file)

	parser := ingest.NewParser(logger.WithComponent(log, "ingest"))
	txs, stats, err := parser.Parse(raw)
	if err != nil {
		log.Fatal().Err(err).Msg("Parse failed")
	}
	if len(txs) == 0 {
		log.Fatal().Msg("No valid transaction data found in the file")
	}

	summary := analytics.Summarize(txs)

	fmt.Printf("Transactions: %d parsed, %d skipped\n\n", stats.Parsed, stats.Skipped)
	fmt.Printf("Total spending:      %.2f\n", summary.TotalSpending)
	fmt.Printf("Spending entries:    %d\n", summary.TransactionCount)
	fmt.Printf("Average transaction: %.2f\n\n", summary.AverageTransaction)

	fmt.Println("Top spending categories:")
	for i, ct := range analytics.CategoryTotals(txs, *top) {
		fmt.Printf("  %2d. %-20s %10.2f\n", i+1, ct.Category, ct.Total)
	}

	daily := analytics.DailyTotals(txs)
	if len(daily) >= 2 {
		fmt.Printf("\nDaily spending (%s to %s, %d days with spend):\n",
			daily[0].Day, daily[len(daily)-1].Day, len(daily))
		for _, dt := range daily {
			fmt.Printf("  %s  %10.2f\n", dt.Day, dt.Total)
		}
	}
}

func runInsights(log zerolog.Logger) {
	fs := flag.NewFlagSet("insights", flag.ExitOnError)
	file := fs.String("file", "", "Path to the transaction CSV")
	model := fs.String("model", "", "Gemini model name (default "+insights.DefaultModelName+")")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	raw := readFile(log, *file)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	svc := insights.NewService(
		insights.NewGeminiGenerator(*model),
		logger.WithComponent(log, "insights"),
	)

	bundle := svc.Generate(ctx, raw)

	if bundle.VisualizationsErr != nil {
		fmt.Fprintf(os.Stderr, "Visualization suggestions unavailable: %v\n", bundle.VisualizationsErr)
	} else {
		fmt.Println("Suggested visualizations:")
		fmt.Println("  " + bundle.Visualizations.Descriptions)
	}

	fmt.Println()

	if bundle.DateRangesErr != nil {
		fmt.Fprintf(os.Stderr, "Date range suggestions unavailable: %v\n", bundle.DateRangesErr)
	} else {
		fmt.Println("Suggested analysis windows:")
		for _, dr := range bundle.DateRanges {
			fmt.Printf("  %s to %s: %s\n", dr.StartDate, dr.EndDate, dr.Reason)
		}
	}

	// One failed call still leaves the other usable; only a total loss
	// is a non-zero exit.
	if bundle.VisualizationsErr != nil && bundle.DateRangesErr != nil {
		os.Exit(1)
	}
}

func readFile(log zerolog.Logger, path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to read file")
	}
	return string(data)
}
