package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"eventpulse/config"
	"eventpulse/scraper/eventbrite"
	"eventpulse/services"
	"eventpulse/social"
	"eventpulse/storage"
	"eventpulse/trends"
	"eventpulse/utils"
)

func main() {
	var (
		keyword         = flag.String("keyword", "", "Search keyword (e.g. 'Taylor Swift')")
		date            = flag.String("date", "", "YYYY-MM-DD (single date) or start_date,end_date")
		out             = flag.String("out", "", "Custom output JSON file (optional)")
		eventbriteToken = flag.String("eventbrite_token", "", "Eventbrite API token (deprecated)")
		verbose         bool
	)
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.Parse()

	if *keyword == "" || *date == "" {
		fmt.Fprintln(os.Stderr, "error: --keyword and --date are required")
		flag.Usage()
		os.Exit(2)
	}

	logger := utils.NewLogger(verbose)
	cfg := config.Load()
	if *eventbriteToken != "" {
		cfg.EventbriteToken = *eventbriteToken
	}

	start, end, err := services.ParseDateInput(*date)
	if err != nil {
		logger.Error("Invalid --date value: %v", err)
		os.Exit(1)
	}

	outputPath := *out
	if outputPath == "" {
		outputPath = filepath.Join(cfg.ResultsDir, storage.OutputFilename(*keyword, time.Now()))
	}

	logger.Info("=== Event Popularity Extraction ===")
	logger.Info("Keyword: %q | Date input: %s | Output: %s", *keyword, *date, outputPath)

	aggregator := services.NewAggregator(cfg, logger,
		eventbrite.New(cfg, logger),
		social.NewClient(cfg, logger),
		trends.NewClient(cfg, logger),
	)

	report := aggregator.Run(*keyword, start, end)

	writer := storage.NewJSONWriter(outputPath)
	if err := writer.Write(report); err != nil {
		logger.Error("Failed to write report: %v", err)
		os.Exit(1)
	}

	logger.Info("Saved results to: %s", outputPath)
}
