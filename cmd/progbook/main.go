// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/progbook/internal/config"
	"github.com/progbook/internal/extract"
	"github.com/progbook/internal/logger"
	"github.com/progbook/internal/sheet"
	"github.com/progbook/internal/watch"
)

var (
	configPath = flag.String("config", "", "Path to config file (default: ~/.progbook/config.yaml)")
	pdfPath    = flag.String("pdf", "", "Program-book PDF to extract (overrides config)")
	startPage  = flag.Int("start-page", 0, "1-based page the program listing starts on (overrides config)")
	outputPath = flag.String("out", "", "Workbook to append rows to (overrides config)")
	watchMode  = flag.Bool("watch", false, "Watch directories for PDFs instead of a one-shot run")
	watchDirs  = flag.String("watch-dirs", "", "Comma-separated list of directories to watch (overrides config)")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	// Load .env if present; values feed the PROGBOOK_* config overrides
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	watchDirList := []string{}
	if *watchDirs != "" {
		for _, dir := range strings.Split(*watchDirs, ",") {
			dir = strings.TrimSpace(dir)
			if dir != "" {
				watchDirList = append(watchDirList, dir)
			}
		}
	}
	config.ApplyCLIFlags(cfg, *pdfPath, *startPage, *outputPath, watchDirList)

	log, err := logger.Init(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()
	log.SetDebug(*debug)

	runID := config.NewRunID()
	logger.Printf("Run %s starting", runID)
	logger.Printf("  Output workbook: %s", cfg.OutputPath)
	logger.Printf("  Start page: %d", cfg.StartPage)

	if *watchMode {
		runWatch(cfg)
		return
	}

	if cfg.PDFPath == "" {
		logger.Fatalf("No PDF configured: set pdf_path in the config or pass -pdf")
	}

	rows, err := runPipeline(cfg, cfg.PDFPath)
	if err != nil {
		logger.Fatalf("Extraction failed: %v", err)
	}
	logger.Printf("Run %s complete: %d rows appended to %s", runID, rows, cfg.OutputPath)
}

// runPipeline extracts records from one PDF, merges continuation blocks, and
// appends the result to the configured workbook with a styled header row.
func runPipeline(cfg *config.Config, pdfFile string) (int, error) {
	extractor := extract.NewExtractor(cfg.StartPage)
	records, err := extractor.Extract(pdfFile)
	if err != nil {
		return 0, err
	}
	logger.Printf("Extracted %d raw records from %s", len(records), pdfFile)

	merged := extract.Merge(records)
	logger.Printf("Merged into %d session blocks", len(merged))

	writer := sheet.NewWriter(cfg.OutputPath)
	rows, err := writer.Append(merged)
	if err != nil {
		return rows, err
	}
	if err := writer.StyleHeader(); err != nil {
		return rows, err
	}
	return rows, nil
}

// runWatch starts watch mode and blocks until SIGINT/SIGTERM.
func runWatch(cfg *config.Config) {
	if len(cfg.WatchPaths) == 0 {
		logger.Fatalf("Watch mode needs watch_paths in the config or -watch-dirs")
	}

	mgr := watch.NewManager(cfg.WatchPaths, cfg.Notify, func(pdfFile string) (int, error) {
		return runPipeline(cfg, pdfFile)
	})
	if err := mgr.Start(); err != nil {
		logger.Fatalf("Failed to start watcher: %v", err)
	}
	defer mgr.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Printf("Watching %v. Press Ctrl+C to stop.", cfg.WatchPaths)
	<-sigChan

	logger.Printf("Shutting down...")
}
