// Package main provides the unified worker that runs the whole pipeline:
// Notion sync, section rendering and HTML injection in one invocation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pmsync/internal/config"
	"pmsync/internal/logger"
	"pmsync/internal/notion"
	"pmsync/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "configs/sync.yaml", "Path to YAML configuration file")
	htmlPath := flag.String("html", "", "Path to the HTML document (overrides config)")

	flag.Parse()

	log := logger.NewLogger("info")

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to load config: %v", err))
		os.Exit(1)
	}

	if *htmlPath != "" {
		cfg.Site.HTMLPath = *htmlPath
	}

	token := os.Getenv("NOTION_TOKEN")
	if token == "" {
		log.Error("❌ NOTION_TOKEN environment variable is required")
		os.Exit(1)
	}

	log.Info("🚀 Starting Programme Musical Worker Pipeline")
	log.Info(fmt.Sprintf("📍 Databases: %d enabled", len(cfg.EnabledDatabases())))
	log.Info(fmt.Sprintf("🎯 Target: %s (anchor #%s)", cfg.Site.HTMLPath, cfg.Site.AnchorID))

	// Phase 1: Synchronization (Notion)
	// ---------------------------------
	log.Info("Phase 1: Synchronization (Notion fetch & mapping)...")

	startTime := time.Now()

	fetcher, err := notion.NewFetcher(token, &cfg.Sync.Retry, log)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to create fetcher: %v", err))
		os.Exit(1)
	}

	syncer := pipeline.NewSyncer(fetcher, cfg, log)

	artifact, syncReport, err := syncer.Sync(context.Background())
	if err != nil {
		log.Error(fmt.Sprintf("❌ Sync failed: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Mapped %d pieces from %d databases in %v",
		artifact.Metadata.TotalPieces, artifact.Metadata.Databases, time.Since(startTime)))

	// Phase 2: Persistence (artifact hand-off)
	// ----------------------------------------
	log.Info("Phase 2: Persistence (JSON artifact)...")

	if dir := filepath.Dir(cfg.Sync.Output.Path); dir != "." && dir != "" {
		if mkdirErr := os.MkdirAll(dir, 0755); mkdirErr != nil {
			log.Error(fmt.Sprintf("❌ Could not create output directory: %v", mkdirErr))
			os.Exit(1)
		}
	}

	if err := artifact.Save(cfg.Sync.Output.Path, cfg.Sync.Output.PrettyPrint); err != nil {
		log.Error(fmt.Sprintf("❌ Artifact save failed: %v", err))
		os.Exit(1)
	}

	if cfg.Sync.Report.Path != "" {
		if reportErr := syncReport.Save(cfg.Sync.Report.Path); reportErr != nil {
			log.Warn(fmt.Sprintf("⚠️  Could not save report: %v", reportErr))
		}
	}

	// Phase 3: Publication (render & inject)
	// --------------------------------------
	log.Info("Phase 3: Publication (render & inject)...")

	publisher, err := pipeline.NewPublisher(cfg, log)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to create publisher: %v", err))
		os.Exit(1)
	}

	result, err := publisher.Publish(artifact, cfg.Site.HTMLPath, cfg.Site.HTMLPath)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Publication failed: %v", err))
		os.Exit(1)
	}

	// Final Report
	// ------------
	log.Info("✨ Pipeline Complete!")
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Println(syncReport.DatabaseTable())
	fmt.Printf("Sections injected: %d\n", result.Sections)
	fmt.Printf("Piece cards: %d\n", result.Pieces)
	fmt.Printf("Duplicates dropped: %d\n", result.Duplicates)
	fmt.Printf("Content hash: %.12s\n", artifact.Metadata.ContentHash)
	fmt.Printf("Total Duration: %v\n", time.Since(startTime))

	if result.Stats.Healed {
		fmt.Println("⚠️  Corrupted anchor content was cleared before injection")
	}

	if len(syncReport.Warnings) > 0 {
		fmt.Printf("⚠️  Warnings: %d\n", len(syncReport.Warnings))

		for _, w := range syncReport.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Println("------------------------------------------------")
}
