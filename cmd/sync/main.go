// Package main provides the sync command that queries Notion databases and
// writes the JSON piece artifact.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"pmsync/internal/config"
	"pmsync/internal/logger"
	"pmsync/internal/notion"
	"pmsync/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	output := flag.String("output", "", "Output JSON artifact path (overrides config)")
	reportPath := flag.String("report", "", "Diagnostics report path (overrides config)")
	databaseID := flag.String("database", "", "Single Notion database ID to sync (bypasses config databases)")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	cfg := loadConfig(*configFile, *databaseID)

	if *output != "" {
		cfg.Sync.Output.Path = *output
	}

	if *reportPath != "" {
		cfg.Sync.Report.Path = *reportPath
	}

	token := os.Getenv("NOTION_TOKEN")
	if token == "" {
		log.Fatal("❌ NOTION_TOKEN environment variable is required")
	}

	logg := logger.NewLogger(cfg.Sync.Logging.Level)

	fmt.Println("🎵 Programme Musical — Notion Sync")
	fmt.Printf("Databases: %d enabled\n", len(cfg.EnabledDatabases()))
	fmt.Printf("Output: %s\n\n", cfg.Sync.Output.Path)

	fetcher, err := notion.NewFetcher(token, &cfg.Sync.Retry, logg)
	if err != nil {
		log.Fatalf("❌ Failed to create Notion fetcher: %v\n", err)
	}

	syncer := pipeline.NewSyncer(fetcher, cfg, logg)

	startTime := time.Now()

	fmt.Println("⏳ Fetching and mapping databases...")

	artifact, syncReport, err := syncer.Sync(context.Background())
	if err != nil {
		log.Fatalf("❌ Sync failed: %v\n", err)
	}

	fmt.Printf("✅ Mapped %d pieces from %d databases (%.2fs)\n\n",
		artifact.Metadata.TotalPieces, artifact.Metadata.Databases, time.Since(startTime).Seconds())

	syncReport.PrintSummary()

	fmt.Println("\n📝 Saving artifact...")

	if cfg.Sync.Output.CreateBackup {
		backupExisting(cfg.Sync.Output.Path)
	}

	ensureDir(cfg.Sync.Output.Path)

	if err := artifact.Save(cfg.Sync.Output.Path, cfg.Sync.Output.PrettyPrint); err != nil {
		log.Fatalf("❌ Save failed: %v\n", err)
	}

	fmt.Printf("✅ Saved to: %s (hash %.12s)\n", cfg.Sync.Output.Path, artifact.Metadata.ContentHash)

	if cfg.Sync.Report.Path != "" {
		ensureDir(cfg.Sync.Report.Path)

		if err := syncReport.Save(cfg.Sync.Report.Path); err != nil {
			fmt.Printf("⚠️  Could not save report: %v\n", err)
		} else {
			fmt.Printf("✅ Report saved to: %s\n", cfg.Sync.Report.Path)
		}
	}

	fmt.Println("\n✨ Sync complete!")
}

// loadConfig resolves the configuration: explicit file, single-database CLI
// mode, or the default config path.
func loadConfig(configFile, databaseID string) *config.Config {
	if configFile != "" {
		fmt.Printf("⚙️  Loading configuration from: %s\n", configFile)

		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			log.Fatalf("❌ Failed to load config: %v\n", err)
		}

		return cfg
	}

	if databaseID != "" {
		fmt.Println("⚙️  Using command-line arguments")

		cfg := config.DefaultConfig()
		cfg.Sync.Databases = []config.DatabaseConfig{
			{ID: databaseID, Name: "CLI Database", Enabled: true},
		}

		return cfg
	}

	defaultConfig := "configs/sync.yaml"
	if _, err := os.Stat(defaultConfig); err == nil {
		fmt.Printf("⚙️  Loading default configuration: %s\n", defaultConfig)

		cfg, err := config.LoadConfig(defaultConfig)
		if err != nil {
			log.Fatalf("❌ Failed to load default config: %v\n", err)
		}

		return cfg
	}

	log.Fatal("❌ Please provide -config file or -database flag, or place configs/sync.yaml in working directory")

	return nil
}

func backupExisting(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}

	backupPath := path + ".bak"
	if err := os.Rename(path, backupPath); err != nil {
		fmt.Printf("⚠️  Could not create backup: %v\n", err)
	} else {
		fmt.Printf("💾 Backed up existing file to: %s\n", backupPath)
	}
}

func ensureDir(path string) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("❌ Could not create output directory: %v\n", err)
		}
	}
}

func printUsage() {
	fmt.Println("Usage: ./bin/sync [OPTIONS]")
	fmt.Println()
	fmt.Println("Reads NOTION_TOKEN from the environment.")
	fmt.Println()
	fmt.Println("Modes:")
	fmt.Println("  1. Config-based:   ./bin/sync -config configs/sync.yaml")
	fmt.Println("  2. Default config: ./bin/sync (reads configs/sync.yaml if exists)")
	fmt.Println("  3. Single database: ./bin/sync -database <ID> -output pieces.json")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
}
