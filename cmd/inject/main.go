// Package main provides the inject command that renders the JSON artifact
// into section fragments and writes them into the site's HTML document.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"pmsync/internal/config"
	"pmsync/internal/logger"
	"pmsync/internal/models"
	"pmsync/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	artifactPath := flag.String("artifact", "", "Path to the JSON artifact (overrides config output path)")
	htmlPath := flag.String("html", "", "Path to the HTML document (overrides config)")
	outputPath := flag.String("output", "", "Where to write the updated document (default: in place)")
	noBackup := flag.Bool("no-backup", false, "Skip the .bak backup before overwriting")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	cfg := loadConfig(*configFile)

	if *htmlPath != "" {
		cfg.Site.HTMLPath = *htmlPath
	}

	if *noBackup {
		cfg.Site.CreateBackup = false
	}

	artifact := cfg.Sync.Output.Path
	if *artifactPath != "" {
		artifact = *artifactPath
	}

	target := cfg.Site.HTMLPath

	destination := target
	if *outputPath != "" {
		destination = *outputPath
	}

	logg := logger.NewLogger(cfg.Sync.Logging.Level)

	fmt.Println("💉 Programme Musical — Section Injector")
	fmt.Printf("Artifact: %s\n", artifact)
	fmt.Printf("Document: %s → %s\n\n", target, destination)

	fmt.Println("⏳ Loading artifact...")

	data, err := models.LoadArtifact(artifact)
	if err != nil {
		log.Fatalf("❌ Failed to load artifact: %v\n", err)
	}

	fmt.Printf("✅ Loaded %d pieces (synced %s)\n\n",
		data.Metadata.TotalPieces, data.Metadata.SyncDate.Format("2006-01-02 15:04"))

	publisher, err := pipeline.NewPublisher(cfg, logg)
	if err != nil {
		log.Fatalf("❌ Failed to create publisher: %v\n", err)
	}

	fmt.Println("📊 Rendering and injecting sections...")

	result, err := publisher.Publish(data, target, destination)
	if err != nil {
		log.Fatalf("❌ Injection failed: %v\n", err)
	}

	if result.Stats.Healed {
		fmt.Println("⚠️  Corrupted anchor content detected and cleared before injection")
	}

	if result.Stats.CreatedAnchor {
		fmt.Println("⚠️  Anchor was missing; created inside the fallback container")
	}

	if result.Duplicates > 0 {
		fmt.Printf("⚠️  Dropped %d duplicate pieces\n", result.Duplicates)
	}

	fmt.Printf("✅ Injected %d sections, %d piece cards\n", result.Sections, result.Pieces)
	fmt.Printf("✅ Wrote: %s\n", destination)

	fmt.Println("\n✨ Injection complete!")
}

func loadConfig(configFile string) *config.Config {
	if configFile != "" {
		fmt.Printf("⚙️  Loading configuration from: %s\n", configFile)

		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			log.Fatalf("❌ Failed to load config: %v\n", err)
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

	// CLI-only mode still needs the site defaults.
	return config.DefaultConfig()
}

func printUsage() {
	fmt.Println("Usage: ./bin/inject [OPTIONS]")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/inject -config configs/sync.yaml")
	fmt.Println("  ./bin/inject -artifact data/pieces.json -html index.html")
	fmt.Println("  ./bin/inject -artifact data/pieces.json -html index.html -output build/index.html")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
}
