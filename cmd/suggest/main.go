// Package main provides the suggest tool that proposes canonical field
// mappings for the unmapped properties recorded in a sync report. Suggestions
// are for humans to apply by hand; the sync never guesses on its own.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"pmsync/internal/mapper"
	"pmsync/internal/report"
)

func main() {
	reportPath := flag.String("report", "data/sync-report.json", "Path to the sync diagnostics report")
	threshold := flag.Float64("threshold", 0.6, "Minimum similarity score for a suggestion (0..1)")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	fmt.Println("🔎 Programme Musical — Mapping Suggestions")
	fmt.Printf("Report: %s (threshold %.2f)\n\n", *reportPath, *threshold)

	syncReport, err := report.LoadReport(*reportPath)
	if err != nil {
		log.Fatalf("❌ Failed to load report: %v\n", err)
	}

	if len(syncReport.Unmapped) == 0 {
		fmt.Println("✅ No unmapped properties — nothing to suggest.")

		return
	}

	rows := [][]string{{"Property", "Archetype", "Suggested field", "Score"}}

	withoutMatch := 0

	for _, entry := range syncReport.Unmapped {
		suggestions := mapper.Suggest(entry.Property, entry.Archetype, *threshold)
		if len(suggestions) == 0 {
			withoutMatch++

			rows = append(rows, []string{entry.Property, string(entry.Archetype), "(no match)", "-"})

			continue
		}

		for _, s := range suggestions {
			rows = append(rows, []string{
				entry.Property,
				string(entry.Archetype),
				s.Field,
				fmt.Sprintf("%.0f%%", s.Score*100),
			})
		}
	}

	fmt.Println(report.RenderTable(rows))
	fmt.Printf("\n%d unmapped properties, %d without a candidate.\n", len(syncReport.Unmapped), withoutMatch)
	fmt.Println("Apply accepted suggestions by extending the mapping table in internal/mapper/fields.go.")
}

func printUsage() {
	fmt.Println("Usage: ./bin/suggest [OPTIONS]")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/suggest -report data/sync-report.json")
	fmt.Println("  ./bin/suggest -report data/sync-report.json -threshold 0.75")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
}
