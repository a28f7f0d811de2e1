package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claude/vitalfuse/internal/pull"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "VitalFuse server URL (e.g. https://vitalfuse.tail1234.ts.net)")
	apiKey := flag.String("api-key", "", "ingest API key (or VITALFUSE_API_KEY)")
	outDir := flag.String("out", "", "directory for generated CSV files (default ~/.vitalfuse-pull/data)")
	startStr := flag.String("start", "", "first day to generate (YYYY-MM-DD, default yesterday)")
	days := flag.Int("days", 1, "number of days to generate")
	dryRun := flag.Bool("dry-run", false, "generate files but don't send to server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("vitalfuse-pull", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *apiKey == "" {
		*apiKey = os.Getenv("VITALFUSE_API_KEY")
	}
	if *serverURL == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Usage: vitalfuse-pull -server <URL> -api-key <key> [-start YYYY-MM-DD] [-days N] [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	*serverURL = strings.TrimRight(*serverURL, "/")

	start := time.Now().UTC().AddDate(0, 0, -1)
	if *startStr != "" {
		var err error
		start, err = time.Parse("2006-01-02", *startStr)
		if err != nil {
			log.Error("invalid -start date", "value", *startStr, "error", err)
			os.Exit(1)
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".vitalfuse-pull")
	if *outDir == "" {
		*outDir = filepath.Join(stateDir, "data")
	}

	state, err := pull.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if *dryRun {
		log.Info("DRY RUN mode — files will be generated but not sent")
	}

	p := pull.New(pull.NewClient(*serverURL, *apiKey), state, *outDir, *dryRun, log)

	if err := p.Generate(start, *days); err != nil {
		log.Error("generation failed", "error", err)
		os.Exit(1)
	}

	stats, err := p.Upload()
	if err != nil {
		log.Error("upload failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	log.Info("pull complete")
}

func printStats(stats *pull.Stats) {
	fmt.Println()
	fmt.Println("=== Pull Summary ===")
	fmt.Printf("  Files generated:  %d (%d rows)\n", stats.FilesGenerated, stats.RowsGenerated)
	fmt.Printf("  Files sent:       %d\n", stats.FilesSent)
	fmt.Printf("  Files skipped:    %d (already sent)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
}
