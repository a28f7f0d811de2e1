package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/claude/vitalfuse/internal/advisor"
	"github.com/claude/vitalfuse/internal/mcp"
	"github.com/claude/vitalfuse/internal/models"
	"github.com/guptarohit/asciigraph"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "VitalFuse server URL")
	days := flag.Int("days", 30, "number of trailing days to plot")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("vitalfuse-report", Version)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := mcp.NewHTTPClient(*serverURL)
	now := time.Now()
	history, err := client.History(ctx, now.AddDate(0, 0, -*days), now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: fetching history: %v\n", err)
		os.Exit(1)
	}
	if len(history) == 0 {
		fmt.Println("No snapshots in the requested window. Ingest data and POST /api/v1/refresh first.")
		return
	}

	fmt.Printf("VitalFuse report — %d days ending %s\n\n",
		len(history), history[len(history)-1].Date.Format("2006-01-02"))

	plot("Recovery", history, func(d models.DailySnapshot) float64 { return d.Recovery })
	plot("Strain", history, func(d models.DailySnapshot) float64 { return d.Strain })
	plot("HRV (ms)", history, func(d models.DailySnapshot) float64 { return d.HRV })

	if summary := advisor.Weekly(history, now); summary != nil {
		fmt.Println("=== Weekly Summary ===")
		fmt.Printf("  Total strain:      %.1f (%+.1f vs prior week)\n", summary.TotalStrain, summary.WoWStrainChange)
		fmt.Printf("  Avg recovery:      %.1f (%+.1f vs prior week)\n", summary.AvgRecovery, summary.WoWRecoveryChange)
		fmt.Printf("  Avg HRV:           %.1f ms\n", summary.AvgHRV)
		fmt.Printf("  Avg resting HR:    %.1f bpm\n", summary.AvgRHR)
		fmt.Printf("  Total steps:       %d (%+d vs prior week)\n", summary.TotalSteps, summary.WoWStepsChange)
		if summary.BestDay != nil {
			fmt.Printf("  Best day:          %s (recovery %.0f)\n", summary.BestDay.Date, summary.BestDay.Recovery)
		}
		if summary.WorstDay != nil {
			fmt.Printf("  Worst day:         %s (recovery %.0f)\n", summary.WorstDay.Date, summary.WorstDay.Recovery)
		}
		fmt.Println()
	}
}

func plot(title string, history []models.DailySnapshot, f func(models.DailySnapshot) float64) {
	series := make([]float64, len(history))
	for i, d := range history {
		series[i] = f(d)
	}

	fmt.Printf("=== %s ===\n", title)
	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
	))
	fmt.Println()
}
