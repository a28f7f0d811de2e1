package pull

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/claude/vitalfuse/internal/models"
)

var csvHeader = []string{"timestamp", "bpm", "rr_ms", "spo2", "sleep_stage", "steps"}

// WriteCSV writes samples to path in the ingest API's CSV layout.
func WriteCSV(path string, samples []models.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, s := range samples {
		spo2 := ""
		if s.SpO2 != nil {
			spo2 = strconv.FormatFloat(*s.SpO2, 'f', 1, 64)
		}
		record := []string{
			s.Timestamp.Format(time.RFC3339),
			strconv.FormatFloat(s.BPM, 'f', 1, 64),
			strconv.FormatFloat(s.RRMs, 'f', 0, 64),
			spo2,
			strconv.Itoa(s.SleepStage),
			strconv.FormatFloat(s.Steps, 'f', 0, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
