// Package ingest validates and stores uploaded per-minute device samples.
// Payloads arrive either as a JSON array of sample objects or as CSV with a
// header row; both map onto models.Sample.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/claude/vitalfuse/internal/models"
)

// ParseJSON decodes a JSON array of sample rows. Rows that fail validation
// are returned separately so callers can report a rejected count.
func ParseJSON(r io.Reader) (valid []models.Sample, rejected int, err error) {
	var rows []models.Sample
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, 0, fmt.Errorf("decoding JSON samples: %w", err)
	}
	return filterValid(rows)
}

// csvColumns maps header names to field positions. timestamp and bpm are
// required; the rest default to zero.
var csvColumns = []string{"timestamp", "bpm", "rr_ms", "spo2", "sleep_stage", "steps"}

// ParseCSV decodes CSV sample rows. The first record must be a header
// naming at least timestamp and bpm; column order is free.
func ParseCSV(r io.Reader) (valid []models.Sample, rejected int, err error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading CSV header: %w", err)
	}
	index := map[string]int{}
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range csvColumns[:2] {
		if _, ok := index[required]; !ok {
			return nil, 0, fmt.Errorf("CSV header missing %q column", required)
		}
	}

	var rows []models.Sample
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("reading CSV row: %w", err)
		}
		sample, ok := parseCSVRow(record, index)
		if !ok {
			rejected++
			continue
		}
		rows = append(rows, sample)
	}

	valid, alsoRejected, err := filterValid(rows)
	return valid, rejected + alsoRejected, err
}

func parseCSVRow(record []string, index map[string]int) (models.Sample, bool) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	ts, err := parseTimestamp(field("timestamp"))
	if err != nil {
		return models.Sample{}, false
	}
	bpm, err := strconv.ParseFloat(field("bpm"), 64)
	if err != nil {
		return models.Sample{}, false
	}

	s := models.Sample{Timestamp: ts, BPM: bpm}
	if v := field("rr_ms"); v != "" {
		if s.RRMs, err = strconv.ParseFloat(v, 64); err != nil {
			return models.Sample{}, false
		}
	}
	if v := field("spo2"); v != "" {
		spo2, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return models.Sample{}, false
		}
		s.SpO2 = &spo2
	}
	if v := field("sleep_stage"); v != "" {
		if s.SleepStage, err = strconv.Atoi(v); err != nil {
			return models.Sample{}, false
		}
	}
	if v := field("steps"); v != "" {
		if s.Steps, err = strconv.ParseFloat(v, 64); err != nil {
			return models.Sample{}, false
		}
	}
	return s, true
}

func parseTimestamp(v string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02 15:04:05", v)
}

// filterValid drops rows a device could never legitimately produce. The
// finer physiological cleaning happens at compute time; ingest only rejects
// rows that would corrupt the store.
func filterValid(rows []models.Sample) ([]models.Sample, int, error) {
	valid := make([]models.Sample, 0, len(rows))
	rejected := 0
	for _, s := range rows {
		if s.Timestamp.IsZero() || s.BPM <= 0 || s.BPM > 300 {
			rejected++
			continue
		}
		if s.SleepStage < models.StageAwake || s.SleepStage > models.StageREM {
			rejected++
			continue
		}
		valid = append(valid, s)
	}
	return valid, rejected, nil
}
