package pull

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Stats tracks generation and upload progress.
type Stats struct {
	FilesGenerated int
	FilesSent      int
	FilesSkipped   int
	FilesErrored   int
	RowsGenerated  int
}

// Puller generates mock device days into a directory and uploads any files
// the server has not seen yet.
type Puller struct {
	client *Client
	state  *StateDB
	outDir string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Puller.
func New(client *Client, state *StateDB, outDir string, dryRun bool, log *slog.Logger) *Puller {
	return &Puller{
		client: client,
		state:  state,
		outDir: outDir,
		dryRun: dryRun,
		log:    log,
	}
}

// Generate writes wrist and chest CSV files for each day in [start, start+days).
// The seed is derived from the day so reruns produce identical files.
func (p *Puller) Generate(start time.Time, days int) error {
	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", p.outDir, err)
	}

	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		seed := day.Unix()

		wrist := WristDay(day, seed)
		wristPath := filepath.Join(p.outDir, fmt.Sprintf("wrist_%s.csv", day.Format("2006-01-02")))
		if err := WriteCSV(wristPath, wrist); err != nil {
			return err
		}

		chest := ChestWorkout(day, seed)
		chestPath := filepath.Join(p.outDir, fmt.Sprintf("chest_%s.csv", day.Format("2006-01-02")))
		if err := WriteCSV(chestPath, chest); err != nil {
			return err
		}

		p.stats.FilesGenerated += 2
		p.stats.RowsGenerated += len(wrist) + len(chest)
		p.log.Info("generated day",
			"date", day.Format("2006-01-02"),
			"wrist_rows", len(wrist),
			"chest_rows", len(chest),
		)
	}
	return nil
}

// Upload walks the output directory and sends every CSV the state database
// has not recorded as sent.
func (p *Puller) Upload() (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(p.outDir, "*.csv"))
	if err != nil {
		return &p.stats, err
	}

	for _, f := range files {
		device, ok := deviceFor(filepath.Base(f))
		if !ok {
			continue
		}

		relPath, _ := filepath.Rel(p.outDir, f)
		info, err := os.Stat(f)
		if err != nil {
			p.log.Warn("stat failed", "file", f, "error", err)
			p.stats.FilesErrored++
			continue
		}

		hash, err := HashFile(f)
		if err != nil {
			p.log.Warn("hash failed", "file", f, "error", err)
			p.stats.FilesErrored++
			continue
		}

		sent, err := p.state.IsSent(relPath, info.Size(), hash)
		if err != nil {
			p.log.Warn("state check failed", "file", f, "error", err)
			p.stats.FilesErrored++
			continue
		}
		if sent {
			p.stats.FilesSkipped++
			continue
		}

		if p.dryRun {
			p.log.Info("dry-run: would send", "file", relPath, "device", device)
			continue
		}

		if err := p.client.SendCSV(device, f); err != nil {
			p.log.Warn("send failed", "file", relPath, "error", err)
			p.stats.FilesErrored++
			continue
		}

		if err := p.state.MarkSent(relPath, info.Size(), hash); err != nil {
			p.log.Warn("failed to mark sent", "file", relPath, "error", err)
		}
		p.stats.FilesSent++
		p.log.Info("sent", "file", relPath, "device", device)
	}

	return &p.stats, nil
}

// deviceFor maps a generated filename onto its ingest device.
func deviceFor(name string) (string, bool) {
	switch {
	case len(name) > 6 && name[:6] == "wrist_":
		return "wrist", true
	case len(name) > 6 && name[:6] == "chest_":
		return "chest", true
	default:
		return "", false
	}
}
