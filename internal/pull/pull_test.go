package pull

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/claude/vitalfuse/internal/ingest"
)

var testDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func TestWristDayDeterministic(t *testing.T) {
	a := WristDay(testDay, 42)
	b := WristDay(testDay, 42)

	if len(a) != 1440 {
		t.Fatalf("len = %d, want 1440", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs between runs with the same seed", i)
		}
	}

	c := WristDay(testDay, 43)
	same := true
	for i := range a {
		if a[i].BPM != c[i].BPM {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical heart rates")
	}
}

func TestWristDayShape(t *testing.T) {
	samples := WristDay(testDay, 7)

	var nightSum, daySum float64
	var nightN, dayN int
	for _, s := range samples {
		hour := s.Timestamp.Hour()
		asleep := hour >= sleepStartHour || hour < sleepEndHour
		if asleep {
			nightSum += s.BPM
			nightN++
			if s.SleepStage < 1 || s.SleepStage > 3 {
				t.Fatalf("sleep stage %d outside 1..3 at %v", s.SleepStage, s.Timestamp)
			}
		} else {
			daySum += s.BPM
			dayN++
			if s.SleepStage != 0 {
				t.Fatalf("awake sample has stage %d at %v", s.SleepStage, s.Timestamp)
			}
		}
	}
	if nightSum/float64(nightN) >= daySum/float64(dayN) {
		t.Error("nocturnal heart rate should dip below daytime average")
	}

	// Cumulative step counter never decreases.
	for i := 1; i < len(samples); i++ {
		if samples[i].Steps < samples[i-1].Steps {
			t.Fatalf("step counter decreased at minute %d", i)
		}
	}
	if samples[len(samples)-1].Steps == 0 {
		t.Error("no steps generated")
	}
}

func TestChestWorkout(t *testing.T) {
	samples := ChestWorkout(testDay, 7)

	if len(samples) != 30 {
		t.Fatalf("len = %d, want 30", len(samples))
	}
	if h := samples[0].Timestamp.Hour(); h != 18 {
		t.Errorf("start hour = %d, want 18", h)
	}
	// Sustained phase holds near 140 BPM.
	for i := 5; i < 25; i++ {
		if samples[i].BPM < 125 || samples[i].BPM > 155 {
			t.Errorf("minute %d BPM = %.1f, want ~140", i, samples[i].BPM)
		}
	}
}

func TestWriteCSVParsesBack(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/wrist.csv"
	samples := WristDay(testDay, 11)

	if err := WriteCSV(path, samples); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	parsed, rejected, err := ingest.ParseCSV(f)
	if err != nil {
		t.Fatal(err)
	}
	if rejected != 0 {
		t.Errorf("rejected = %d, want 0", rejected)
	}
	if len(parsed) != len(samples) {
		t.Errorf("parsed %d rows, want %d", len(parsed), len(samples))
	}
}

func TestPullerSkipsSentFiles(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "secret" {
			t.Errorf("missing API key header")
		}
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dir := t.TempDir()
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := New(NewClient(srv.URL, "secret"), state, dir, false, log)

	if err := p.Generate(testDay, 1); err != nil {
		t.Fatal(err)
	}

	stats, err := p.Upload()
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSent != 2 {
		t.Errorf("first run sent = %d, want 2", stats.FilesSent)
	}

	// Second run: nothing new, nothing re-sent.
	before := requests.Load()
	stats, err = p.Upload()
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSkipped != 2 {
		t.Errorf("second run skipped = %d, want 2", stats.FilesSkipped)
	}
	if requests.Load() != before {
		t.Error("second run re-sent already-uploaded files")
	}
}
