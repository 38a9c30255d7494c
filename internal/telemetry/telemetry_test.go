package telemetry

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNewLoggerStderr(t *testing.T) {
	logger, err := NewLogger("")
	if err != nil {
		t.Fatalf("NewLogger(\"\"): %v", err)
	}
	if logger == nil {
		t.Fatalf("NewLogger(\"\") returned a nil logger")
	}
}

func TestNewLoggerRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locoenc.log")
	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger(%q): %v", path, err)
	}
	logger.Info("wrote a record")
	if err := logger.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
}

func TestMergeIsAdditive(t *testing.T) {
	a := New()
	a.AddBlock("PALETTE")
	a.RecordRoute("baseline")
	a.RecordDuration("classify", 10*time.Millisecond)

	b := New()
	b.AddBlock("PALETTE")
	b.AddBlock("COPY")
	b.RecordRoute("natural")
	b.RecordDuration("classify", 5*time.Millisecond)

	a.Merge(b)
	if a.BlockCounts["PALETTE"] != 2 {
		t.Fatalf("expected 2 PALETTE blocks after merge, got %d", a.BlockCounts["PALETTE"])
	}
	if a.BlockCounts["COPY"] != 1 {
		t.Fatalf("expected 1 COPY block after merge, got %d", a.BlockCounts["COPY"])
	}
	if a.RouteWins["baseline"] != 1 || a.RouteWins["natural"] != 1 {
		t.Fatalf("unexpected route wins after merge: %+v", a.RouteWins)
	}
	if a.Durations["classify"] != 15*time.Millisecond {
		t.Fatalf("expected accumulated duration of 15ms, got %v", a.Durations["classify"])
	}
}

func TestMergeNilSafe(t *testing.T) {
	var c *Counters
	c.AddBlock("PALETTE") // must not panic
	c.Merge(New())        // must not panic

	a := New()
	a.Merge(nil) // must not panic
}
