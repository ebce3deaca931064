package history

import (
	"path/filepath"
	"testing"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Opening test db: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndRuns(t *testing.T) {
	l := openTestLog(t)

	runs := []Run{
		{Source: "apr.pdf", Bank: "HDFC", Count: 42, Mismatches: 0},
		{Source: "may.pdf", Bank: "ICICI", Count: 17, Mismatches: 2, Gaps: 1},
	}
	for _, run := range runs {
		if err := l.Record(run); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := l.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("IDs should be assigned sequentially, got %d and %d", got[0].ID, got[1].ID)
	}
	if got[0].Source != "apr.pdf" || got[1].Bank != "ICICI" {
		t.Errorf("Run data lost: %+v", got)
	}
	if got[0].At.IsZero() {
		t.Errorf("Timestamp should be assigned on record")
	}
	if got[1].Mismatches != 2 || got[1].Gaps != 1 {
		t.Errorf("Counters lost: %+v", got[1])
	}
}

func TestRuns_Empty(t *testing.T) {
	l := openTestLog(t)

	got, err := l.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no runs, got %d", len(got))
	}
}
