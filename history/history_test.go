package history

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openTestStore(t)

	runID, err := store.StartRun("forum")
	if err != nil {
		t.Fatalf("StartRun returned error: %v", err)
	}
	if runID == 0 {
		t.Fatal("StartRun returned zero ID")
	}

	if err := store.RecordURL(runID, "https://example.com/a", "SUMMARIZED_POSTED"); err != nil {
		t.Fatalf("RecordURL returned error: %v", err)
	}
	if err := store.FinishRun(runID, 1); err != nil {
		t.Fatalf("FinishRun returned error: %v", err)
	}
}

func TestLastStatus(t *testing.T) {
	store := openTestStore(t)
	runID, _ := store.StartRun("channel")

	store.RecordURL(runID, "https://example.com/a", "FAILED_SCRAPE")
	store.RecordURL(runID, "https://example.com/a", "SUMMARIZED_POSTED")

	got, err := store.LastStatus("https://example.com/a")
	if err != nil {
		t.Fatalf("LastStatus returned error: %v", err)
	}
	if got != "SUMMARIZED_POSTED" {
		t.Errorf("LastStatus = %q, want the most recent entry", got)
	}
}

func TestLastStatusUnknownURL(t *testing.T) {
	store := openTestStore(t)
	got, err := store.LastStatus("https://example.com/never")
	if err != nil {
		t.Fatalf("LastStatus returned error: %v", err)
	}
	if got != "" {
		t.Errorf("LastStatus = %q, want empty", got)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	first, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopening existing database: %v", err)
	}
	second.Close()
}
