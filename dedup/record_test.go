package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRecordMissingFile(t *testing.T) {
	r := LoadRecord(filepath.Join(t.TempDir(), "absent.json"))
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
	if r.Contains("https://example.com") {
		t.Error("empty record claims to contain a URL")
	}
}

func TestLoadRecordCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	r := LoadRecord(path)
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0 for corrupt file", r.Len())
	}
	// The record must still be usable for writes.
	if err := r.Add("https://example.com/a"); err != nil {
		t.Fatalf("Add after corrupt load: %v", err)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "urls.json")

	r := LoadRecord(path)
	for _, url := range []string{"https://example.com/b", "https://example.com/a"} {
		if err := r.Add(url); err != nil {
			t.Fatalf("Add(%s): %v", url, err)
		}
	}

	reloaded := LoadRecord(path)
	if reloaded.Len() != 2 {
		t.Fatalf("Len = %d, want 2", reloaded.Len())
	}
	if !reloaded.Contains("https://example.com/a") || !reloaded.Contains("https://example.com/b") {
		t.Error("reloaded record is missing URLs")
	}

	// The on-disk format is a sorted JSON array.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		t.Fatalf("file is not a JSON array: %v", err)
	}
	if urls[0] != "https://example.com/a" || urls[1] != "https://example.com/b" {
		t.Errorf("file not sorted: %v", urls)
	}
}

func TestRecordAddIdempotent(t *testing.T) {
	r := LoadRecord(filepath.Join(t.TempDir(), "urls.json"))
	r.Add("https://example.com/x")
	r.Add("https://example.com/x")
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}
