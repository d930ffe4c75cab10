// Package dedup decides whether a URL has already been summarized,
// via a persisted record, a live scan of the destination, or both.
package dedup

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// Record is the set of URLs whose summaries have been confirmed posted,
// persisted as a JSON array on disk across runs. Entries are only ever
// added, and only after a successful post; a failed post leaves the URL
// absent so the next run retries it.
type Record struct {
	path string
	urls map[string]bool
}

// LoadRecord reads the record file. A missing or unreadable file is not
// fatal: the record starts empty and the live-scan strategy (or a
// re-summarization) covers the gap.
func LoadRecord(path string) *Record {
	r := &Record{path: path, urls: make(map[string]bool)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Processed URLs file (%s) not found. Starting fresh.", path)
		} else {
			log.Printf("Error loading processed URLs from %s: %v. Starting fresh.", path, err)
		}
		return r
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		log.Printf("Error parsing processed URLs from %s: %v. Starting fresh.", path, err)
		return r
	}
	for _, url := range urls {
		r.urls[url] = true
	}
	log.Printf("Loaded %d processed URLs from %s.", len(r.urls), path)
	return r
}

// Contains reports whether the URL has been recorded as posted.
func (r *Record) Contains(url string) bool {
	return r.urls[url]
}

// Len returns the number of recorded URLs.
func (r *Record) Len() int {
	return len(r.urls)
}

// Add records a URL and immediately rewrites the file, so that at most
// the entries since the last successful save are lost on a crash.
func (r *Record) Add(url string) error {
	r.urls[url] = true
	return r.save()
}

// save rewrites the whole file atomically (temp file + rename).
func (r *Record) save() error {
	urls := make([]string, 0, len(r.urls))
	for url := range r.urls {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	data, err := json.MarshalIndent(urls, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode processed URLs: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", r.path, err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}
