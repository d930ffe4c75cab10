// Package history keeps a sqlite log of runs and per-URL outcomes, for
// diagnosing why a link was or wasn't summarized. It is purely
// observational: the processed-URLs record file, not this database,
// decides what gets retried.
package history

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// Open initializes the history database, creating the file and schema
// as needed.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	log.Println("Run history database ready at", dbPath)
	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT,
			started_at INTEGER,
			finished_at INTEGER,
			posted INTEGER DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS url_status (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER,
			url TEXT,
			status TEXT,
			timestamp INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_url_status_url ON url_status (url);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// StartRun records the beginning of a batch pass and returns its ID.
func (s *Store) StartRun(mode string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (mode, started_at) VALUES (?, ?)`,
		mode, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record run start: %w", err)
	}
	return res.LastInsertId()
}

// RecordURL logs the outcome for one URL within a run.
func (s *Store) RecordURL(runID int64, url, status string) error {
	_, err := s.db.Exec(
		`INSERT INTO url_status (run_id, url, status, timestamp) VALUES (?, ?, ?, ?)`,
		runID, url, status, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record status for %s: %w", url, err)
	}
	return nil
}

// FinishRun stamps the run's end time and posted count.
func (s *Store) FinishRun(runID int64, posted int) error {
	_, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, posted = ? WHERE run_id = ?`,
		time.Now().Unix(), posted, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to record run end: %w", err)
	}
	return nil
}

// LastStatus returns the most recent recorded status for a URL, or ""
// when the URL has never been logged.
func (s *Store) LastStatus(url string) (string, error) {
	var status string
	err := s.db.QueryRow(
		`SELECT status FROM url_status WHERE url = ? ORDER BY id DESC LIMIT 1`, url,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query status for %s: %w", url, err)
	}
	return status, nil
}

// Close closes the underlying database.
func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}
