/*
Package sqlite provides the SQLite-backed persistence layer.

PURPOSE:
  Holds everything the bridge keeps between operations: the canonical
  timesheet map captured from the Source page, per-operation success
  counters, and the service settings.

KEY TABLES:
  timesheet_entries: The canonical map, one row per day ("D/M/YYYY").
                     Replaced wholesale on every copy - a capture is a
                     snapshot, never a merge.
  operation_stats:   Success/failure counters per operation kind.
  settings:          Key/value pairs (enabled flag, hourly rate).

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of a single connection.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/bridge.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - extract/builder.go: produces the map saved here
  - api/handlers.go: the operations that read and write this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/timesheet-bridge/timesheet"
)

// Store implements persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// OperationStat is the counter pair for one operation kind.
type OperationStat struct {
	Successes int       `json:"successes"`
	Failures  int       `json:"failures"`
	LastAt    time.Time `json:"last_at"`
}

// Settings is the persisted service configuration.
type Settings struct {
	Enabled    bool    `json:"enabled"`
	HourlyRate float64 `json:"hourly_rate"`
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Canonical timesheet map, keyed by "D/M/YYYY"
	CREATE TABLE IF NOT EXISTS timesheet_entries (
		date TEXT PRIMARY KEY,
		entry_time TEXT NOT NULL,
		exit_time TEXT NOT NULL,
		original_date TEXT NOT NULL,
		is_vacation BOOLEAN NOT NULL DEFAULT FALSE,
		saved_at TEXT NOT NULL
	);

	-- Per-operation success/failure counters
	CREATE TABLE IF NOT EXISTS operation_stats (
		operation TEXT PRIMARY KEY,
		successes INTEGER NOT NULL DEFAULT 0,
		failures INTEGER NOT NULL DEFAULT 0,
		last_at TEXT NOT NULL
	);

	-- Service settings
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TIMESHEET MAP
// =============================================================================

// SaveTimesheet replaces the stored map with data, atomically. The
// previous capture is always discarded, matched or not.
func (s *Store) SaveTimesheet(ctx context.Context, data timesheet.Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM timesheet_entries"); err != nil {
		return fmt.Errorf("failed to clear timesheet: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for date, entry := range data {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO timesheet_entries
			(date, entry_time, exit_time, original_date, is_vacation, saved_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			date, entry.EntryTime, entry.ExitTime, entry.OriginalDate, entry.IsVacation, now,
		)
		if err != nil {
			return fmt.Errorf("failed to save entry %s: %w", date, err)
		}
	}

	return tx.Commit()
}

// LoadTimesheet returns the stored map. An empty map means no capture
// has been saved; interpreting that is the caller's job.
func (s *Store) LoadTimesheet(ctx context.Context) (timesheet.Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, entry_time, exit_time, original_date, is_vacation
		FROM timesheet_entries`)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheet: %w", err)
	}
	defer rows.Close()

	data := make(timesheet.Data)
	for rows.Next() {
		var date string
		var entry timesheet.Entry
		if err := rows.Scan(&date, &entry.EntryTime, &entry.ExitTime,
			&entry.OriginalDate, &entry.IsVacation); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		data[date] = entry
	}

	return data, rows.Err()
}

// ClearTimesheet drops the stored map.
func (s *Store) ClearTimesheet(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM timesheet_entries")
	if err != nil {
		return fmt.Errorf("failed to clear timesheet: %w", err)
	}
	return nil
}

// =============================================================================
// OPERATION COUNTERS
// =============================================================================

// RecordOperation bumps the success or failure counter for one
// operation kind.
func (s *Store) RecordOperation(ctx context.Context, operation string, success bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	successDelta, failureDelta := 0, 1
	if success {
		successDelta, failureDelta = 1, 0
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO operation_stats (operation, successes, failures, last_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(operation) DO UPDATE SET
			successes = successes + excluded.successes,
			failures = failures + excluded.failures,
			last_at = excluded.last_at`,
		operation, successDelta, failureDelta, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record operation: %w", err)
	}
	return nil
}

// OperationStats returns all counters, keyed by operation kind.
func (s *Store) OperationStats(ctx context.Context) (map[string]OperationStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT operation, successes, failures, last_at FROM operation_stats")
	if err != nil {
		return nil, fmt.Errorf("failed to query operation stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]OperationStat)
	for rows.Next() {
		var op, lastAt string
		var stat OperationStat
		if err := rows.Scan(&op, &stat.Successes, &stat.Failures, &lastAt); err != nil {
			return nil, fmt.Errorf("failed to scan operation stat: %w", err)
		}
		stat.LastAt, _ = time.Parse(time.RFC3339, lastAt)
		stats[op] = stat
	}

	return stats, rows.Err()
}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings loads the service configuration. Missing keys fall back to
// defaults: enabled, no hourly rate.
func (s *Store) Settings(ctx context.Context) (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := Settings{Enabled: true}

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return settings, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings, fmt.Errorf("failed to scan setting: %w", err)
		}
		switch key {
		case "enabled":
			settings.Enabled = value == "true"
		case "hourly_rate":
			settings.HourlyRate, _ = strconv.ParseFloat(value, 64)
		}
	}

	return settings, rows.Err()
}

// SaveSettings persists the service configuration.
func (s *Store) SaveSettings(ctx context.Context, settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	pairs := map[string]string{
		"enabled":     strconv.FormatBool(settings.Enabled),
		"hourly_rate": strconv.FormatFloat(settings.HourlyRate, 'f', -1, 64),
	}
	for key, value := range pairs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		)
		if err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	return tx.Commit()
}
