// Package db pkg/db/db.go provides SQLite persistence for fleetmon.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// Pool must exceed the fleet concurrency bound so each poll task can
	// hold its own connection without starving the others.
	defaultMaxOpenConns = 16

	createTablesSQL = `
	-- Monitored devices
	CREATE TABLE IF NOT EXISTS devices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		hostname TEXT NOT NULL DEFAULT '',
		ip_address TEXT NOT NULL,
		device_type TEXT NOT NULL DEFAULT 'other',
		vendor TEXT NOT NULL DEFAULT 'cisco',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		is_reachable BOOLEAN NOT NULL DEFAULT 0,
		last_seen TIMESTAMP,
		snmp_community TEXT,
		snmp_version INTEGER NOT NULL DEFAULT 2,
		ssh_port INTEGER NOT NULL DEFAULT 22
	);

	-- Append-only metric samples
	CREATE TABLE IF NOT EXISTS metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		device_id INTEGER NOT NULL,
		metric_type TEXT NOT NULL,
		metric_name TEXT NOT NULL,
		value REAL NOT NULL,
		unit TEXT,
		context TEXT,
		metadata TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (device_id) REFERENCES devices(id) ON DELETE CASCADE
	);

	-- Alert lifecycle records (audit trail, never deleted)
	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		device_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		severity TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		alert_type TEXT NOT NULL,
		context TEXT,
		acknowledged_at TIMESTAMP,
		acknowledged_by TEXT,
		resolved_at TIMESTAMP,
		resolution_notes TEXT,
		webhook_sent BOOLEAN NOT NULL DEFAULT 0,
		webhook_sent_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (device_id) REFERENCES devices(id) ON DELETE CASCADE
	);

	-- Remediation attempt log
	CREATE TABLE IF NOT EXISTS remediation_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		device_id INTEGER NOT NULL,
		alert_id INTEGER,
		playbook_name TEXT NOT NULL,
		action_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		started_at TIMESTAMP,
		completed_at TIMESTAMP,
		duration_ms INTEGER,
		state_before TEXT,
		state_after TEXT,
		commands_executed TEXT,
		command_output TEXT,
		error_message TEXT,
		attempt_number INTEGER NOT NULL DEFAULT 1,
		max_attempts INTEGER NOT NULL DEFAULT 3,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (device_id) REFERENCES devices(id) ON DELETE CASCADE,
		FOREIGN KEY (alert_id) REFERENCES alerts(id)
	);

	-- Device configuration snapshots, stored only when the config changed
	CREATE TABLE IF NOT EXISTS config_backups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		device_id INTEGER NOT NULL,
		config_type TEXT NOT NULL DEFAULT 'running',
		content TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		line_count INTEGER NOT NULL,
		triggered_by TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (device_id) REFERENCES devices(id) ON DELETE CASCADE
	);

	-- Indexes for time-series and dedup queries
	CREATE INDEX IF NOT EXISTS idx_metrics_device_type_created
		ON metrics(device_id, metric_type, created_at);
	CREATE INDEX IF NOT EXISTS idx_metrics_device_context
		ON metrics(device_id, metric_type, context);
	CREATE INDEX IF NOT EXISTS idx_alerts_device_status
		ON alerts(device_id, status);
	CREATE INDEX IF NOT EXISTS idx_alerts_device_type_status
		ON alerts(device_id, alert_type, status);
	CREATE INDEX IF NOT EXISTS idx_remediation_device_created
		ON remediation_logs(device_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_config_backups_device_created
		ON config_backups(device_id, config_type, created_at);

	PRAGMA foreign_keys=ON;
	`
)

// DB represents the database connection and operations.
type DB struct {
	*sql.DB
}

// New creates a new database connection and initializes the schema.
func New(dbPath string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedOpenDB, err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToEnableWAL, err)
	}

	sqlDB.SetMaxOpenConns(defaultMaxOpenConns)

	db := &DB{sqlDB}
	if err := db.initSchema(); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToInit, err)
	}

	return db, nil
}

// initSchema creates the database tables if they don't exist.
func (db *DB) initSchema() error {
	_, err := db.Exec(createTablesSQL)

	return err
}

func marshalJSON(v interface{}) (sql.NullString, error) {
	var ns sql.NullString

	if v == nil {
		return ns, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return ns, fmt.Errorf("failed to marshal json column: %w", err)
	}

	ns.String = string(data)
	ns.Valid = true

	return ns, nil
}

func unmarshalJSON(ns sql.NullString, dst interface{}) {
	if !ns.Valid || ns.String == "" {
		return
	}

	if err := json.Unmarshal([]byte(ns.String), dst); err != nil {
		log.Printf("failed to unmarshal json column: %v", err)
	}
}

// CloseRows closes rows and logs failures; used with defer.
func CloseRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Printf("failed to close rows: %v", err)
	}
}
