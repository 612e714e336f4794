// Package db pkg/db/backups.go
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/fleetmon/pkg/models"
)

// CreateConfigBackup stores a captured device configuration.
func (db *DB) CreateConfigBackup(backup *models.ConfigBackup) error {
	if backup.CreatedAt.IsZero() {
		backup.CreatedAt = time.Now().UTC()
	}

	result, err := db.Exec(`
		INSERT INTO config_backups
			(device_id, config_type, content, content_hash, size_bytes, line_count, triggered_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		backup.DeviceID,
		backup.ConfigType,
		backup.Content,
		backup.ContentHash,
		backup.SizeBytes,
		backup.LineCount,
		nullString(backup.TriggeredBy),
		backup.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w config backup: %w", errFailedToInsert, err)
	}

	backup.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get config backup id: %w", err)
	}

	return nil
}

// LatestConfigBackup returns the newest backup for (device, config type)
// with full content, used for change detection. Returns ErrNotFound when
// the device has no backups yet.
func (db *DB) LatestConfigBackup(deviceID int64, configType string) (*models.ConfigBackup, error) {
	row := db.QueryRow(`
		SELECT id, device_id, config_type, content, content_hash,
			size_bytes, line_count, triggered_by, created_at
		FROM config_backups
		WHERE device_id = ? AND config_type = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		deviceID, configType)

	var (
		backup      models.ConfigBackup
		triggeredBy sql.NullString
	)

	err := row.Scan(
		&backup.ID,
		&backup.DeviceID,
		&backup.ConfigType,
		&backup.Content,
		&backup.ContentHash,
		&backup.SizeBytes,
		&backup.LineCount,
		&triggeredBy,
		&backup.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w config backup row: %w", errFailedToScan, err)
	}

	backup.TriggeredBy = triggeredBy.String

	return &backup, nil
}

// ListConfigBackups returns backup summaries for a device, newest first.
// Content is left out of the rows; it can be multiple megabytes per capture.
func (db *DB) ListConfigBackups(deviceID int64, limit int) ([]models.ConfigBackup, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Query(`
		SELECT id, device_id, config_type, content_hash,
			size_bytes, line_count, triggered_by, created_at
		FROM config_backups
		WHERE device_id = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		deviceID, limit) //nolint:rowserrcheck // rows.Close() is deferred
	if err != nil {
		return nil, fmt.Errorf("%w config backups: %w", errFailedToQuery, err)
	}
	defer CloseRows(rows)

	var backups []models.ConfigBackup

	for rows.Next() {
		var (
			backup      models.ConfigBackup
			triggeredBy sql.NullString
		)

		err := rows.Scan(
			&backup.ID,
			&backup.DeviceID,
			&backup.ConfigType,
			&backup.ContentHash,
			&backup.SizeBytes,
			&backup.LineCount,
			&triggeredBy,
			&backup.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w config backup row: %w", errFailedToScan, err)
		}

		backup.TriggeredBy = triggeredBy.String
		backups = append(backups, backup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating config backup rows: %w", err)
	}

	return backups, nil
}
