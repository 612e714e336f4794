// Package db pkg/db/alerts.go
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/fleetmon/pkg/models"
)

const alertColumns = `
	id, device_id, title, message, severity, status, alert_type, context,
	acknowledged_at, acknowledged_by, resolved_at, resolution_notes,
	webhook_sent, webhook_sent_at, created_at`

// CreateAlert inserts a new alert and sets its ID.
func (db *DB) CreateAlert(alert *models.Alert) error {
	contextJSON, err := marshalJSON(alert.Context)
	if err != nil {
		return err
	}

	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	result, err := db.Exec(`
		INSERT INTO alerts
			(device_id, title, message, severity, status, alert_type, context, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		alert.DeviceID,
		alert.Title,
		alert.Message,
		alert.Severity,
		alert.Status,
		alert.AlertType,
		contextJSON,
		alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w alert: %w", errFailedToInsert, err)
	}

	alert.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get alert id: %w", err)
	}

	return nil
}

// UpdateAlert persists mutable alert fields (severity, message, status,
// acknowledgement and resolution stamps, webhook delivery state).
func (db *DB) UpdateAlert(alert *models.Alert) error {
	contextJSON, err := marshalJSON(alert.Context)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		UPDATE alerts SET
			title = ?, message = ?, severity = ?, status = ?, context = ?,
			acknowledged_at = ?, acknowledged_by = ?,
			resolved_at = ?, resolution_notes = ?,
			webhook_sent = ?, webhook_sent_at = ?
		WHERE id = ?`,
		alert.Title,
		alert.Message,
		alert.Severity,
		alert.Status,
		contextJSON,
		nullTime(alert.AcknowledgedAt),
		nullString(alert.AcknowledgedBy),
		nullTime(alert.ResolvedAt),
		nullString(alert.ResolutionNotes),
		alert.WebhookSent,
		nullTime(alert.WebhookSentAt),
		alert.ID,
	)
	if err != nil {
		return fmt.Errorf("%w alert: %w", errFailedToUpdate, err)
	}

	return nil
}

// GetAlert retrieves an alert by ID.
func (db *DB) GetAlert(id int64) (*models.Alert, error) {
	row := db.QueryRow(`SELECT`+alertColumns+` FROM alerts WHERE id = ?`, id)

	return scanAlert(row)
}

// ListAlerts returns alerts, newest first, filtered by device (0 for all)
// and optional statuses.
func (db *DB) ListAlerts(deviceID int64, statuses ...models.AlertStatus) ([]models.Alert, error) {
	query := `SELECT` + alertColumns + ` FROM alerts`
	args := make([]interface{}, 0, len(statuses)+1)

	var where []string

	if deviceID != 0 {
		where = append(where, `device_id = ?`)
		args = append(args, deviceID)
	}

	if len(statuses) > 0 {
		placeholders := ""
		for i, status := range statuses {
			if i > 0 {
				placeholders += ", "
			}

			placeholders += "?"

			args = append(args, status)
		}

		where = append(where, `status IN (`+placeholders+`)`)
	}

	for i, clause := range where {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}

	query += ` ORDER BY created_at DESC`

	rows, err := db.Query(query, args...) //nolint:rowserrcheck // rows.Close() is deferred
	if err != nil {
		return nil, fmt.Errorf("%w alerts: %w", errFailedToQuery, err)
	}
	defer CloseRows(rows)

	var alerts []models.Alert

	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}

		alerts = append(alerts, *alert)
	}

	return alerts, nil
}

// FindOpenAlerts returns the active-or-acknowledged alerts for a device and
// alert type. This is the deduplication query the alert engine runs before
// creating anything.
func (db *DB) FindOpenAlerts(deviceID int64, alertType string) ([]models.Alert, error) {
	rows, err := db.Query(`
		SELECT`+alertColumns+`
		FROM alerts
		WHERE device_id = ? AND alert_type = ? AND status IN (?, ?)
		ORDER BY created_at DESC`,
		deviceID, alertType, models.AlertActive, models.AlertAcknowledged) //nolint:rowserrcheck // rows.Close() is deferred
	if err != nil {
		return nil, fmt.Errorf("%w open alerts: %w", errFailedToQuery, err)
	}
	defer CloseRows(rows)

	var alerts []models.Alert

	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}

		alerts = append(alerts, *alert)
	}

	return alerts, nil
}

func scanAlert(row scanner) (*models.Alert, error) {
	var (
		alert           models.Alert
		contextJSON     sql.NullString
		acknowledgedAt  sql.NullTime
		acknowledgedBy  sql.NullString
		resolvedAt      sql.NullTime
		resolutionNotes sql.NullString
		webhookSentAt   sql.NullTime
	)

	err := row.Scan(
		&alert.ID,
		&alert.DeviceID,
		&alert.Title,
		&alert.Message,
		&alert.Severity,
		&alert.Status,
		&alert.AlertType,
		&contextJSON,
		&acknowledgedAt,
		&acknowledgedBy,
		&resolvedAt,
		&resolutionNotes,
		&alert.WebhookSent,
		&webhookSentAt,
		&alert.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w alert row: %w", errFailedToScan, err)
	}

	unmarshalJSON(contextJSON, &alert.Context)

	if acknowledgedAt.Valid {
		alert.AcknowledgedAt = &acknowledgedAt.Time
	}

	alert.AcknowledgedBy = acknowledgedBy.String

	if resolvedAt.Valid {
		alert.ResolvedAt = &resolvedAt.Time
	}

	alert.ResolutionNotes = resolutionNotes.String

	if webhookSentAt.Valid {
		alert.WebhookSentAt = &webhookSentAt.Time
	}

	return &alert, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: *t, Valid: true}
}
