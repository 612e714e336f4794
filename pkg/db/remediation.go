// Package db pkg/db/remediation.go
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/fleetmon/pkg/models"
)

// CreateRemediationLog inserts a pending log row before any device
// interaction so failures prior to connecting are still recorded.
func (db *DB) CreateRemediationLog(entry *models.RemediationLog) error {
	if entry.Status == "" {
		entry.Status = models.RemediationPending
	}

	if entry.AttemptNumber == 0 {
		entry.AttemptNumber = 1
	}

	if entry.MaxAttempts == 0 {
		entry.MaxAttempts = 3
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	result, err := db.Exec(`
		INSERT INTO remediation_logs
			(device_id, alert_id, playbook_name, action_type, status,
			 attempt_number, max_attempts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.DeviceID,
		nullInt64(entry.AlertID),
		entry.PlaybookName,
		entry.ActionType,
		entry.Status,
		entry.AttemptNumber,
		entry.MaxAttempts,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w remediation log: %w", errFailedToInsert, err)
	}

	entry.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get remediation log id: %w", err)
	}

	return nil
}

// UpdateRemediationLog persists execution state onto an existing log row.
func (db *DB) UpdateRemediationLog(entry *models.RemediationLog) error {
	stateBefore, err := marshalJSON(entry.StateBefore)
	if err != nil {
		return err
	}

	stateAfter, err := marshalJSON(entry.StateAfter)
	if err != nil {
		return err
	}

	commands, err := marshalJSON(entry.CommandsExecuted)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		UPDATE remediation_logs SET
			status = ?, started_at = ?, completed_at = ?, duration_ms = ?,
			state_before = ?, state_after = ?,
			commands_executed = ?, command_output = ?, error_message = ?
		WHERE id = ?`,
		entry.Status,
		nullTime(entry.StartedAt),
		nullTime(entry.CompletedAt),
		entry.DurationMs,
		stateBefore,
		stateAfter,
		commands,
		nullString(entry.CommandOutput),
		nullString(entry.ErrorMessage),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("%w remediation log: %w", errFailedToUpdate, err)
	}

	return nil
}

// ListRemediationLogs returns recent remediation attempts, newest first,
// for a device (0 for all).
func (db *DB) ListRemediationLogs(deviceID int64, limit int) ([]models.RemediationLog, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, device_id, alert_id, playbook_name, action_type, status,
			started_at, completed_at, duration_ms,
			state_before, state_after, commands_executed, command_output,
			error_message, attempt_number, max_attempts, created_at
		FROM remediation_logs`

	args := []interface{}{}

	if deviceID != 0 {
		query += ` WHERE device_id = ?`

		args = append(args, deviceID)
	}

	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(query, args...) //nolint:rowserrcheck // rows.Close() is deferred
	if err != nil {
		return nil, fmt.Errorf("%w remediation logs: %w", errFailedToQuery, err)
	}
	defer CloseRows(rows)

	var entries []models.RemediationLog

	for rows.Next() {
		entry, err := scanRemediationLog(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, *entry)
	}

	return entries, nil
}

func scanRemediationLog(row scanner) (*models.RemediationLog, error) {
	var (
		entry       models.RemediationLog
		alertID     sql.NullInt64
		startedAt   sql.NullTime
		completedAt sql.NullTime
		durationMs  sql.NullInt64
		stateBefore sql.NullString
		stateAfter  sql.NullString
		commands    sql.NullString
		output      sql.NullString
		errMessage  sql.NullString
	)

	err := row.Scan(
		&entry.ID,
		&entry.DeviceID,
		&alertID,
		&entry.PlaybookName,
		&entry.ActionType,
		&entry.Status,
		&startedAt,
		&completedAt,
		&durationMs,
		&stateBefore,
		&stateAfter,
		&commands,
		&output,
		&errMessage,
		&entry.AttemptNumber,
		&entry.MaxAttempts,
		&entry.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w remediation row: %w", errFailedToScan, err)
	}

	if alertID.Valid {
		entry.AlertID = &alertID.Int64
	}

	if startedAt.Valid {
		entry.StartedAt = &startedAt.Time
	}

	if completedAt.Valid {
		entry.CompletedAt = &completedAt.Time
	}

	entry.DurationMs = durationMs.Int64
	unmarshalJSON(stateBefore, &entry.StateBefore)
	unmarshalJSON(stateAfter, &entry.StateAfter)
	unmarshalJSON(commands, &entry.CommandsExecuted)
	entry.CommandOutput = output.String
	entry.ErrorMessage = errMessage.String

	return &entry, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: *v, Valid: true}
}
