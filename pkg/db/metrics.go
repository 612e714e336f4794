// Package db pkg/db/metrics.go
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/fleetmon/pkg/models"
)

// StoreMetric appends a metric sample. Samples are immutable once written.
func (db *DB) StoreMetric(sample *models.MetricSample) error {
	metadataJSON, err := marshalJSON(sample.Metadata)
	if err != nil {
		return err
	}

	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = time.Now().UTC()
	}

	result, err := db.Exec(`
		INSERT INTO metrics
			(device_id, metric_type, metric_name, value, unit, context, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sample.DeviceID,
		sample.Type,
		sample.Name,
		sample.Value,
		nullString(sample.Unit),
		nullString(sample.Context),
		metadataJSON,
		sample.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w metric: %w", errFailedToInsert, err)
	}

	sample.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get metric id: %w", err)
	}

	return nil
}

// LatestMetric returns the most recent sample for (device, type, context),
// used for counter-rate derivation. Returns ErrNotFound when no prior
// sample exists.
func (db *DB) LatestMetric(deviceID int64, metricType models.MetricType, context string) (*models.MetricSample, error) {
	// Context-free samples are stored as NULL; IS compares NULL-safely.
	row := db.QueryRow(`
		SELECT id, device_id, metric_type, metric_name, value, unit, context, metadata, created_at
		FROM metrics
		WHERE device_id = ? AND metric_type = ? AND context IS ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		deviceID, metricType, nullString(context))

	sample, err := scanMetric(row)
	if err != nil {
		return nil, err
	}

	return sample, nil
}

// GetMetrics retrieves samples for a device and metric type in a time range.
func (db *DB) GetMetrics(deviceID int64, metricType models.MetricType, start, end time.Time) ([]models.MetricSample, error) {
	rows, err := db.Query(`
		SELECT id, device_id, metric_type, metric_name, value, unit, context, metadata, created_at
		FROM metrics
		WHERE device_id = ? AND metric_type = ? AND created_at BETWEEN ? AND ?
		ORDER BY created_at ASC`,
		deviceID, metricType, start, end) //nolint:rowserrcheck // rows.Close() is deferred
	if err != nil {
		return nil, fmt.Errorf("%w metrics: %w", errFailedToQuery, err)
	}
	defer CloseRows(rows)

	var samples []models.MetricSample

	for rows.Next() {
		sample, err := scanMetric(rows)
		if err != nil {
			return nil, err
		}

		samples = append(samples, *sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metric rows: %w", err)
	}

	return samples, nil
}

func scanMetric(row scanner) (*models.MetricSample, error) {
	var (
		sample       models.MetricSample
		unit         sql.NullString
		context      sql.NullString
		metadataJSON sql.NullString
	)

	err := row.Scan(
		&sample.ID,
		&sample.DeviceID,
		&sample.Type,
		&sample.Name,
		&sample.Value,
		&unit,
		&context,
		&metadataJSON,
		&sample.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w metric row: %w", errFailedToScan, err)
	}

	sample.Unit = unit.String
	sample.Context = context.String
	unmarshalJSON(metadataJSON, &sample.Metadata)

	return &sample, nil
}
