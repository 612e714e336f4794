// Package db pkg/db/clean.go
package db

import (
	"fmt"
	"time"
)

// CleanOldMetrics removes metric samples older than the retention period and
// returns how many rows were deleted. Alerts and remediation logs are kept as
// an audit trail.
func (db *DB) CleanOldMetrics(retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)

	result, err := db.Exec(`DELETE FROM metrics WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w old metrics: %w", errFailedToClean, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}
