// Package db pkg/db/interfaces.go
package db

import (
	"time"

	"github.com/carverauto/fleetmon/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/carverauto/fleetmon/pkg/db Service

// Service represents all persistence operations the core needs. Metrics are
// append-only; alerts and remediation logs are never deleted.
type Service interface {
	Close() error

	// Device operations.

	CreateDevice(device *models.Device) error
	GetDevice(id int64) (*models.Device, error)
	GetDeviceByName(name string) (*models.Device, error)
	ListDevices(activeOnly bool) ([]models.Device, error)
	UpdateDeviceReachability(id int64, reachable bool, lastSeen *time.Time) error

	// Metric operations.

	StoreMetric(sample *models.MetricSample) error
	LatestMetric(deviceID int64, metricType models.MetricType, context string) (*models.MetricSample, error)
	GetMetrics(deviceID int64, metricType models.MetricType, start, end time.Time) ([]models.MetricSample, error)

	// Alert operations.

	CreateAlert(alert *models.Alert) error
	UpdateAlert(alert *models.Alert) error
	GetAlert(id int64) (*models.Alert, error)
	ListAlerts(deviceID int64, statuses ...models.AlertStatus) ([]models.Alert, error)
	FindOpenAlerts(deviceID int64, alertType string) ([]models.Alert, error)

	// Remediation operations.

	CreateRemediationLog(entry *models.RemediationLog) error
	UpdateRemediationLog(entry *models.RemediationLog) error
	ListRemediationLogs(deviceID int64, limit int) ([]models.RemediationLog, error)

	// Config backup operations.

	CreateConfigBackup(backup *models.ConfigBackup) error
	LatestConfigBackup(deviceID int64, configType string) (*models.ConfigBackup, error)
	ListConfigBackups(deviceID int64, limit int) ([]models.ConfigBackup, error)

	// Maintenance operations.

	CleanOldMetrics(retention time.Duration) (int64, error)
}
