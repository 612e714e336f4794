// Package models pkg/models/alert.go
package models

import "time"

// AlertSeverity levels.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// AlertStatus values. Resolved is terminal; a condition that fires again
// after resolution produces a fresh alert.
type AlertStatus string

const (
	AlertActive       AlertStatus = "active"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
)

// Alert is a stateful record of a firing condition on a device. At most one
// active-or-acknowledged alert exists per (device, alert_type, context
// discriminator); the engine checks before creating.
type Alert struct {
	ID              int64          `json:"id"`
	DeviceID        int64          `json:"device_id"`
	Title           string         `json:"title"`
	Message         string         `json:"message"`
	Severity        AlertSeverity  `json:"severity"`
	Status          AlertStatus    `json:"status"`
	AlertType       string         `json:"alert_type"`
	Context         map[string]any `json:"context,omitempty"`
	AcknowledgedAt  *time.Time     `json:"acknowledged_at,omitempty"`
	AcknowledgedBy  string         `json:"acknowledged_by,omitempty"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	ResolutionNotes string         `json:"resolution_notes,omitempty"`
	WebhookSent     bool           `json:"webhook_sent"`
	WebhookSentAt   *time.Time     `json:"webhook_sent_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Open reports whether the alert still counts for deduplication.
func (a *Alert) Open() bool {
	return a.Status == AlertActive || a.Status == AlertAcknowledged
}

// ContextString returns a string value from the context blob.
func (a *Alert) ContextString(key string) string {
	if a.Context == nil {
		return ""
	}

	if v, ok := a.Context[key].(string); ok {
		return v
	}

	return ""
}
