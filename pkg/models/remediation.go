// Package models pkg/models/remediation.go
package models

import "time"

// RemediationStatus tracks a remediation attempt through its lifecycle.
type RemediationStatus string

const (
	RemediationPending    RemediationStatus = "pending"
	RemediationInProgress RemediationStatus = "in_progress"
	RemediationSuccess    RemediationStatus = "success"
	RemediationFailed     RemediationStatus = "failed"
	RemediationSkipped    RemediationStatus = "skipped"
)

// RemediationLog records one remediation attempt against a device. The row is
// created pending before any device interaction and is immutable once it
// reaches a terminal status; re-running a playbook appends a new row.
type RemediationLog struct {
	ID               int64             `json:"id"`
	DeviceID         int64             `json:"device_id"`
	AlertID          *int64            `json:"alert_id,omitempty"`
	PlaybookName     string            `json:"playbook_name"`
	ActionType       string            `json:"action_type"`
	Status           RemediationStatus `json:"status"`
	StartedAt        *time.Time        `json:"started_at,omitempty"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
	DurationMs       int64             `json:"duration_ms,omitempty"`
	StateBefore      map[string]any    `json:"state_before,omitempty"`
	StateAfter       map[string]any    `json:"state_after,omitempty"`
	CommandsExecuted []string          `json:"commands_executed,omitempty"`
	CommandOutput    string            `json:"command_output,omitempty"`
	ErrorMessage     string            `json:"error_message,omitempty"`
	AttemptNumber    int               `json:"attempt_number"`
	MaxAttempts      int               `json:"max_attempts"`
	CreatedAt        time.Time         `json:"created_at"`
}
