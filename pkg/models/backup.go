// Package models pkg/models/backup.go
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// ConfigBackup is one captured device configuration. Content is empty on
// summary listings; it is populated on creation and on latest-lookup.
type ConfigBackup struct {
	ID          int64     `json:"id"`
	DeviceID    int64     `json:"device_id"`
	ConfigType  string    `json:"config_type"`
	Content     string    `json:"content,omitempty"`
	ContentHash string    `json:"content_hash"`
	SizeBytes   int       `json:"size_bytes"`
	LineCount   int       `json:"line_count"`
	TriggeredBy string    `json:"triggered_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Config capture types.
const (
	ConfigTypeRunning = "running"
	ConfigTypeStartup = "startup"
)

// HashConfig fingerprints a configuration so unchanged captures can be
// recognized without a full text compare.
func HashConfig(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// NewConfigBackup builds a backup record from captured config text.
func NewConfigBackup(deviceID int64, configType, content, triggeredBy string) *ConfigBackup {
	return &ConfigBackup{
		DeviceID:    deviceID,
		ConfigType:  configType,
		Content:     content,
		ContentHash: HashConfig(content),
		SizeBytes:   len(content),
		LineCount:   strings.Count(content, "\n") + 1,
		TriggeredBy: triggeredBy,
	}
}

// BackupSummary aggregates one config backup sweep.
type BackupSummary struct {
	Succeeded int `json:"succeeded"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}
