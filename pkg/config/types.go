// Package config pkg/config/types.go
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/carverauto/fleetmon/pkg/alerting"
)

// Duration wraps time.Duration for JSON unmarshaling. Strings are parsed
// with time.ParseDuration; bare numbers are nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// WebhookConfig configures outbound alert delivery.
type WebhookConfig struct {
	Enabled  bool     `json:"enabled"`
	URL      string   `json:"url"`
	Cooldown Duration `json:"cooldown,omitempty"`
	Timeout  Duration `json:"timeout,omitempty"`
	Headers  []Header `json:"headers,omitempty"`
}

// Header represents a custom HTTP header.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SSHConfig holds fleet-default SSH credentials, used for devices without
// device-specific credentials.
type SSHConfig struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	EnablePassword string `json:"enable_password,omitempty"`
}

// Config is the top-level fleetmon configuration.
type Config struct {
	DBPath              string               `json:"db_path"`
	ListenAddr          string               `json:"listen_addr"`
	PollInterval        Duration             `json:"poll_interval"`
	RoutingPollInterval Duration             `json:"routing_poll_interval"`
	BackupInterval      Duration             `json:"backup_interval"`
	MaxConcurrentPolls  int                  `json:"max_concurrent_polls"`
	PingTimeout         Duration             `json:"ping_timeout"`
	SNMPTimeout         Duration             `json:"snmp_timeout"`
	SSHTimeout          Duration             `json:"ssh_timeout"`
	SNMPCommunity       string               `json:"snmp_community"`
	SSH                 SSHConfig            `json:"ssh"`
	Webhook             WebhookConfig        `json:"webhook"`
	Thresholds          *alerting.Thresholds `json:"thresholds,omitempty"`
	RetentionDays       int                  `json:"retention_days"`
}

// Validate implements Validator and fills in defaults.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}

	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}

	if time.Duration(c.PollInterval) == 0 {
		c.PollInterval = Duration(60 * time.Second)
	}

	if time.Duration(c.RoutingPollInterval) == 0 {
		c.RoutingPollInterval = Duration(5 * time.Minute)
	}

	if time.Duration(c.BackupInterval) == 0 {
		c.BackupInterval = Duration(24 * time.Hour)
	}

	if c.MaxConcurrentPolls <= 0 {
		c.MaxConcurrentPolls = 10
	}

	if c.SNMPCommunity == "" {
		c.SNMPCommunity = "public"
	}

	if c.RetentionDays <= 0 {
		c.RetentionDays = 30
	}

	return nil
}
