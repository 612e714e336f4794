// Package models pkg/models/metrics.go
package models

import "time"

// MetricType is the closed set of metric kinds the collector produces.
type MetricType string

const (
	MetricCPUUtilization    MetricType = "cpu_utilization"
	MetricMemoryUtilization MetricType = "memory_utilization"
	MetricUptime            MetricType = "uptime"

	MetricInterfaceStatus    MetricType = "interface_status"
	MetricInterfaceInOctets  MetricType = "interface_in_octets"
	MetricInterfaceOutOctets MetricType = "interface_out_octets"
	MetricInterfaceInErrors  MetricType = "interface_in_errors"
	MetricInterfaceOutErrors MetricType = "interface_out_errors"
	MetricInterfaceInRate    MetricType = "interface_in_rate"
	MetricInterfaceOutRate   MetricType = "interface_out_rate"

	MetricBGPNeighborState  MetricType = "bgp_neighbor_state"
	MetricOSPFNeighborState MetricType = "ospf_neighbor_state"

	MetricPingLatency MetricType = "ping_latency"
	MetricPingLoss    MetricType = "ping_loss"

	MetricCustom MetricType = "custom"
)

// MetricSample is a single immutable time-series datapoint. Samples are
// append-only; rate samples are always derived from two consecutive counter
// samples sharing the same (device, context).
type MetricSample struct {
	ID        int64          `json:"id"`
	DeviceID  int64          `json:"device_id"`
	Type      MetricType     `json:"type"`
	Name      string         `json:"name"`
	Value     float64        `json:"value"`
	Unit      string         `json:"unit,omitempty"`
	Context   string         `json:"context,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
