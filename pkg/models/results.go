// Package models pkg/models/results.go
package models

import "time"

// PingResult is the outcome of an ICMP reachability probe.
type PingResult struct {
	Success    bool          `json:"success"`
	LatencyMs  float64       `json:"latency_ms"`
	PacketLoss float64       `json:"packet_loss"`
	RespTime   time.Duration `json:"-"`
	Error      string        `json:"error,omitempty"`
}

// CheckResult is the outcome of a single protocol-level check (SNMP or SSH).
type CheckResult struct {
	Success bool   `json:"success"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ConnectivityResult aggregates all connectivity checks for one device.
// OverallReachable is true if any individual check succeeded.
type ConnectivityResult struct {
	DeviceID         int64        `json:"device_id"`
	DeviceName       string       `json:"device_name"`
	IPAddress        string       `json:"ip_address"`
	Timestamp        time.Time    `json:"timestamp"`
	Ping             *PingResult  `json:"ping,omitempty"`
	SNMP             *CheckResult `json:"snmp,omitempty"`
	SSH              *CheckResult `json:"ssh,omitempty"`
	OverallReachable bool         `json:"overall_reachable"`
}

// PollResult is the outcome of one poll cycle for one device.
type PollResult struct {
	DeviceID     int64    `json:"device_id"`
	DeviceName   string   `json:"device_name"`
	Success      bool     `json:"success"`
	MetricsCount int      `json:"metrics_count"`
	AlertsRaised []int64  `json:"alerts_raised,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}

// FleetResult aggregates one fleet-wide sweep.
type FleetResult struct {
	DevicesPolled int          `json:"devices_polled"`
	Succeeded     int          `json:"succeeded"`
	Failed        int          `json:"failed"`
	TotalAlerts   int          `json:"total_alerts"`
	Results       []PollResult `json:"results"`
}

// NeighborState is one routing-protocol adjacency as reported by a device.
type NeighborState struct {
	Protocol string `json:"protocol"` // "bgp" or "ospf"
	ID       string `json:"id"`       // peer IP or router ID
	State    string `json:"state"`
	Detail   string `json:"detail,omitempty"` // remote AS, interface, etc.
}
