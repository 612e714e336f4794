// Package alerting pkg/alerting/thresholds.go
package alerting

// Thresholds holds the warning and critical cut lines for metric-driven
// alerts. Values are percentages.
type Thresholds struct {
	CPUWarning       float64 `json:"cpu_warning"`
	CPUCritical      float64 `json:"cpu_critical"`
	MemoryWarning    float64 `json:"memory_warning"`
	MemoryCritical   float64 `json:"memory_critical"`
	PingLossWarning  float64 `json:"ping_loss_warning"`
	PingLossCritical float64 `json:"ping_loss_critical"`
}

// DefaultThresholds returns the fleet-wide defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPUWarning:       70,
		CPUCritical:      90,
		MemoryWarning:    75,
		MemoryCritical:   95,
		PingLossWarning:  10,
		PingLossCritical: 50,
	}
}
