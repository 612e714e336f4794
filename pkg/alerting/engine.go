// Package alerting pkg/alerting/engine.go implements the alert lifecycle:
// deduplicated creation, escalation in place, auto-resolution, and operator
// acknowledge/resolve. At most one open alert exists per (device, alert_type)
// pair; per-interface and per-neighbor conditions embed their discriminator
// in the alert_type itself.
package alerting

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/carverauto/fleetmon/pkg/db"
	"github.com/carverauto/fleetmon/pkg/models"
)

var (
	// ErrAlertResolved is returned for operator actions on a resolved alert.
	ErrAlertResolved = errors.New("alert is already resolved")
	// ErrNotAcknowledgeable is returned when acknowledging a non-active alert.
	ErrNotAcknowledgeable = errors.New("only active alerts can be acknowledged")
)

// Alert type prefixes shared with the remediation mapping.
const (
	TypeDeviceUnreachable = "device_unreachable"
	TypeHighCPU           = "high_cpu"
	TypeHighMemory        = "high_memory"
	TypePacketLoss        = "packet_loss"
	TypeInterfaceDown     = "interface_down_"
	TypeBGPNeighbor       = "bgp_neighbor_"
	TypeOSPFNeighbor      = "ospf_neighbor_"
)

// Interface name gating. Only physical-looking interfaces alert on oper
// status; virtual and management interfaces are skipped outright.
var (
	physicalPrefixes = []string{"GigabitEthernet", "FastEthernet", "Ethernet", "Serial", "Tunnel"}
	skipPatterns     = []string{"Loopback", "Null", "VoIP-Null", "Management", "mgmt"}

	badBGPStates = map[string]bool{
		"idle":        true,
		"active":      true,
		"connect":     true,
		"opensent":    true,
		"openconfirm": true,
	}
)

// Notifier delivers alert events to an external channel. Delivery failures
// must not affect the alert lifecycle.
type Notifier interface {
	Notify(ctx context.Context, alert *models.Alert, device *models.Device) error
}

// Engine evaluates conditions against thresholds and drives alert state.
type Engine struct {
	store      db.Service
	thresholds Thresholds
	notifiers  []Notifier
}

// NewEngine creates an alert engine. Notifiers are optional.
func NewEngine(store db.Service, thresholds Thresholds, notifiers ...Notifier) *Engine {
	return &Engine{store: store, thresholds: thresholds, notifiers: notifiers}
}

// Raise creates a new alert unless an open one of the same type exists for
// the device. An open WARNING escalates in place when the condition worsens
// to CRITICAL; the alert keeps its identity. Returns the alert and whether
// anything changed (created or escalated).
func (e *Engine) Raise(ctx context.Context, device *models.Device, alertType string, severity models.AlertSeverity, title, message string, alertContext map[string]any) (*models.Alert, bool, error) {
	open, err := e.store.FindOpenAlerts(device.ID, alertType)
	if err != nil {
		return nil, false, fmt.Errorf("find open alerts: %w", err)
	}

	if len(open) > 0 {
		existing := &open[0]

		if existing.Severity == models.SeverityWarning && severity == models.SeverityCritical {
			existing.Severity = models.SeverityCritical
			existing.Message = message

			if err := e.store.UpdateAlert(existing); err != nil {
				return nil, false, fmt.Errorf("escalate alert %d: %w", existing.ID, err)
			}

			log.Printf("Escalated alert %d (%s) on device %s to critical", existing.ID, alertType, device.Name)
			e.notify(ctx, existing, device)

			return existing, true, nil
		}

		return existing, false, nil
	}

	alert := &models.Alert{
		DeviceID:  device.ID,
		Title:     title,
		Message:   message,
		Severity:  severity,
		Status:    models.AlertActive,
		AlertType: alertType,
		Context:   alertContext,
		CreatedAt: time.Now().UTC(),
	}

	if err := e.store.CreateAlert(alert); err != nil {
		return nil, false, fmt.Errorf("create alert: %w", err)
	}

	log.Printf("Raised %s alert %d (%s) on device %s", severity, alert.ID, alertType, device.Name)
	e.notify(ctx, alert, device)

	return alert, true, nil
}

// ResolveType closes every open alert of the given type on a device. Used
// for auto-resolution when a condition clears.
func (e *Engine) ResolveType(_ context.Context, deviceID int64, alertType, notes string) error {
	open, err := e.store.FindOpenAlerts(deviceID, alertType)
	if err != nil {
		return fmt.Errorf("find open alerts: %w", err)
	}

	now := time.Now().UTC()

	for i := range open {
		alert := &open[i]
		alert.Status = models.AlertResolved
		alert.ResolvedAt = &now
		alert.ResolutionNotes = notes

		if err := e.store.UpdateAlert(alert); err != nil {
			return fmt.Errorf("resolve alert %d: %w", alert.ID, err)
		}

		log.Printf("Auto-resolved alert %d (%s) on device %d: %s", alert.ID, alertType, deviceID, notes)
	}

	return nil
}

// EvaluateThreshold applies the warning/critical cut lines for a percentage
// metric. Values below the warning line auto-resolve any open alert of that
// type.
func (e *Engine) EvaluateThreshold(ctx context.Context, device *models.Device, metricType models.MetricType, value float64) (*models.Alert, error) {
	var (
		alertType  string
		label      string
		warn, crit float64
	)

	switch metricType {
	case models.MetricCPUUtilization:
		alertType, label = TypeHighCPU, "CPU utilization"
		warn, crit = e.thresholds.CPUWarning, e.thresholds.CPUCritical
	case models.MetricMemoryUtilization:
		alertType, label = TypeHighMemory, "memory utilization"
		warn, crit = e.thresholds.MemoryWarning, e.thresholds.MemoryCritical
	case models.MetricPingLoss:
		alertType, label = TypePacketLoss, "packet loss"
		warn, crit = e.thresholds.PingLossWarning, e.thresholds.PingLossCritical
	default:
		return nil, nil
	}

	if value < warn {
		if err := e.ResolveType(ctx, device.ID, alertType, fmt.Sprintf("%s back to %.1f%%", label, value)); err != nil {
			return nil, err
		}

		return nil, nil
	}

	severity := models.SeverityWarning
	if value >= crit {
		severity = models.SeverityCritical
	}

	alert, _, err := e.Raise(ctx, device, alertType, severity,
		fmt.Sprintf("High %s on %s", label, device.Name),
		fmt.Sprintf("%s at %.1f%% (warning %.0f%%, critical %.0f%%)", label, value, warn, crit),
		map[string]any{"value": value, "metric_type": string(metricType)})

	return alert, err
}

// EvaluateInterface applies the oper-status rule to a single interface.
// ifOperStatus/ifAdminStatus use the standard encoding where 1 means up.
// An administratively shut interface suppresses alerting and closes any
// existing down alert, since the shutdown is intentional.
func (e *Engine) EvaluateInterface(ctx context.Context, device *models.Device, ifName string, operStatus, adminStatus int) (*models.Alert, error) {
	if !monitorableInterface(ifName) {
		return nil, nil
	}

	alertType := TypeInterfaceDown + ifName

	if adminStatus != 1 {
		return nil, e.ResolveType(ctx, device.ID, alertType, "interface administratively down")
	}

	if operStatus == 1 {
		return nil, e.ResolveType(ctx, device.ID, alertType, "interface back up")
	}

	alert, _, err := e.Raise(ctx, device, alertType, models.SeverityWarning,
		fmt.Sprintf("Interface %s down on %s", ifName, device.Name),
		fmt.Sprintf("Interface %s is operationally down", ifName),
		map[string]any{"interface": ifName})

	return alert, err
}

// EvaluateNeighbor applies the adjacency-health rule for one routing
// neighbor. BGP is unhealthy in any non-established FSM state; OSPF is
// healthy only in FULL (any DR role suffix).
func (e *Engine) EvaluateNeighbor(ctx context.Context, device *models.Device, neighbor models.NeighborState) (*models.Alert, error) {
	var (
		alertType string
		healthy   bool
	)

	state := strings.ToLower(neighbor.State)

	switch neighbor.Protocol {
	case "bgp":
		alertType = TypeBGPNeighbor + neighbor.ID
		healthy = !badBGPStates[state]
	case "ospf":
		alertType = TypeOSPFNeighbor + neighbor.ID
		healthy = strings.Contains(state, "full")
	default:
		return nil, nil
	}

	if healthy {
		return nil, e.ResolveType(ctx, device.ID, alertType, fmt.Sprintf("neighbor %s recovered (%s)", neighbor.ID, neighbor.State))
	}

	alert, _, err := e.Raise(ctx, device, alertType, models.SeverityCritical,
		fmt.Sprintf("%s neighbor %s down on %s", strings.ToUpper(neighbor.Protocol), neighbor.ID, device.Name),
		fmt.Sprintf("Neighbor %s is in state %s (%s)", neighbor.ID, neighbor.State, neighbor.Detail),
		map[string]any{"protocol": neighbor.Protocol, "neighbor_id": neighbor.ID, "state": neighbor.State})

	return alert, err
}

// Acknowledge marks an active alert as seen by an operator. The alert stays
// open for deduplication.
func (e *Engine) Acknowledge(alertID int64, by string) (*models.Alert, error) {
	alert, err := e.store.GetAlert(alertID)
	if err != nil {
		return nil, err
	}

	if alert.Status != models.AlertActive {
		if alert.Status == models.AlertResolved {
			return nil, ErrAlertResolved
		}

		return nil, ErrNotAcknowledgeable
	}

	now := time.Now().UTC()
	alert.Status = models.AlertAcknowledged
	alert.AcknowledgedAt = &now
	alert.AcknowledgedBy = by

	if err := e.store.UpdateAlert(alert); err != nil {
		return nil, fmt.Errorf("acknowledge alert %d: %w", alertID, err)
	}

	return alert, nil
}

// Resolve closes an alert manually. Resolution is terminal; the same
// condition firing again creates a fresh alert.
func (e *Engine) Resolve(alertID int64, notes string) (*models.Alert, error) {
	alert, err := e.store.GetAlert(alertID)
	if err != nil {
		return nil, err
	}

	if alert.Status == models.AlertResolved {
		return nil, ErrAlertResolved
	}

	now := time.Now().UTC()
	alert.Status = models.AlertResolved
	alert.ResolvedAt = &now
	alert.ResolutionNotes = notes

	if err := e.store.UpdateAlert(alert); err != nil {
		return nil, fmt.Errorf("resolve alert %d: %w", alertID, err)
	}

	return alert, nil
}

func (e *Engine) notify(ctx context.Context, alert *models.Alert, device *models.Device) {
	for _, notifier := range e.notifiers {
		if err := notifier.Notify(ctx, alert, device); err != nil {
			log.Printf("Notifier delivery failed for alert %d: %v", alert.ID, err)
		}
	}
}

// monitorableInterface reports whether oper-status alerts apply to ifName.
func monitorableInterface(name string) bool {
	for _, pattern := range skipPatterns {
		if strings.Contains(name, pattern) {
			return false
		}
	}

	for _, prefix := range physicalPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return false
}
