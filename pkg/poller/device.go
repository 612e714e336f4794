// Package poller pkg/poller/device.go
package poller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/carverauto/fleetmon/pkg/alerting"
	"github.com/carverauto/fleetmon/pkg/db"
	"github.com/carverauto/fleetmon/pkg/drivers"
	"github.com/carverauto/fleetmon/pkg/models"
)

const (
	pingProbeCount = 3
	pingRetryDelay = 500 * time.Millisecond
)

// PollDevice runs one full collection cycle for a device: ICMP probe first,
// then SNMP system and interface metrics. A failed ping marks the device
// unreachable, raises an alert, and skips SNMP entirely rather than waiting
// out a timeout against a dead host.
func (p *Poller) PollDevice(ctx context.Context, device *models.Device) models.PollResult {
	result := models.PollResult{DeviceID: device.ID, DeviceName: device.Name}

	ping := p.pingWithRetry(ctx, device.IPAddress)

	if !ping.Success {
		log.Printf("Device %s (%s) unreachable: %s", device.Name, device.IPAddress, ping.Error)

		alert, _, err := p.engine.Raise(ctx, device, alerting.TypeDeviceUnreachable,
			models.SeverityCritical,
			fmt.Sprintf("Device %s unreachable", device.Name),
			fmt.Sprintf("No ping response from %s: %s", device.IPAddress, ping.Error),
			map[string]any{"packet_loss": ping.PacketLoss})
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
		} else if alert != nil {
			result.AlertsRaised = append(result.AlertsRaised, alert.ID)
		}

		if err := p.store.UpdateDeviceReachability(device.ID, false, nil); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}

		result.Errors = append(result.Errors, fmt.Sprintf("ping failed: %s", ping.Error))

		return result
	}

	if err := p.engine.ResolveType(ctx, device.ID, alerting.TypeDeviceUnreachable, "device responding to ping"); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}

	p.storeSample(device.ID, models.MetricPingLatency, "ping_latency", ping.LatencyMs, "ms", "", nil, &result)
	p.storeSample(device.ID, models.MetricPingLoss, "ping_loss", ping.PacketLoss, "percent", "", nil, &result)
	p.evaluateThreshold(ctx, device, models.MetricPingLoss, ping.PacketLoss, &result)

	now := time.Now().UTC()

	session, err := p.snmp.Dial(device.IPAddress, p.credsFor(device).SNMPCommunity, p.cfg.SNMPTimeout)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())

		// Ping succeeded, so the device is reachable even without SNMP.
		if err := p.store.UpdateDeviceReachability(device.ID, true, &now); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}

		return result
	}

	defer func() {
		_ = session.Close()
	}()

	p.collectSystem(ctx, device, session, &result)
	p.collectInterfaces(ctx, device, session, &result)

	if err := p.store.UpdateDeviceReachability(device.ID, true, &now); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}

	result.Success = true

	return result
}

// pingWithRetry probes the host, retrying once after a short pause. A single
// lost burst on a busy WAN link should not mark a device down.
func (p *Poller) pingWithRetry(ctx context.Context, host string) models.PingResult {
	ping := p.pinger.Ping(ctx, host, pingProbeCount, p.cfg.PingTimeout)
	if ping.Success {
		return ping
	}

	select {
	case <-ctx.Done():
		return ping
	case <-time.After(pingRetryDelay):
	}

	return p.pinger.Ping(ctx, host, pingProbeCount, p.cfg.PingTimeout)
}

// collectSystem gathers CPU, memory, and uptime scalars.
func (p *Poller) collectSystem(ctx context.Context, device *models.Device, session drivers.SNMPSession, result *models.PollResult) {
	values, err := session.Get([]string{
		drivers.OIDCPU5Min,
		drivers.OIDCPU1Min,
		drivers.OIDMemUsed,
		drivers.OIDMemFree,
		drivers.OIDSysUptime,
	})
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}

	// CPU: prefer the 5-minute average, fall back to 1-minute on platforms
	// that do not expose it.
	cpu, ok := values[drivers.OIDCPU5Min].Float64()
	if !ok {
		cpu, ok = values[drivers.OIDCPU1Min].Float64()
	}

	if ok {
		p.storeSample(device.ID, models.MetricCPUUtilization, "cpu_utilization", cpu, "percent", "", nil, result)
		p.evaluateThreshold(ctx, device, models.MetricCPUUtilization, cpu, result)
	}

	used, usedOK := values[drivers.OIDMemUsed].Float64()
	free, freeOK := values[drivers.OIDMemFree].Float64()

	if usedOK && freeOK && used+free > 0 {
		memPct := used / (used + free) * 100
		p.storeSample(device.ID, models.MetricMemoryUtilization, "memory_utilization", memPct, "percent", "", nil, result)
		p.evaluateThreshold(ctx, device, models.MetricMemoryUtilization, memPct, result)
	}

	if ticks, ok := values[drivers.OIDSysUptime].Float64(); ok {
		p.storeSample(device.ID, models.MetricUptime, "uptime", ticks/100, "seconds", "", nil, result)
	}
}

// collectInterfaces walks the interface table, stores status and counter
// samples, derives throughput rates, and feeds the oper-status alert rule.
func (p *Poller) collectInterfaces(ctx context.Context, device *models.Device, session drivers.SNMPSession, result *models.PollResult) {
	names, err := session.Walk(drivers.OIDIfDescr)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}

	columns := map[string]map[string]drivers.Value{}

	for _, oid := range []string{
		drivers.OIDIfOperStatus,
		drivers.OIDIfAdminStatus,
		drivers.OIDIfInOctets,
		drivers.OIDIfOutOctets,
		drivers.OIDIfInErrors,
		drivers.OIDIfOutErrors,
	} {
		values, err := session.Walk(oid)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			return
		}

		columns[oid] = values
	}

	for oid, nameValue := range names {
		index := strings.TrimPrefix(oid, drivers.OIDIfDescr+".")

		ifName := nameValue.String()
		if ifName == "" {
			continue
		}

		column := func(base string) drivers.Value {
			return columns[base][base+"."+index]
		}

		oper, operOK := column(drivers.OIDIfOperStatus).Int()
		admin, adminOK := column(drivers.OIDIfAdminStatus).Int()

		if operOK {
			metadata := map[string]any{}
			if adminOK {
				metadata["admin_status"] = admin
			}

			p.storeSample(device.ID, models.MetricInterfaceStatus, "interface_status", float64(oper), "", ifName, metadata, result)

			if adminOK {
				if alert, err := p.engine.EvaluateInterface(ctx, device, ifName, oper, admin); err != nil {
					result.Errors = append(result.Errors, err.Error())
				} else if alert != nil {
					result.AlertsRaised = append(result.AlertsRaised, alert.ID)
				}
			}
		}

		p.collectCounter(device.ID, models.MetricInterfaceInOctets, models.MetricInterfaceInRate,
			"interface_in", column(drivers.OIDIfInOctets), ifName, result)
		p.collectCounter(device.ID, models.MetricInterfaceOutOctets, models.MetricInterfaceOutRate,
			"interface_out", column(drivers.OIDIfOutOctets), ifName, result)

		if errIn, ok := column(drivers.OIDIfInErrors).Float64(); ok {
			p.storeSample(device.ID, models.MetricInterfaceInErrors, "interface_in_errors", errIn, "errors", ifName, nil, result)
		}

		if errOut, ok := column(drivers.OIDIfOutErrors).Float64(); ok {
			p.storeSample(device.ID, models.MetricInterfaceOutErrors, "interface_out_errors", errOut, "errors", ifName, nil, result)
		}
	}
}

// collectCounter stores an octet counter sample and, when a previous sample
// exists for the same interface, a derived bits-per-second rate.
func (p *Poller) collectCounter(deviceID int64, counterType, rateType models.MetricType, namePrefix string, value drivers.Value, ifName string, result *models.PollResult) {
	current, ok := value.Float64()
	if !ok {
		return
	}

	previous, err := p.store.LatestMetric(deviceID, counterType, ifName)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		result.Errors = append(result.Errors, err.Error())
	}

	if previous != nil {
		elapsed := time.Now().UTC().Sub(previous.CreatedAt).Seconds()

		if bps, ok := CounterRate(current, previous.Value, elapsed); ok {
			p.storeSample(deviceID, rateType, namePrefix+"_rate", bps, "bps", ifName, nil, result)
		}
	}

	p.storeSample(deviceID, counterType, namePrefix+"_octets", current, "octets", ifName, nil, result)
}

func (p *Poller) storeSample(deviceID int64, metricType models.MetricType, name string, value float64, unit, context string, metadata map[string]any, result *models.PollResult) {
	sample := &models.MetricSample{
		DeviceID: deviceID,
		Type:     metricType,
		Name:     name,
		Value:    value,
		Unit:     unit,
		Context:  context,
		Metadata: metadata,
	}

	if err := p.store.StoreMetric(sample); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}

	result.MetricsCount++
}

func (p *Poller) evaluateThreshold(ctx context.Context, device *models.Device, metricType models.MetricType, value float64, result *models.PollResult) {
	alert, err := p.engine.EvaluateThreshold(ctx, device, metricType, value)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}

	if alert != nil {
		result.AlertsRaised = append(result.AlertsRaised, alert.ID)
	}
}
