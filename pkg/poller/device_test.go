package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/fleetmon/pkg/alerting"
	"github.com/carverauto/fleetmon/pkg/drivers"
	"github.com/carverauto/fleetmon/pkg/models"
)

func testRouter() models.Device {
	return models.Device{
		ID:            1,
		Name:          "edge-rtr-01",
		IPAddress:     "10.0.0.1",
		DeviceType:    models.DeviceRouter,
		IsActive:      true,
		SNMPCommunity: "public",
		SSHPort:       22,
	}
}

func healthySNMP() *scriptedSNMP {
	return &scriptedSNMP{
		scalars: map[string]drivers.Value{
			drivers.OIDCPU5Min:   {Raw: 45},
			drivers.OIDCPU1Min:   {Raw: 47},
			drivers.OIDMemUsed:   {Raw: uint64(300)},
			drivers.OIDMemFree:   {Raw: uint64(700)},
			drivers.OIDSysUptime: {Raw: uint64(8640000)},
		},
		tables: map[string]map[string]drivers.Value{
			drivers.OIDIfDescr: {
				drivers.OIDIfDescr + ".1": {Raw: "GigabitEthernet0/1"},
				drivers.OIDIfDescr + ".2": {Raw: "Loopback0"},
			},
			drivers.OIDIfOperStatus: {
				drivers.OIDIfOperStatus + ".1": {Raw: 1},
				drivers.OIDIfOperStatus + ".2": {Raw: 1},
			},
			drivers.OIDIfAdminStatus: {
				drivers.OIDIfAdminStatus + ".1": {Raw: 1},
				drivers.OIDIfAdminStatus + ".2": {Raw: 1},
			},
			drivers.OIDIfInOctets: {
				drivers.OIDIfInOctets + ".1": {Raw: uint64(81000)},
			},
			drivers.OIDIfOutOctets: {
				drivers.OIDIfOutOctets + ".1": {Raw: uint64(42000)},
			},
			drivers.OIDIfInErrors: {
				drivers.OIDIfInErrors + ".1": {Raw: uint64(0)},
			},
			drivers.OIDIfOutErrors: {
				drivers.OIDIfOutErrors + ".1": {Raw: uint64(3)},
			},
		},
	}
}

func newTestPoller(t *testing.T, ctrl *gomock.Controller, state *fakeState, pinger drivers.Pinger, snmp drivers.SNMPDialer, ssh drivers.SSHDialer) *Poller {
	t.Helper()

	store := newFakeStore(t, ctrl, state)
	engine := alerting.NewEngine(store, alerting.DefaultThresholds())

	return New(store, pinger, snmp, ssh, engine, Config{
		PingTimeout: time.Second,
		SNMPTimeout: time.Second,
		SSHTimeout:  time.Second,
	})
}

func TestPollDeviceUnreachableSkipsSNMP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := &fakeState{devices: []models.Device{testRouter()}}
	snmp := healthySNMP()
	p := newTestPoller(t, ctrl, state, alwaysDownPinger(), snmp, nil)

	device := state.devices[0]
	result := p.PollDevice(context.Background(), &device)

	assert.False(t, result.Success)
	assert.Zero(t, snmp.dials, "SNMP must be skipped when ping fails")
	require.Len(t, result.AlertsRaised, 1)

	alerts := state.alertsOfType(alerting.TypeDeviceUnreachable)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, models.AlertActive, alerts[0].Status)

	assert.False(t, state.devices[0].IsReachable)
}

func TestPollDevicePingRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := &fakeState{devices: []models.Device{testRouter()}}

	calls := 0
	flaky := pingerFunc(func(context.Context, string, int, time.Duration) models.PingResult {
		calls++

		if calls == 1 {
			return models.PingResult{Success: false, PacketLoss: 100, Error: "timeout"}
		}

		return models.PingResult{Success: true, LatencyMs: 2.1}
	})

	p := newTestPoller(t, ctrl, state, flaky, healthySNMP(), nil)

	device := state.devices[0]
	result := p.PollDevice(context.Background(), &device)

	assert.True(t, result.Success)
	assert.Equal(t, 2, calls)
	assert.Empty(t, state.alertsOfType(alerting.TypeDeviceUnreachable))
}

func TestPollDeviceCollectsMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := &fakeState{devices: []models.Device{testRouter()}}
	snmp := healthySNMP()
	p := newTestPoller(t, ctrl, state, alwaysUpPinger(), snmp, nil)

	device := state.devices[0]
	result := p.PollDevice(context.Background(), &device)

	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.AlertsRaised)
	assert.Equal(t, 1, snmp.closed)

	cpu := state.metricsOfType(models.MetricCPUUtilization)
	require.Len(t, cpu, 1)
	assert.InDelta(t, 45, cpu[0].Value, 0.001)

	memory := state.metricsOfType(models.MetricMemoryUtilization)
	require.Len(t, memory, 1)
	assert.InDelta(t, 30, memory[0].Value, 0.001)

	uptime := state.metricsOfType(models.MetricUptime)
	require.Len(t, uptime, 1)
	assert.InDelta(t, 86400, uptime[0].Value, 0.001)

	status := state.metricsOfType(models.MetricInterfaceStatus)
	assert.Len(t, status, 2)

	// First cycle has no previous counter samples, so no rates yet.
	assert.Empty(t, state.metricsOfType(models.MetricInterfaceInRate))
	assert.Len(t, state.metricsOfType(models.MetricInterfaceInOctets), 1)

	assert.True(t, state.devices[0].IsReachable)
	require.NotNil(t, state.devices[0].LastSeen)
}

func TestPollDeviceCPUFallsBackToOneMinute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := &fakeState{devices: []models.Device{testRouter()}}
	snmp := healthySNMP()
	snmp.scalars[drivers.OIDCPU5Min] = drivers.Value{Kind: drivers.KindNoSuchInstance}

	p := newTestPoller(t, ctrl, state, alwaysUpPinger(), snmp, nil)

	device := state.devices[0]
	p.PollDevice(context.Background(), &device)

	cpu := state.metricsOfType(models.MetricCPUUtilization)
	require.Len(t, cpu, 1)
	assert.InDelta(t, 47, cpu[0].Value, 0.001)
}

func TestPollDeviceDerivesRates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	previous := time.Now().UTC().Add(-10 * time.Second)
	state := &fakeState{
		devices: []models.Device{testRouter()},
		metrics: []models.MetricSample{
			{
				ID:        1,
				DeviceID:  1,
				Type:      models.MetricInterfaceInOctets,
				Name:      "interface_in_octets",
				Value:     1000,
				Context:   "GigabitEthernet0/1",
				CreatedAt: previous,
			},
			{
				ID:        2,
				DeviceID:  1,
				Type:      models.MetricInterfaceOutOctets,
				Name:      "interface_out_octets",
				Value:     4294967290,
				Context:   "GigabitEthernet0/1",
				CreatedAt: previous,
			},
		},
	}

	snmp := healthySNMP()
	snmp.tables[drivers.OIDIfInOctets][drivers.OIDIfInOctets+".1"] = drivers.Value{Raw: uint64(81000)}
	snmp.tables[drivers.OIDIfOutOctets][drivers.OIDIfOutOctets+".1"] = drivers.Value{Raw: uint64(10)}

	p := newTestPoller(t, ctrl, state, alwaysUpPinger(), snmp, nil)

	device := state.devices[0]
	p.PollDevice(context.Background(), &device)

	inRates := state.metricsOfType(models.MetricInterfaceInRate)
	require.Len(t, inRates, 1)
	assert.InDelta(t, 64000, inRates[0].Value, 500)
	assert.Equal(t, "bps", inRates[0].Unit)

	// The out counter wrapped: (2^32-1 - 4294967290) + 10 = 15 octets.
	outRates := state.metricsOfType(models.MetricInterfaceOutRate)
	require.Len(t, outRates, 1)
	assert.InDelta(t, 12, outRates[0].Value, 1)
}

func TestPollDeviceSNMPDialFailureStillReachable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := &fakeState{devices: []models.Device{testRouter()}}
	snmp := &scriptedSNMP{dialErr: errors.New("connection refused")}
	p := newTestPoller(t, ctrl, state, alwaysUpPinger(), snmp, nil)

	device := state.devices[0]
	result := p.PollDevice(context.Background(), &device)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)

	// Ping answered, so the device still counts as reachable.
	assert.True(t, state.devices[0].IsReachable)
}

func TestPollDeviceRecoveryResolvesUnreachableAlert(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := &fakeState{
		devices: []models.Device{testRouter()},
		alerts: []models.Alert{
			{
				ID:        1,
				DeviceID:  1,
				AlertType: alerting.TypeDeviceUnreachable,
				Severity:  models.SeverityCritical,
				Status:    models.AlertActive,
				CreatedAt: time.Now().UTC().Add(-time.Hour),
			},
		},
	}

	p := newTestPoller(t, ctrl, state, alwaysUpPinger(), healthySNMP(), nil)

	device := state.devices[0]
	result := p.PollDevice(context.Background(), &device)

	assert.True(t, result.Success)
	assert.Equal(t, models.AlertResolved, state.alerts[0].Status)
	require.NotNil(t, state.alerts[0].ResolvedAt)
}

func TestPollDeviceHighCPURaisesAlert(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := &fakeState{devices: []models.Device{testRouter()}}
	snmp := healthySNMP()
	snmp.scalars[drivers.OIDCPU5Min] = drivers.Value{Raw: 95}

	p := newTestPoller(t, ctrl, state, alwaysUpPinger(), snmp, nil)

	device := state.devices[0]
	result := p.PollDevice(context.Background(), &device)

	require.Len(t, result.AlertsRaised, 1)

	alerts := state.alertsOfType(alerting.TypeHighCPU)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
}
