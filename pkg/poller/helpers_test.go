package poller

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/carverauto/fleetmon/pkg/db"
	"github.com/carverauto/fleetmon/pkg/drivers"
	"github.com/carverauto/fleetmon/pkg/models"
)

// fakeState is in-memory persistence backing the mock store, so tests can
// follow metrics and alerts across multiple poll cycles. Guarded by a mutex
// because fleet sweeps hit the store from many goroutines.
type fakeState struct {
	mu      sync.Mutex
	devices []models.Device
	metrics []models.MetricSample
	alerts  []models.Alert
	backups []models.ConfigBackup
}

func (s *fakeState) openAlerts(deviceID int64, alertType string) []models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	var open []models.Alert

	for _, a := range s.alerts {
		if a.DeviceID == deviceID && a.AlertType == alertType && a.Open() {
			open = append(open, a)
		}
	}

	return open
}

func (s *fakeState) alertsOfType(alertType string) []models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Alert

	for _, a := range s.alerts {
		if a.AlertType == alertType {
			matched = append(matched, a)
		}
	}

	return matched
}

func (s *fakeState) metricsOfType(metricType models.MetricType) []models.MetricSample {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.MetricSample

	for _, m := range s.metrics {
		if m.Type == metricType {
			matched = append(matched, m)
		}
	}

	return matched
}

func newFakeStore(t *testing.T, ctrl *gomock.Controller, state *fakeState) *db.MockService {
	t.Helper()

	mockDB := db.NewMockService(ctrl)

	mockDB.EXPECT().ListDevices(gomock.Any()).DoAndReturn(
		func(bool) ([]models.Device, error) {
			state.mu.Lock()
			defer state.mu.Unlock()

			out := make([]models.Device, len(state.devices))
			copy(out, state.devices)

			return out, nil
		}).AnyTimes()

	mockDB.EXPECT().UpdateDeviceReachability(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(id int64, reachable bool, lastSeen *time.Time) error {
			state.mu.Lock()
			defer state.mu.Unlock()

			for i := range state.devices {
				if state.devices[i].ID == id {
					state.devices[i].IsReachable = reachable

					if lastSeen != nil {
						state.devices[i].LastSeen = lastSeen
					}
				}
			}

			return nil
		}).AnyTimes()

	mockDB.EXPECT().StoreMetric(gomock.Any()).DoAndReturn(
		func(sample *models.MetricSample) error {
			state.mu.Lock()
			defer state.mu.Unlock()

			sample.ID = int64(len(state.metrics) + 1)

			if sample.CreatedAt.IsZero() {
				sample.CreatedAt = time.Now().UTC()
			}

			state.metrics = append(state.metrics, *sample)

			return nil
		}).AnyTimes()

	mockDB.EXPECT().LatestMetric(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(deviceID int64, metricType models.MetricType, context string) (*models.MetricSample, error) {
			state.mu.Lock()
			defer state.mu.Unlock()

			for i := len(state.metrics) - 1; i >= 0; i-- {
				m := state.metrics[i]
				if m.DeviceID == deviceID && m.Type == metricType && m.Context == context {
					return &m, nil
				}
			}

			return nil, db.ErrNotFound
		}).AnyTimes()

	mockDB.EXPECT().CreateConfigBackup(gomock.Any()).DoAndReturn(
		func(backup *models.ConfigBackup) error {
			state.mu.Lock()
			defer state.mu.Unlock()

			backup.ID = int64(len(state.backups) + 1)

			if backup.CreatedAt.IsZero() {
				backup.CreatedAt = time.Now().UTC()
			}

			state.backups = append(state.backups, *backup)

			return nil
		}).AnyTimes()

	mockDB.EXPECT().LatestConfigBackup(gomock.Any(), gomock.Any()).DoAndReturn(
		func(deviceID int64, configType string) (*models.ConfigBackup, error) {
			state.mu.Lock()
			defer state.mu.Unlock()

			for i := len(state.backups) - 1; i >= 0; i-- {
				b := state.backups[i]
				if b.DeviceID == deviceID && b.ConfigType == configType {
					return &b, nil
				}
			}

			return nil, db.ErrNotFound
		}).AnyTimes()

	mockDB.EXPECT().FindOpenAlerts(gomock.Any(), gomock.Any()).DoAndReturn(
		func(deviceID int64, alertType string) ([]models.Alert, error) {
			return state.openAlerts(deviceID, alertType), nil
		}).AnyTimes()

	mockDB.EXPECT().CreateAlert(gomock.Any()).DoAndReturn(
		func(alert *models.Alert) error {
			state.mu.Lock()
			defer state.mu.Unlock()

			alert.ID = int64(len(state.alerts) + 1)
			state.alerts = append(state.alerts, *alert)

			return nil
		}).AnyTimes()

	mockDB.EXPECT().UpdateAlert(gomock.Any()).DoAndReturn(
		func(alert *models.Alert) error {
			state.mu.Lock()
			defer state.mu.Unlock()

			for i := range state.alerts {
				if state.alerts[i].ID == alert.ID {
					state.alerts[i] = *alert
					return nil
				}
			}

			return db.ErrNotFound
		}).AnyTimes()

	return mockDB
}

// pingerFunc adapts a function to the drivers.Pinger interface.
type pingerFunc func(ctx context.Context, host string, count int, timeout time.Duration) models.PingResult

func (f pingerFunc) Ping(ctx context.Context, host string, count int, timeout time.Duration) models.PingResult {
	return f(ctx, host, count, timeout)
}

func alwaysUpPinger() drivers.Pinger {
	return pingerFunc(func(context.Context, string, int, time.Duration) models.PingResult {
		return models.PingResult{Success: true, LatencyMs: 1.5}
	})
}

func alwaysDownPinger() drivers.Pinger {
	return pingerFunc(func(context.Context, string, int, time.Duration) models.PingResult {
		return models.PingResult{Success: false, PacketLoss: 100, Error: "no reply"}
	})
}

// scriptedSNMP returns canned values for Get and Walk requests.
type scriptedSNMP struct {
	scalars map[string]drivers.Value
	tables  map[string]map[string]drivers.Value
	dialErr error
	dials   int
	closed  int
}

func (s *scriptedSNMP) Dial(_, _ string, _ time.Duration) (drivers.SNMPSession, error) {
	s.dials++

	if s.dialErr != nil {
		return nil, s.dialErr
	}

	return &scriptedSNMPSession{owner: s}, nil
}

type scriptedSNMPSession struct {
	owner *scriptedSNMP
}

func (s *scriptedSNMPSession) Get(oids []string) (map[string]drivers.Value, error) {
	out := make(map[string]drivers.Value, len(oids))

	for _, oid := range oids {
		if v, ok := s.owner.scalars[oid]; ok {
			out[oid] = v
		} else {
			out[oid] = drivers.Value{Kind: drivers.KindNoSuchInstance}
		}
	}

	return out, nil
}

func (s *scriptedSNMPSession) Walk(oid string) (map[string]drivers.Value, error) {
	return s.owner.tables[oid], nil
}

func (s *scriptedSNMPSession) Close() error {
	s.owner.closed++
	return nil
}

// scriptedSSH returns canned neighbor states and exec output.
type scriptedSSH struct {
	bgp        []models.NeighborState
	ospf       []models.NeighborState
	execOutput string
	execErr    error
	dialErr    error
	dials      int
	closed     int
}

func (s *scriptedSSH) Dial(_ string, _ int, _ models.Credentials, _ time.Duration) (drivers.SSHSession, error) {
	s.dials++

	if s.dialErr != nil {
		return nil, s.dialErr
	}

	return &scriptedSSHSession{owner: s}, nil
}

type scriptedSSHSession struct {
	owner *scriptedSSH
}

func (s *scriptedSSHSession) Execute(_ string) (string, error) {
	return s.owner.execOutput, s.owner.execErr
}

func (s *scriptedSSHSession) Configure(_ []string) (string, error) { return "", nil }

func (s *scriptedSSHSession) BGPNeighbors() ([]models.NeighborState, error) {
	return s.owner.bgp, nil
}

func (s *scriptedSSHSession) OSPFNeighbors() ([]models.NeighborState, error) {
	return s.owner.ospf, nil
}

func (s *scriptedSSHSession) Close() error {
	s.owner.closed++
	return nil
}
