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
	"github.com/carverauto/fleetmon/pkg/models"
)

const sampleRunningConfig = "hostname edge-rtr-01\ninterface GigabitEthernet0/0\n ip address 10.0.0.1 255.255.255.0\n!\nend\n"

func newBackupPoller(t *testing.T, ctrl *gomock.Controller, state *fakeState, ssh *scriptedSSH) *Poller {
	t.Helper()

	store := newFakeStore(t, ctrl, state)
	engine := alerting.NewEngine(store, alerting.DefaultThresholds())

	return New(store, alwaysUpPinger(), healthySNMP(), ssh, engine, Config{
		SSHTimeout:   time.Second,
		DefaultCreds: models.Credentials{Username: "admin", Password: "secret"},
	})
}

func TestBackupConfigsStoresFirstCapture(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := &fakeState{devices: []models.Device{testRouter()}}
	ssh := &scriptedSSH{execOutput: sampleRunningConfig}
	p := newBackupPoller(t, ctrl, state, ssh)

	summary, err := p.BackupConfigs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 0, summary.Unchanged)
	assert.Equal(t, 0, summary.Failed)

	require.Len(t, state.backups, 1)
	backup := state.backups[0]
	assert.Equal(t, int64(1), backup.DeviceID)
	assert.Equal(t, models.ConfigTypeRunning, backup.ConfigType)
	assert.Equal(t, models.HashConfig(sampleRunningConfig), backup.ContentHash)
	assert.Equal(t, len(sampleRunningConfig), backup.SizeBytes)
	assert.Equal(t, "scheduled", backup.TriggeredBy)

	assert.Equal(t, 1, ssh.dials)
	assert.Equal(t, 1, ssh.closed)
}

func TestBackupConfigsSkipsUnchangedConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := &fakeState{
		devices: []models.Device{testRouter()},
		backups: []models.ConfigBackup{
			*models.NewConfigBackup(1, models.ConfigTypeRunning, sampleRunningConfig, "scheduled"),
		},
	}
	ssh := &scriptedSSH{execOutput: sampleRunningConfig}
	p := newBackupPoller(t, ctrl, state, ssh)

	summary, err := p.BackupConfigs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Len(t, state.backups, 1)
}

func TestBackupConfigsStoresChangedConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := &fakeState{
		devices: []models.Device{testRouter()},
		backups: []models.ConfigBackup{
			*models.NewConfigBackup(1, models.ConfigTypeRunning, "hostname old-name\nend\n", "scheduled"),
		},
	}
	ssh := &scriptedSSH{execOutput: sampleRunningConfig}
	p := newBackupPoller(t, ctrl, state, ssh)

	summary, err := p.BackupConfigs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 0, summary.Unchanged)

	require.Len(t, state.backups, 2)
	assert.Equal(t, models.HashConfig(sampleRunningConfig), state.backups[1].ContentHash)
}

func TestBackupConfigsSkipsDevicesWithoutSSHCreds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := &fakeState{devices: []models.Device{testRouter()}}
	ssh := &scriptedSSH{execOutput: sampleRunningConfig}

	// No default credentials, so no device qualifies for capture.
	p := newTestPoller(t, ctrl, state, alwaysUpPinger(), healthySNMP(), ssh)

	summary, err := p.BackupConfigs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 0, summary.Unchanged)
	assert.Equal(t, 0, summary.Failed)
	assert.Zero(t, ssh.dials)
	assert.Empty(t, state.backups)
}

func TestBackupConfigsCountsFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := &fakeState{devices: []models.Device{testRouter()}}
	ssh := &scriptedSSH{dialErr: errors.New("connection refused")}
	p := newBackupPoller(t, ctrl, state, ssh)

	summary, err := p.BackupConfigs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Empty(t, state.backups)
}

func TestBackupConfigsRejectsEmptyCapture(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := &fakeState{devices: []models.Device{testRouter()}}
	ssh := &scriptedSSH{execOutput: ""}
	p := newBackupPoller(t, ctrl, state, ssh)

	summary, err := p.BackupConfigs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Empty(t, state.backups)
}
