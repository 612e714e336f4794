// Package remediation pkg/remediation/orchestrator.go runs corrective
// actions against devices and records every attempt. The log row is created
// pending before any device interaction, so a crash or connect failure
// still leaves an audit trail, and the SSH session is always closed no
// matter how the action ends.
package remediation

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

const defaultSSHTimeout = 30 * time.Second

// ErrNoCredentials is returned when a device has no usable SSH credentials.
var ErrNoCredentials = errors.New("no SSH credentials available for device")

// Orchestrator executes playbooks and alert-driven actions over SSH.
type Orchestrator struct {
	store        db.Service
	ssh          drivers.SSHDialer
	engine       *alerting.Engine
	defaultCreds models.Credentials
	sshTimeout   time.Duration
}

// NewOrchestrator creates a remediation orchestrator. engine may be nil when
// alert resolution linkage is not wanted.
func NewOrchestrator(store db.Service, ssh drivers.SSHDialer, engine *alerting.Engine, defaultCreds models.Credentials, sshTimeout time.Duration) *Orchestrator {
	if sshTimeout <= 0 {
		sshTimeout = defaultSSHTimeout
	}

	return &Orchestrator{
		store:        store,
		ssh:          ssh,
		engine:       engine,
		defaultCreds: defaultCreds,
		sshTimeout:   sshTimeout,
	}
}

// action is one executable unit: a playbook or a parameterized command.
type action struct {
	name       string
	actionType string
	run        func(session drivers.SSHSession, entry *models.RemediationLog) error
}

// ExecutePlaybook runs a named playbook against a device. alertID, when
// non-nil, links the attempt to the alert that motivated it and resolves the
// alert on success.
func (o *Orchestrator) ExecutePlaybook(ctx context.Context, deviceID int64, playbookName string, alertID *int64) (*models.RemediationLog, error) {
	device, err := o.store.GetDevice(deviceID)
	if err != nil {
		return nil, err
	}

	commands, err := PlaybookCommands(playbookName, models.PlatformFor(device.DeviceType))
	if err != nil {
		return nil, err
	}

	return o.execute(ctx, device, alertID, action{
		name:       playbookName,
		actionType: "playbook",
		run: func(session drivers.SSHSession, entry *models.RemediationLog) error {
			for _, command := range commands {
				output, err := session.Execute(command)
				entry.CommandsExecuted = append(entry.CommandsExecuted, command)
				entry.CommandOutput += output

				if err != nil {
					return err
				}
			}

			return nil
		},
	})
}

// EnableInterface bounces an interface via configuration mode.
func (o *Orchestrator) EnableInterface(ctx context.Context, deviceID int64, ifName string, alertID *int64) (*models.RemediationLog, error) {
	device, err := o.store.GetDevice(deviceID)
	if err != nil {
		return nil, err
	}

	return o.execute(ctx, device, alertID, action{
		name:       "interface_enable",
		actionType: "interface_enable",
		run: func(session drivers.SSHSession, entry *models.RemediationLog) error {
			commands := interfaceEnableCommands(ifName)

			output, err := session.Configure(commands)
			entry.CommandsExecuted = append(entry.CommandsExecuted, commands...)
			entry.CommandOutput += output

			return err
		},
	})
}

// ClearBGPSession bounces a single BGP adjacency.
func (o *Orchestrator) ClearBGPSession(ctx context.Context, deviceID int64, neighborIP string, alertID *int64) (*models.RemediationLog, error) {
	device, err := o.store.GetDevice(deviceID)
	if err != nil {
		return nil, err
	}

	return o.execute(ctx, device, alertID, action{
		name:       "clear_bgp_session",
		actionType: "clear_bgp_session",
		run: func(session drivers.SSHSession, entry *models.RemediationLog) error {
			command := clearBGPCommand(neighborIP)

			output, err := session.Execute(command)
			entry.CommandsExecuted = append(entry.CommandsExecuted, command)
			entry.CommandOutput += output

			return err
		},
	})
}

// execute drives the shared lifecycle: pending row, connect, state capture,
// action, state capture, terminal status.
func (o *Orchestrator) execute(_ context.Context, device *models.Device, alertID *int64, act action) (*models.RemediationLog, error) {
	entry := &models.RemediationLog{
		DeviceID:     device.ID,
		AlertID:      alertID,
		PlaybookName: act.name,
		ActionType:   act.actionType,
	}

	if err := o.store.CreateRemediationLog(entry); err != nil {
		return nil, fmt.Errorf("create remediation log: %w", err)
	}

	started := time.Now().UTC()
	entry.Status = models.RemediationInProgress
	entry.StartedAt = &started
	o.persist(entry)

	creds := o.defaultCreds
	if !creds.HasSSH() {
		return entry, o.fail(entry, started, ErrNoCredentials)
	}

	session, err := o.ssh.Dial(device.IPAddress, device.SSHPort, creds, o.sshTimeout)
	if err != nil {
		return entry, o.fail(entry, started, err)
	}

	defer func() {
		if err := session.Close(); err != nil {
			log.Printf("Failed to close SSH session to %s: %v", device.Name, err)
		}
	}()

	entry.StateBefore = captureState(session)

	if err := act.run(session, entry); err != nil {
		entry.StateAfter = captureState(session)
		return entry, o.fail(entry, started, err)
	}

	entry.StateAfter = captureState(session)

	completed := time.Now().UTC()
	entry.Status = models.RemediationSuccess
	entry.CompletedAt = &completed
	entry.DurationMs = completed.Sub(started).Milliseconds()
	o.persist(entry)

	log.Printf("Remediation %s succeeded on device %s in %dms", act.name, device.Name, entry.DurationMs)

	o.resolveLinkedAlert(entry, act.name)

	return entry, nil
}

func (o *Orchestrator) fail(entry *models.RemediationLog, started time.Time, cause error) error {
	completed := time.Now().UTC()
	entry.Status = models.RemediationFailed
	entry.CompletedAt = &completed
	entry.DurationMs = completed.Sub(started).Milliseconds()
	entry.ErrorMessage = cause.Error()
	o.persist(entry)

	return cause
}

func (o *Orchestrator) persist(entry *models.RemediationLog) {
	if err := o.store.UpdateRemediationLog(entry); err != nil {
		log.Printf("Failed to persist remediation log %d: %v", entry.ID, err)
	}
}

func (o *Orchestrator) resolveLinkedAlert(entry *models.RemediationLog, actionName string) {
	if entry.AlertID == nil || o.engine == nil {
		return
	}

	notes := fmt.Sprintf("auto-remediation %s succeeded", actionName)

	if _, err := o.engine.Resolve(*entry.AlertID, notes); err != nil {
		if !errors.Is(err, alerting.ErrAlertResolved) {
			log.Printf("Failed to resolve alert %d after remediation: %v", *entry.AlertID, err)
		}
	}
}

// captureState grabs a coarse device snapshot around an action. Best-effort:
// capture failures are recorded, never fatal.
func captureState(session drivers.SSHSession) map[string]any {
	state := make(map[string]any, 2)

	for key, command := range map[string]string{
		"version": "show version | include uptime",
		"cpu":     "show processes cpu | include CPU",
	} {
		output, err := session.Execute(command)
		if err != nil {
			state[key] = fmt.Sprintf("capture failed: %v", err)
			continue
		}

		state[key] = strings.TrimSpace(output)
	}

	return state
}
