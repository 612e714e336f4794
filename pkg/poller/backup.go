// Package poller pkg/poller/backup.go
package poller

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/carverauto/fleetmon/pkg/db"
	"github.com/carverauto/fleetmon/pkg/models"
)

const showRunningConfig = "show running-config"

// BackupConfigs captures the running configuration of every active device
// with SSH credentials. A capture whose hash matches the device's latest
// stored backup is counted as unchanged and not stored again.
func (p *Poller) BackupConfigs(ctx context.Context) (*models.BackupSummary, error) {
	devices, err := p.store.ListDevices(true)
	if err != nil {
		return nil, err
	}

	summary := &models.BackupSummary{}

	for i := range devices {
		device := &devices[i]

		creds := p.credsFor(device)
		if !creds.HasSSH() {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		stored, err := p.backupDevice(device, creds)

		switch {
		case err != nil:
			summary.Failed++

			log.Printf("Config backup failed for device %s: %v", device.Name, err)
		case stored:
			summary.Succeeded++
		default:
			summary.Unchanged++
		}
	}

	log.Printf("Config backup sweep complete: %d stored, %d unchanged, %d failed",
		summary.Succeeded, summary.Unchanged, summary.Failed)

	return summary, nil
}

// backupDevice captures one device's running config and stores it if it
// differs from the previous capture. Reports whether a new row was written.
func (p *Poller) backupDevice(device *models.Device, creds models.Credentials) (bool, error) {
	session, err := p.ssh.Dial(device.IPAddress, device.SSHPort, creds, p.cfg.SSHTimeout)
	if err != nil {
		return false, err
	}

	defer func() {
		_ = session.Close()
	}()

	content, err := session.Execute(showRunningConfig)
	if err != nil {
		return false, err
	}

	if content == "" {
		return false, fmt.Errorf("device %s returned an empty running config", device.Name)
	}

	backup := models.NewConfigBackup(device.ID, models.ConfigTypeRunning, content, "scheduled")

	previous, err := p.store.LatestConfigBackup(device.ID, models.ConfigTypeRunning)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return false, err
	}

	if previous != nil && previous.ContentHash == backup.ContentHash {
		return false, nil
	}

	if err := p.store.CreateConfigBackup(backup); err != nil {
		return false, err
	}

	log.Printf("Stored config backup %d for device %s (%d bytes)", backup.ID, device.Name, backup.SizeBytes)

	return true, nil
}
