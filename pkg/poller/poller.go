// Package poller pkg/poller/poller.go implements the fleet polling
// scheduler: a ticker-driven sweep over all active devices with bounded
// concurrency and per-device failure isolation. One slow or panicking
// device never stalls the rest of the sweep.
package poller

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/carverauto/fleetmon/pkg/alerting"
	"github.com/carverauto/fleetmon/pkg/db"
	"github.com/carverauto/fleetmon/pkg/drivers"
	"github.com/carverauto/fleetmon/pkg/models"
)

const (
	defaultMaxConcurrent  = 10
	defaultPollInterval   = 60 * time.Second
	defaultRetention      = 30 * 24 * time.Hour
	defaultBackupInterval = 24 * time.Hour
	cleanupInterval       = 24 * time.Hour

	// Dispatch pacing. New device goroutines start at most this often so a
	// large fleet does not burst every probe onto the wire at tick time.
	dispatchEvery = 50 * time.Millisecond
)

// Config holds poller runtime settings.
type Config struct {
	PollInterval    time.Duration
	RoutingInterval time.Duration
	BackupInterval  time.Duration
	MaxConcurrent   int
	PingTimeout     time.Duration
	SNMPTimeout     time.Duration
	SSHTimeout      time.Duration
	DefaultCreds    models.Credentials
	Retention       time.Duration
}

// Poller drives periodic metric collection across the device fleet.
type Poller struct {
	store   db.Service
	pinger  drivers.Pinger
	snmp    drivers.SNMPDialer
	ssh     drivers.SSHDialer
	engine  *alerting.Engine
	cfg     Config
	limiter *rate.Limiter
}

// New creates a poller. Zero config values get defaults.
func New(store db.Service, pinger drivers.Pinger, snmp drivers.SNMPDialer, ssh drivers.SSHDialer, engine *alerting.Engine, cfg Config) *Poller {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	if cfg.RoutingInterval <= 0 {
		cfg.RoutingInterval = 5 * time.Minute
	}

	if cfg.BackupInterval <= 0 {
		cfg.BackupInterval = defaultBackupInterval
	}

	if cfg.Retention <= 0 {
		cfg.Retention = defaultRetention
	}

	return &Poller{
		store:   store,
		pinger:  pinger,
		snmp:    snmp,
		ssh:     ssh,
		engine:  engine,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(dispatchEvery), cfg.MaxConcurrent),
	}
}

// Start runs the polling loops until the context is canceled. An initial
// fleet sweep happens immediately.
func (p *Poller) Start(ctx context.Context) error {
	log.Printf("Starting poller: interval=%v concurrency=%d", p.cfg.PollInterval, p.cfg.MaxConcurrent)

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	routingTicker := time.NewTicker(p.cfg.RoutingInterval)
	defer routingTicker.Stop()

	backupTicker := time.NewTicker(p.cfg.BackupInterval)
	defer backupTicker.Stop()

	cleanupTicker := time.NewTicker(cleanupInterval)
	defer cleanupTicker.Stop()

	if _, err := p.PollFleet(ctx); err != nil {
		log.Printf("Error during initial fleet sweep: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := p.PollFleet(ctx); err != nil {
				log.Printf("Error during fleet sweep: %v", err)
			}
		case <-routingTicker.C:
			if err := p.PollRouting(ctx); err != nil {
				log.Printf("Error during routing poll: %v", err)
			}
		case <-backupTicker.C:
			if _, err := p.BackupConfigs(ctx); err != nil {
				log.Printf("Error during config backup sweep: %v", err)
			}
		case <-cleanupTicker.C:
			if deleted, err := p.store.CleanOldMetrics(p.cfg.Retention); err != nil {
				log.Printf("Error cleaning old metrics: %v", err)
			} else if deleted > 0 {
				log.Printf("Retention cleanup removed %d metric rows", deleted)
			}
		}
	}
}

// PollFleet polls every active device once. Devices run concurrently up to
// MaxConcurrent; each device is isolated, so an error or panic in one poll
// is recorded in its result and the sweep continues.
func (p *Poller) PollFleet(ctx context.Context) (*models.FleetResult, error) {
	devices, err := p.store.ListDevices(true)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	log.Printf("Starting fleet sweep across %d devices", len(devices))

	results := make([]models.PollResult, len(devices))
	sem := make(chan struct{}, p.cfg.MaxConcurrent)

	var wg sync.WaitGroup

	for i := range devices {
		if err := p.limiter.Wait(ctx); err != nil {
			results[i] = models.PollResult{
				DeviceID:   devices[i].ID,
				DeviceName: devices[i].Name,
				Errors:     []string{err.Error()},
			}

			continue
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			defer func() {
				if r := recover(); r != nil {
					log.Printf("Panic while polling device %s: %v", devices[i].Name, r)

					results[i] = models.PollResult{
						DeviceID:   devices[i].ID,
						DeviceName: devices[i].Name,
						Errors:     []string{fmt.Sprintf("panic: %v", r)},
					}
				}
			}()

			results[i] = p.PollDevice(ctx, &devices[i])
		}(i)
	}

	wg.Wait()

	fleet := &models.FleetResult{
		DevicesPolled: len(devices),
		Results:       results,
	}

	for i := range results {
		if results[i].Success {
			fleet.Succeeded++
		} else {
			fleet.Failed++
		}

		fleet.TotalAlerts += len(results[i].AlertsRaised)
	}

	log.Printf("Fleet sweep complete: %d succeeded, %d failed, %d alerts",
		fleet.Succeeded, fleet.Failed, fleet.TotalAlerts)

	return fleet, nil
}

// credsFor resolves credentials for a device: fleet defaults overlaid with
// the device's own SNMP community when set.
func (p *Poller) credsFor(device *models.Device) models.Credentials {
	creds := p.cfg.DefaultCreds
	if device.SNMPCommunity != "" {
		creds.SNMPCommunity = device.SNMPCommunity
	}

	return creds
}
