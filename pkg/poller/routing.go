// Package poller pkg/poller/routing.go
package poller

import (
	"context"
	"log"

	"github.com/carverauto/fleetmon/pkg/models"
)

// PollRouting collects BGP and OSPF adjacency state from routers over SSH.
// Routing polls run on their own, slower cadence: adjacency churn is rarer
// than metric drift and each poll costs a full login.
func (p *Poller) PollRouting(ctx context.Context) error {
	devices, err := p.store.ListDevices(true)
	if err != nil {
		return err
	}

	for i := range devices {
		device := &devices[i]

		if device.DeviceType != models.DeviceRouter {
			continue
		}

		creds := p.credsFor(device)
		if !creds.HasSSH() {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := p.pollNeighbors(ctx, device, creds); err != nil {
			log.Printf("Routing poll failed for device %s: %v", device.Name, err)
		}
	}

	return nil
}

func (p *Poller) pollNeighbors(ctx context.Context, device *models.Device, creds models.Credentials) error {
	session, err := p.ssh.Dial(device.IPAddress, device.SSHPort, creds, p.cfg.SSHTimeout)
	if err != nil {
		return err
	}

	defer func() {
		_ = session.Close()
	}()

	bgp, err := session.BGPNeighbors()
	if err != nil {
		log.Printf("BGP neighbor collection failed for %s: %v", device.Name, err)
	}

	ospf, err := session.OSPFNeighbors()
	if err != nil {
		log.Printf("OSPF neighbor collection failed for %s: %v", device.Name, err)
	}

	for _, neighbor := range append(bgp, ospf...) {
		alert, err := p.engine.EvaluateNeighbor(ctx, device, neighbor)
		if err != nil {
			log.Printf("Neighbor evaluation failed for %s %s: %v", device.Name, neighbor.ID, err)
			continue
		}

		metricType := models.MetricBGPNeighborState
		if neighbor.Protocol == "ospf" {
			metricType = models.MetricOSPFNeighborState
		}

		healthy := 1.0
		if alert != nil {
			healthy = 0
		}

		sample := &models.MetricSample{
			DeviceID: device.ID,
			Type:     metricType,
			Name:     string(metricType),
			Value:    healthy,
			Context:  neighbor.ID,
			Metadata: map[string]any{"state": neighbor.State, "detail": neighbor.Detail},
		}

		if err := p.store.StoreMetric(sample); err != nil {
			log.Printf("Failed to store neighbor state for %s %s: %v", device.Name, neighbor.ID, err)
		}
	}

	return nil
}
