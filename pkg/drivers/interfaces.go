// Package drivers pkg/drivers/interfaces.go defines the protocol driver
// boundary. The core calls these as black boxes and pattern-matches typed
// results; it never distinguishes failure modes via error types alone.
package drivers

import (
	"context"
	"time"

	"github.com/carverauto/fleetmon/pkg/models"
)

// Pinger sends ICMP echo probes to a host.
type Pinger interface {
	Ping(ctx context.Context, host string, count int, timeout time.Duration) models.PingResult
}

// SNMPSession is an open SNMP session against one device.
type SNMPSession interface {
	// Get fetches scalar OIDs; missing instances come back as Values with
	// KindNoSuchInstance, not as errors.
	Get(oids []string) (map[string]Value, error)
	// Walk retrieves a subtree keyed by full OID.
	Walk(oid string) (map[string]Value, error)
	Close() error
}

// SNMPDialer opens SNMP sessions.
type SNMPDialer interface {
	Dial(host, community string, timeout time.Duration) (SNMPSession, error)
}

// SSHSession is an open command session against one device.
type SSHSession interface {
	Execute(command string) (string, error)
	Configure(commands []string) (string, error)
	BGPNeighbors() ([]models.NeighborState, error)
	OSPFNeighbors() ([]models.NeighborState, error)
	Close() error
}

// SSHDialer opens SSH sessions.
type SSHDialer interface {
	Dial(host string, port int, creds models.Credentials, timeout time.Duration) (SSHSession, error)
}
