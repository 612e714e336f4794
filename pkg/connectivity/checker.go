// Package connectivity pkg/connectivity/checker.go implements the device
// reachability facade. A device is considered reachable when any enabled
// check (ICMP, SNMP, SSH) succeeds; individual failures are recorded per
// check and never abort the rest.
package connectivity

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/carverauto/fleetmon/pkg/drivers"
	"github.com/carverauto/fleetmon/pkg/models"
)

const (
	defaultPingCount   = 3
	defaultPingTimeout = 3 * time.Second
	defaultSNMPTimeout = 5 * time.Second
	defaultSSHTimeout  = 15 * time.Second
)

// Options selects which checks run and with what timeouts. Zero timeouts
// fall back to sensible defaults.
type Options struct {
	Ping        bool
	SNMP        bool
	SSH         bool
	PingTimeout time.Duration
	SNMPTimeout time.Duration
	SSHTimeout  time.Duration
}

// DefaultOptions runs ping and SNMP, the two checks every device supports.
func DefaultOptions() Options {
	return Options{Ping: true, SNMP: true}
}

// Checker verifies device reachability over multiple protocols. It performs
// no persistence; callers decide what to do with the result.
type Checker struct {
	pinger drivers.Pinger
	snmp   drivers.SNMPDialer
	ssh    drivers.SSHDialer
}

// NewChecker creates a connectivity checker from protocol drivers.
func NewChecker(pinger drivers.Pinger, snmp drivers.SNMPDialer, ssh drivers.SSHDialer) *Checker {
	return &Checker{pinger: pinger, snmp: snmp, ssh: ssh}
}

// Check runs the enabled probes against a device and aggregates the results.
// Checks run sequentially; a device that answers ping but refuses SNMP is
// still reachable.
func (c *Checker) Check(ctx context.Context, device *models.Device, creds models.Credentials, opts Options) *models.ConnectivityResult {
	result := &models.ConnectivityResult{
		DeviceID:   device.ID,
		DeviceName: device.Name,
		IPAddress:  device.IPAddress,
		Timestamp:  time.Now().UTC(),
	}

	if opts.Ping && c.pinger != nil {
		ping := c.pinger.Ping(ctx, device.IPAddress, defaultPingCount, timeoutOr(opts.PingTimeout, defaultPingTimeout))
		result.Ping = &ping
	}

	if opts.SNMP && c.snmp != nil {
		result.SNMP = c.checkSNMP(device, creds, timeoutOr(opts.SNMPTimeout, defaultSNMPTimeout))
	}

	if opts.SSH && c.ssh != nil {
		result.SSH = c.checkSSH(device, creds, timeoutOr(opts.SSHTimeout, defaultSSHTimeout))
	}

	result.OverallReachable = (result.Ping != nil && result.Ping.Success) ||
		(result.SNMP != nil && result.SNMP.Success) ||
		(result.SSH != nil && result.SSH.Success)

	if !result.OverallReachable {
		log.Printf("Device %s (%s) failed all connectivity checks", device.Name, device.IPAddress)
	}

	return result
}

// checkSNMP opens a session and reads sysDescr as a liveness probe.
func (c *Checker) checkSNMP(device *models.Device, creds models.Credentials, timeout time.Duration) *models.CheckResult {
	community := creds.SNMPCommunity
	if community == "" {
		community = device.SNMPCommunity
	}

	session, err := c.snmp.Dial(device.IPAddress, community, timeout)
	if err != nil {
		return &models.CheckResult{Error: err.Error()}
	}

	defer func() {
		_ = session.Close()
	}()

	values, err := session.Get([]string{drivers.OIDSysDescr})
	if err != nil {
		return &models.CheckResult{Error: err.Error()}
	}

	descr := values[drivers.OIDSysDescr]
	if descr.Missing() {
		return &models.CheckResult{Error: "sysDescr not available"}
	}

	return &models.CheckResult{Success: true, Detail: firstLine(descr.String())}
}

// checkSSH connects and runs "show version" as a liveness probe.
func (c *Checker) checkSSH(device *models.Device, creds models.Credentials, timeout time.Duration) *models.CheckResult {
	if !creds.HasSSH() {
		return &models.CheckResult{Error: "no SSH credentials configured"}
	}

	session, err := c.ssh.Dial(device.IPAddress, device.SSHPort, creds, timeout)
	if err != nil {
		return &models.CheckResult{Error: err.Error()}
	}

	defer func() {
		_ = session.Close()
	}()

	output, err := session.Execute("show version")
	if err != nil {
		return &models.CheckResult{Error: err.Error()}
	}

	return &models.CheckResult{Success: true, Detail: firstLine(output)}
}

func timeoutOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}

	return fallback
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}

	return strings.TrimSpace(s)
}
