// Package models pkg/models/device.go
package models

import "time"

// DeviceType identifies the class of a monitored device.
type DeviceType string

const (
	DeviceRouter      DeviceType = "router"
	DeviceSwitch      DeviceType = "switch"
	DeviceFirewall    DeviceType = "firewall"
	DeviceAccessPoint DeviceType = "access_point"
	DeviceOther       DeviceType = "other"
)

// Platform identifies the command dialect a device speaks over SSH.
type Platform string

const (
	PlatformCiscoIOS   Platform = "cisco_ios"
	PlatformCiscoIOSXE Platform = "cisco_ios_xe"
	PlatformCiscoASA   Platform = "cisco_asa"
)

// PlatformFor maps a device type to its command platform. Resolved once per
// operation; firewalls expose a different command set than routers/switches.
func PlatformFor(t DeviceType) Platform {
	switch t {
	case DeviceRouter:
		return PlatformCiscoIOSXE
	case DeviceFirewall:
		return PlatformCiscoASA
	default:
		return PlatformCiscoIOS
	}
}

// Device represents a monitored network device. Inventory management creates
// devices; the poller only mutates reachability and last-seen.
type Device struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Hostname      string     `json:"hostname"`
	IPAddress     string     `json:"ip_address"`
	DeviceType    DeviceType `json:"device_type"`
	Vendor        string     `json:"vendor"`
	IsActive      bool       `json:"is_active"`
	IsReachable   bool       `json:"is_reachable"`
	LastSeen      *time.Time `json:"last_seen,omitempty"`
	SNMPCommunity string     `json:"snmp_community,omitempty"`
	SNMPVersion   int        `json:"snmp_version"`
	SSHPort       int        `json:"ssh_port"`
}

// Credentials holds connection secrets for a device. They are resolved by an
// external provider and injected per operation, never stored on the Device.
type Credentials struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	EnablePassword string `json:"enable_password,omitempty"`
	SNMPCommunity  string `json:"snmp_community,omitempty"`
}

// HasSSH reports whether SSH-dependent operations can be attempted.
func (c Credentials) HasSSH() bool {
	return c.Username != "" && c.Password != ""
}
