// Package drivers pkg/drivers/oids.go
package drivers

// Standard and Cisco-specific OIDs the collector polls.
const (
	// System
	OIDSysDescr  = ".1.3.6.1.2.1.1.1.0"
	OIDSysUptime = ".1.3.6.1.2.1.1.3.0"
	OIDSysName   = ".1.3.6.1.2.1.1.5.0"

	// CPU (Cisco process MIB, first CPU index)
	OIDCPU5Sec = ".1.3.6.1.4.1.9.9.109.1.1.1.1.6.1"
	OIDCPU1Min = ".1.3.6.1.4.1.9.9.109.1.1.1.1.7.1"
	OIDCPU5Min = ".1.3.6.1.4.1.9.9.109.1.1.1.1.8.1"

	// Memory (Cisco memory pool MIB, processor pool)
	OIDMemUsed = ".1.3.6.1.4.1.9.9.48.1.1.1.5.1"
	OIDMemFree = ".1.3.6.1.4.1.9.9.48.1.1.1.6.1"

	// Interface table (IF-MIB)
	OIDIfDescr       = ".1.3.6.1.2.1.2.2.1.2"
	OIDIfAdminStatus = ".1.3.6.1.2.1.2.2.1.7" // 1=up, 2=down, 3=testing
	OIDIfOperStatus  = ".1.3.6.1.2.1.2.2.1.8"
	OIDIfInOctets    = ".1.3.6.1.2.1.2.2.1.10"
	OIDIfInErrors    = ".1.3.6.1.2.1.2.2.1.14"
	OIDIfOutOctets   = ".1.3.6.1.2.1.2.2.1.16"
	OIDIfOutErrors   = ".1.3.6.1.2.1.2.2.1.20"
)
