// Package drivers pkg/drivers/snmp.go
package drivers

import (
	"fmt"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"
)

const (
	defaultSNMPPort    = 161
	defaultSNMPRetries = 2
)

// SNMPError wraps SNMP-specific errors with additional context.
type SNMPError struct {
	Op      string
	Target  string
	Wrapped error
}

func (e *SNMPError) Error() string {
	return fmt.Sprintf("SNMP %s failed for target %s: %v", e.Op, e.Target, e.Wrapped)
}

func (e *SNMPError) Unwrap() error {
	return e.Wrapped
}

// GoSNMPDialer opens SNMP v2c sessions using gosnmp.
type GoSNMPDialer struct{}

// Dial connects to a device and returns an open session.
func (GoSNMPDialer) Dial(host, community string, timeout time.Duration) (SNMPSession, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := &gosnmp.GoSNMP{
		Target:             host,
		Port:               defaultSNMPPort,
		Community:          community,
		Version:            gosnmp.Version2c,
		Timeout:            timeout,
		Retries:            defaultSNMPRetries,
		ExponentialTimeout: true,
		MaxOids:            gosnmp.MaxOids,
	}

	if err := client.Connect(); err != nil {
		return nil, &SNMPError{Op: "connect", Target: host, Wrapped: err}
	}

	return &snmpSession{client: client, target: host}, nil
}

type snmpSession struct {
	client *gosnmp.GoSNMP
	target string
	mu     sync.Mutex
	closed bool
}

// Get fetches scalar OIDs, splitting into chunks of MaxOids per request.
func (s *snmpSession) Get(oids []string) (map[string]Value, error) {
	results := make(map[string]Value, len(oids))

	for i := 0; i < len(oids); i += gosnmp.MaxOids {
		end := i + gosnmp.MaxOids
		if end > len(oids) {
			end = len(oids)
		}

		packet, err := s.client.Get(oids[i:end])
		if err != nil {
			return nil, &SNMPError{Op: "get", Target: s.target, Wrapped: err}
		}

		for _, variable := range packet.Variables {
			results[variable.Name] = convertVariable(variable)
		}
	}

	return results, nil
}

// Walk retrieves a subtree keyed by full OID.
func (s *snmpSession) Walk(oid string) (map[string]Value, error) {
	pdus, err := s.client.BulkWalkAll(oid)
	if err != nil {
		return nil, &SNMPError{Op: "walk", Target: s.target, Wrapped: err}
	}

	results := make(map[string]Value, len(pdus))
	for _, pdu := range pdus {
		results[pdu.Name] = convertVariable(pdu)
	}

	return results, nil
}

func (s *snmpSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.client.Conn == nil {
		return nil
	}

	s.closed = true

	return s.client.Conn.Close()
}

// convertVariable converts an SNMP PDU to a typed Value. "No such" responses
// become KindNoSuchInstance so callers can discard them without string
// sniffing exception messages.
func convertVariable(variable gosnmp.SnmpPDU) Value {
	switch variable.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView:
		return Value{Kind: KindNoSuchInstance}
	case gosnmp.OctetString:
		if b, ok := variable.Value.([]byte); ok {
			return Value{Raw: string(b)}
		}

		return Value{Raw: variable.Value}
	case gosnmp.Counter32, gosnmp.Gauge32, gosnmp.TimeTicks:
		if v, ok := variable.Value.(uint); ok {
			return Value{Raw: uint64(v)}
		}

		return Value{Raw: variable.Value}
	case gosnmp.Counter64:
		return Value{Raw: variable.Value}
	case gosnmp.Integer:
		return Value{Raw: variable.Value}
	default:
		return Value{Raw: variable.Value}
	}
}
