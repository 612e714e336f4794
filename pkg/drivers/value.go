// Package drivers pkg/drivers/value.go
package drivers

import (
	"strconv"
	"strings"
)

// ValueKind classifies an SNMP result value.
type ValueKind int

const (
	// KindOK is a normal value.
	KindOK ValueKind = iota
	// KindNoSuchInstance marks a protocol-level "no such instance" or
	// "no such object" response. Callers discard these silently instead
	// of coercing to zero.
	KindNoSuchInstance
)

// Value is a single typed SNMP result.
type Value struct {
	Kind ValueKind
	Raw  interface{}
}

// Missing reports whether the value represents an absent instance.
func (v Value) Missing() bool {
	return v.Kind == KindNoSuchInstance
}

// Float64 converts the raw value to a float64. Conversion is defensive:
// agents occasionally return numbers as strings, and some return "No Such
// Instance ..." text in-band; both cases are handled without panicking.
func (v Value) Float64() (float64, bool) {
	if v.Missing() {
		return 0, false
	}

	switch raw := v.Raw.(type) {
	case float64:
		return raw, true
	case int:
		return float64(raw), true
	case int64:
		return float64(raw), true
	case uint:
		return float64(raw), true
	case uint32:
		return float64(raw), true
	case uint64:
		return float64(raw), true
	case string:
		if strings.Contains(raw, "No Such") {
			return 0, false
		}

		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}

// String returns the raw value as a string.
func (v Value) String() string {
	if v.Missing() {
		return ""
	}

	switch raw := v.Raw.(type) {
	case string:
		return raw
	case []byte:
		return string(raw)
	default:
		return ""
	}
}

// Int returns the raw value as an int.
func (v Value) Int() (int, bool) {
	f, ok := v.Float64()
	if !ok {
		return 0, false
	}

	return int(f), true
}
