// Package poller pkg/poller/rates.go
package poller

// counter32Max is the rollover point for 32-bit SNMP octet counters.
const counter32Max = 4294967295

// CounterRate converts two consecutive octet counter samples into a
// bits-per-second rate. A current value below the previous one is treated
// as a single 32-bit wraparound. Returns false when the samples cannot
// produce a valid rate: non-positive time delta, or a negative result from
// a counter reset that looks like something other than a clean wrap.
func CounterRate(current, previous, deltaSeconds float64) (float64, bool) {
	if deltaSeconds <= 0 {
		return 0, false
	}

	delta := current - previous
	if current < previous {
		delta = (counter32Max - previous) + current
	}

	rate := delta * 8 / deltaSeconds
	if rate < 0 {
		return 0, false
	}

	return rate, true
}
