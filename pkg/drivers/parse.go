// Package drivers pkg/drivers/parse.go
package drivers

import (
	"strconv"
	"strings"

	"github.com/carverauto/fleetmon/pkg/models"
)

const bgpSummaryColumns = 10

// ParseBGPSummary extracts neighbor states from "show ip bgp summary"
// output. The State/PfxRcd column holds a prefix count when the session is
// established and a state name (Idle, Active, Connect, ...) otherwise.
func ParseBGPSummary(output string) []models.NeighborState {
	var (
		neighbors []models.NeighborState
		inTable   bool
	)

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "Neighbor") {
			inTable = true
			continue
		}

		if !inTable || trimmed == "" {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < bgpSummaryColumns {
			continue
		}

		if net := net4(fields[0]); !net {
			continue
		}

		state := fields[len(fields)-1]
		if _, err := strconv.Atoi(state); err == nil {
			state = "Established"
		}

		neighbors = append(neighbors, models.NeighborState{
			Protocol: "bgp",
			ID:       fields[0],
			State:    state,
			Detail:   "AS " + fields[2],
		})
	}

	return neighbors
}

// ParseOSPFNeighbors extracts neighbor states from "show ip ospf neighbor"
// output. States look like "FULL/DR", "FULL/  -", "2WAY/DROTHER".
func ParseOSPFNeighbors(output string) []models.NeighborState {
	var (
		neighbors []models.NeighborState
		inTable   bool
	)

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "Neighbor ID") {
			inTable = true
			continue
		}

		if !inTable || trimmed == "" {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) < 6 {
			continue
		}

		if net := net4(fields[0]); !net {
			continue
		}

		neighbors = append(neighbors, models.NeighborState{
			Protocol: "ospf",
			ID:       fields[0],
			State:    fields[2],
			Detail:   fields[len(fields)-1],
		})
	}

	return neighbors
}

// net4 reports whether s looks like a dotted-quad address.
func net4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}

	for _, part := range parts {
		if _, err := strconv.Atoi(part); err != nil {
			return false
		}
	}

	return true
}
