package drivers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bgpSummaryOutput = `BGP router identifier 10.0.0.1, local AS number 65001
BGP table version is 42, main routing table version 42

Neighbor        V           AS MsgRcvd MsgSent   TblVer  InQ OutQ Up/Down  State/PfxRcd
10.0.0.2        4        65002   12345   12340       42    0    0 5d12h          120
10.0.0.3        4        65003     100      98       42    0    0 00:05:12     Idle
10.0.0.4        4        65004       0       0        1    0    0 never      Active
`

const ospfNeighborOutput = `Neighbor ID     Pri   State           Dead Time   Address         Interface
10.0.0.2          1   FULL/DR         00:00:35    192.168.1.2     GigabitEthernet0/0
10.0.0.3          1   FULL/  -        00:00:33    192.168.2.2     GigabitEthernet0/1
10.0.0.4          1   EXSTART/DROTHER 00:00:31    192.168.3.2     GigabitEthernet0/2
`

func TestParseBGPSummary(t *testing.T) {
	neighbors := ParseBGPSummary(bgpSummaryOutput)
	require.Len(t, neighbors, 3)

	assert.Equal(t, "10.0.0.2", neighbors[0].ID)
	assert.Equal(t, "Established", neighbors[0].State)
	assert.Equal(t, "AS 65002", neighbors[0].Detail)
	assert.Equal(t, "bgp", neighbors[0].Protocol)

	assert.Equal(t, "Idle", neighbors[1].State)
	assert.Equal(t, "Active", neighbors[2].State)
}

func TestParseBGPSummaryEmpty(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{name: "no output", output: ""},
		{name: "no table", output: "BGP router identifier 10.0.0.1\n"},
		{name: "header only", output: "Neighbor        V           AS MsgRcvd MsgSent   TblVer  InQ OutQ Up/Down  State/PfxRcd\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ParseBGPSummary(tt.output))
		})
	}
}

func TestParseOSPFNeighbors(t *testing.T) {
	neighbors := ParseOSPFNeighbors(ospfNeighborOutput)
	require.Len(t, neighbors, 3)

	assert.Equal(t, "10.0.0.2", neighbors[0].ID)
	assert.Equal(t, "FULL/DR", neighbors[0].State)
	assert.Equal(t, "GigabitEthernet0/0", neighbors[0].Detail)
	assert.Equal(t, "ospf", neighbors[0].Protocol)

	assert.Equal(t, "EXSTART/DROTHER", neighbors[2].State)
}

func TestParseOSPFNeighborsEmpty(t *testing.T) {
	assert.Empty(t, ParseOSPFNeighbors(""))
	assert.Empty(t, ParseOSPFNeighbors("% OSPF not enabled\n"))
}
