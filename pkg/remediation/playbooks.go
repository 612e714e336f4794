// Package remediation pkg/remediation/playbooks.go defines the named
// command sequences the orchestrator may run. Playbooks are static and
// platform-sensitive; a playbook that is meaningless on a platform simply
// has no entry for it.
package remediation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/carverauto/fleetmon/pkg/models"
)

var (
	// ErrUnknownPlaybook is returned for a playbook name not in the table.
	ErrUnknownPlaybook = errors.New("unknown playbook")
	// ErrUnsupportedPlatform is returned when a playbook has no commands
	// for the device's platform.
	ErrUnsupportedPlatform = errors.New("playbook not supported on platform")
)

// Well-known playbook names.
const (
	PlaybookClearARPCache     = "clear_arp_cache"
	PlaybookClearIPRouteCache = "clear_ip_route_cache"
	PlaybookSaveConfig        = "save_config"
	PlaybookReloadDevice      = "reload_device"
	PlaybookClearConn         = "clear_conn"
	PlaybookClearXlate        = "clear_xlate"
	PlaybookClearCaches       = "clear_caches"
)

// commandSet maps a platform dialect to the exec commands to run.
type commandSet map[models.Platform][]string

var playbooks = map[string]commandSet{
	PlaybookClearARPCache: {
		models.PlatformCiscoIOS:   {"clear arp-cache"},
		models.PlatformCiscoIOSXE: {"clear arp-cache"},
		models.PlatformCiscoASA:   {"clear arp"},
	},
	PlaybookClearIPRouteCache: {
		models.PlatformCiscoIOS:   {"clear ip route *"},
		models.PlatformCiscoIOSXE: {"clear ip route *"},
	},
	PlaybookSaveConfig: {
		models.PlatformCiscoIOS:   {"write memory"},
		models.PlatformCiscoIOSXE: {"write memory"},
		models.PlatformCiscoASA:   {"write memory"},
	},
	PlaybookReloadDevice: {
		models.PlatformCiscoIOS:   {"reload"},
		models.PlatformCiscoIOSXE: {"reload"},
		models.PlatformCiscoASA:   {"reload noconfirm"},
	},
	// Connection-table playbooks only exist on the firewall dialect.
	PlaybookClearConn: {
		models.PlatformCiscoASA: {"clear conn"},
	},
	PlaybookClearXlate: {
		models.PlatformCiscoASA: {"clear xlate"},
	},
	PlaybookClearCaches: {
		models.PlatformCiscoIOS:   {"clear arp-cache", "clear ip route *"},
		models.PlatformCiscoIOSXE: {"clear arp-cache", "clear ip route *"},
		models.PlatformCiscoASA:   {"clear arp", "clear xlate"},
	},
}

// PlaybookCommands resolves the command list for a playbook on a platform.
func PlaybookCommands(name string, platform models.Platform) ([]string, error) {
	set, ok := playbooks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlaybook, name)
	}

	commands, ok := set[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnsupportedPlatform, name, platform)
	}

	return commands, nil
}

// PlaybookNames lists all known playbooks, sorted.
func PlaybookNames() []string {
	names := make([]string, 0, len(playbooks))
	for name := range playbooks {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// interfaceEnableCommands are configuration-mode commands bringing an
// administratively or errdisabled interface back up.
func interfaceEnableCommands(ifName string) []string {
	return []string{
		fmt.Sprintf("interface %s", ifName),
		"shutdown",
		"no shutdown",
	}
}

// clearBGPCommand bounces a single BGP session.
func clearBGPCommand(neighborIP string) string {
	return fmt.Sprintf("clear ip bgp %s", neighborIP)
}
