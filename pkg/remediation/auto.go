// Package remediation pkg/remediation/auto.go
package remediation

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/carverauto/fleetmon/pkg/alerting"
	"github.com/carverauto/fleetmon/pkg/models"
)

// AutoRemediate maps an alert to its corrective action and runs it. Alert
// types with no safe automatic action (OSPF adjacencies need topology
// context, unreachable devices need hands) produce a SKIPPED log entry so
// the decision itself is auditable.
func (o *Orchestrator) AutoRemediate(ctx context.Context, alertID int64) (*models.RemediationLog, error) {
	alert, err := o.store.GetAlert(alertID)
	if err != nil {
		return nil, err
	}

	if !alert.Open() {
		return o.skip(alert, "alert is already resolved")
	}

	switch {
	case strings.HasPrefix(alert.AlertType, alerting.TypeInterfaceDown):
		ifName := alert.ContextString("interface")
		if ifName == "" {
			ifName = strings.TrimPrefix(alert.AlertType, alerting.TypeInterfaceDown)
		}

		return o.EnableInterface(ctx, alert.DeviceID, ifName, &alert.ID)

	case alert.AlertType == alerting.TypeHighMemory:
		return o.ExecutePlaybook(ctx, alert.DeviceID, PlaybookClearCaches, &alert.ID)

	case strings.HasPrefix(alert.AlertType, alerting.TypeBGPNeighbor):
		neighbor := alert.ContextString("neighbor_id")
		if neighbor == "" {
			neighbor = strings.TrimPrefix(alert.AlertType, alerting.TypeBGPNeighbor)
		}

		return o.ClearBGPSession(ctx, alert.DeviceID, neighbor, &alert.ID)

	case strings.HasPrefix(alert.AlertType, alerting.TypeOSPFNeighbor):
		return o.skip(alert, "OSPF adjacency issues require manual investigation")

	default:
		return o.skip(alert, fmt.Sprintf("no automatic remediation for alert type %s", alert.AlertType))
	}
}

// skip records a deliberate non-action against the alert.
func (o *Orchestrator) skip(alert *models.Alert, reason string) (*models.RemediationLog, error) {
	entry := &models.RemediationLog{
		DeviceID:     alert.DeviceID,
		AlertID:      &alert.ID,
		PlaybookName: "auto_remediate",
		ActionType:   "auto_remediate",
		Status:       models.RemediationSkipped,
	}

	if err := o.store.CreateRemediationLog(entry); err != nil {
		return nil, fmt.Errorf("create remediation log: %w", err)
	}

	entry.ErrorMessage = reason
	o.persist(entry)

	log.Printf("Auto-remediation skipped for alert %d (%s): %s", alert.ID, alert.AlertType, reason)

	return entry, nil
}
