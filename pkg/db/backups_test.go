package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fleetmon/pkg/models"
)

func TestConfigBackupLifecycle(t *testing.T) {
	database := newTestDB(t)
	device := seedDevice(t, database)

	_, err := database.LatestConfigBackup(device.ID, models.ConfigTypeRunning)
	assert.ErrorIs(t, err, ErrNotFound)

	base := time.Now().UTC().Add(-time.Hour)

	first := models.NewConfigBackup(device.ID, models.ConfigTypeRunning,
		"hostname core-rtr-01\nend\n", "scheduled")
	first.CreatedAt = base
	require.NoError(t, database.CreateConfigBackup(first))
	require.NotZero(t, first.ID)

	second := models.NewConfigBackup(device.ID, models.ConfigTypeRunning,
		"hostname core-rtr-01\nbanner motd ^maintenance window^\nend\n", "manual")
	second.CreatedAt = base.Add(30 * time.Minute)
	require.NoError(t, database.CreateConfigBackup(second))

	latest, err := database.LatestConfigBackup(device.ID, models.ConfigTypeRunning)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, second.Content, latest.Content)
	assert.Equal(t, second.ContentHash, latest.ContentHash)
	assert.Equal(t, "manual", latest.TriggeredBy)

	// Startup captures live in their own change-detection stream.
	_, err = database.LatestConfigBackup(device.ID, models.ConfigTypeStartup)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListConfigBackupsOmitsContent(t *testing.T) {
	database := newTestDB(t)
	device := seedDevice(t, database)

	base := time.Now().UTC().Add(-time.Hour)

	for i, content := range []string{"hostname a\nend\n", "hostname b\nend\n", "hostname c\nend\n"} {
		backup := models.NewConfigBackup(device.ID, models.ConfigTypeRunning, content, "scheduled")
		backup.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, database.CreateConfigBackup(backup))
	}

	backups, err := database.ListConfigBackups(device.ID, 0)
	require.NoError(t, err)
	require.Len(t, backups, 3)

	// Newest first, summaries only.
	assert.Equal(t, models.HashConfig("hostname c\nend\n"), backups[0].ContentHash)
	for _, b := range backups {
		assert.Empty(t, b.Content)
		assert.NotZero(t, b.SizeBytes)
		assert.Equal(t, 3, b.LineCount)
	}

	limited, err := database.ListConfigBackups(device.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
