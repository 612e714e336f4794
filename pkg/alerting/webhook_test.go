package alerting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/fleetmon/pkg/db"
	"github.com/carverauto/fleetmon/pkg/models"
)

func webhookAlert() (*models.Alert, *models.Device) {
	alert := &models.Alert{
		ID:        42,
		DeviceID:  7,
		Title:     "Device unreachable",
		Message:   "no response to ping or SNMP",
		Severity:  models.SeverityCritical,
		Status:    models.AlertActive,
		AlertType: TypeDeviceUnreachable,
		Context:   map[string]any{"packet_loss": 100.0},
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	device := &models.Device{ID: 7, Name: "core-rtr-01", IPAddress: "192.168.1.1"}

	return alert, device
}

func TestWebhookNotifySendsPayload(t *testing.T) {
	var received webhookPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(WebhookConfig{
		Enabled: true,
		URL:     server.URL,
		Headers: []Header{{Key: "X-Api-Key", Value: "secret"}},
	}, nil)

	alert, device := webhookAlert()
	require.NoError(t, notifier.Notify(context.Background(), alert, device))
	notifier.Flush()

	assert.EqualValues(t, 42, received.AlertID)
	assert.Equal(t, "critical", received.Severity)
	assert.Equal(t, TypeDeviceUnreachable, received.AlertType)
	assert.Equal(t, "core-rtr-01", received.Device.Name)
	assert.Equal(t, "192.168.1.1", received.Device.IPAddress)
	assert.Equal(t, "2025-06-01T12:00:00Z", received.CreatedAt)
}

func TestWebhookPersistsDeliveryState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	mockDB := db.NewMockService(ctrl)
	mockDB.EXPECT().UpdateAlert(gomock.Any()).DoAndReturn(func(alert *models.Alert) error {
		assert.EqualValues(t, 42, alert.ID)
		assert.True(t, alert.WebhookSent)
		assert.NotNil(t, alert.WebhookSentAt)

		return nil
	})

	notifier := NewWebhookNotifier(WebhookConfig{Enabled: true, URL: server.URL}, mockDB)

	alert, device := webhookAlert()
	require.NoError(t, notifier.Notify(context.Background(), alert, device))
	notifier.Flush()
}

func TestWebhookRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(WebhookConfig{Enabled: true, URL: server.URL}, nil)
	notifier.retryDelays = []time.Duration{time.Millisecond, time.Millisecond}

	alert, device := webhookAlert()
	require.NoError(t, notifier.Notify(context.Background(), alert, device))
	notifier.Flush()
	assert.EqualValues(t, 3, calls.Load())
}

func TestWebhookGivesUpAfterRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	// No UpdateAlert expectation: abandoned deliveries must not mark the
	// alert as sent.
	mockDB := db.NewMockService(ctrl)

	notifier := NewWebhookNotifier(WebhookConfig{Enabled: true, URL: server.URL}, mockDB)
	notifier.retryDelays = []time.Duration{time.Millisecond}

	alert, device := webhookAlert()
	require.NoError(t, notifier.Notify(context.Background(), alert, device))
	notifier.Flush()
	assert.EqualValues(t, 2, calls.Load())
}

func TestWebhookNotifyDoesNotBlockOnBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(WebhookConfig{Enabled: true, URL: server.URL}, nil)
	notifier.retryDelays = []time.Duration{time.Hour}

	alert, device := webhookAlert()

	start := time.Now()
	require.NoError(t, notifier.Notify(context.Background(), alert, device))
	assert.Less(t, time.Since(start), time.Second, "Notify must not sleep through the retry ladder")

	// Close aborts the pending hour-long backoff.
	done := make(chan struct{})

	go func() {
		notifier.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not abort the retry backoff")
	}
}

func TestWebhookCooldown(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(WebhookConfig{
		Enabled:  true,
		URL:      server.URL,
		Cooldown: time.Hour,
	}, nil)

	alert, device := webhookAlert()
	require.NoError(t, notifier.Notify(context.Background(), alert, device))

	err := notifier.Notify(context.Background(), alert, device)
	assert.ErrorIs(t, err, errWebhookCooldown)

	notifier.Flush()
	assert.EqualValues(t, 1, calls.Load())
}

func TestWebhookDisabled(t *testing.T) {
	notifier := NewWebhookNotifier(WebhookConfig{Enabled: false, URL: "http://example.invalid"}, nil)

	alert, device := webhookAlert()
	err := notifier.Notify(context.Background(), alert, device)
	assert.ErrorIs(t, err, errWebhookDisabled)
}
