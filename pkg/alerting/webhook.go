// Package alerting pkg/alerting/webhook.go
package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/carverauto/fleetmon/pkg/db"
	"github.com/carverauto/fleetmon/pkg/models"
)

var (
	errWebhookDisabled = fmt.Errorf("webhook notifier is disabled")
	errWebhookCooldown = fmt.Errorf("alert is within cooldown period")
	errWebhookStatus   = fmt.Errorf("webhook returned non-2xx status")
	errWebhookClosed   = fmt.Errorf("webhook notifier is closed")
)

// WebhookConfig configures outbound alert delivery.
type WebhookConfig struct {
	Enabled  bool          `json:"enabled"`
	URL      string        `json:"url"`
	Headers  []Header      `json:"headers,omitempty"`
	Cooldown time.Duration `json:"-"`
	Timeout  time.Duration `json:"-"`
}

// Header is a custom HTTP header attached to every delivery.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// webhookPayload is the wire shape posted to the configured URL.
type webhookPayload struct {
	AlertID   int64          `json:"alert_id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"`
	Status    string         `json:"status"`
	AlertType string         `json:"alert_type"`
	Device    payloadDevice  `json:"device"`
	Context   map[string]any `json:"context,omitempty"`
	CreatedAt string         `json:"created_at"`
}

type payloadDevice struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
}

// WebhookNotifier posts alert events to an HTTP endpoint with a short retry
// ladder. Delivery runs detached from the caller so the retry backoff never
// blocks the poll path; failures are logged and the alert lifecycle proceeds
// regardless. On success the alert's webhook_sent flag is persisted.
type WebhookNotifier struct {
	config      WebhookConfig
	client      *http.Client
	store       db.Service
	retryDelays []time.Duration

	wg        sync.WaitGroup
	done      chan struct{}
	closeOnce sync.Once

	mu            sync.Mutex
	lastSentTimes map[string]time.Time
}

// NewWebhookNotifier creates a webhook notifier. store may be nil, in which
// case delivery state is not persisted.
func NewWebhookNotifier(config WebhookConfig, store db.Service) *WebhookNotifier {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebhookNotifier{
		config:        config,
		client:        &http.Client{Timeout: timeout},
		store:         store,
		retryDelays:   []time.Duration{30 * time.Second, 60 * time.Second},
		done:          make(chan struct{}),
		lastSentTimes: make(map[string]time.Time),
	}
}

// IsEnabled reports whether deliveries will be attempted.
func (w *WebhookNotifier) IsEnabled() bool {
	return w.config.Enabled && w.config.URL != ""
}

// Notify implements Notifier. It validates and enqueues the delivery, then
// returns; the HTTP round-trips and retry backoff happen in a detached
// goroutine so an unresponsive endpoint cannot stall a poll sweep.
func (w *WebhookNotifier) Notify(_ context.Context, alert *models.Alert, device *models.Device) error {
	if !w.IsEnabled() {
		return errWebhookDisabled
	}

	if err := w.checkCooldown(fmt.Sprintf("%d/%s", alert.DeviceID, alert.AlertType)); err != nil {
		return err
	}

	payload, err := json.Marshal(webhookPayload{
		AlertID:   alert.ID,
		Title:     alert.Title,
		Message:   alert.Message,
		Severity:  string(alert.Severity),
		Status:    string(alert.Status),
		AlertType: alert.AlertType,
		Device: payloadDevice{
			ID:        device.ID,
			Name:      device.Name,
			IPAddress: device.IPAddress,
		},
		Context:   alert.Context,
		CreatedAt: alert.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	// A private copy; the caller's alert may be read by its poll goroutine
	// while delivery is still in flight.
	record := *alert

	w.wg.Add(1)

	go func() {
		defer w.wg.Done()

		if err := w.deliver(payload); err != nil {
			log.Printf("Webhook delivery for alert %d abandoned: %v", record.ID, err)
			return
		}

		w.markSent(&record)
	}()

	return nil
}

// Flush blocks until every in-flight delivery has finished.
func (w *WebhookNotifier) Flush() {
	w.wg.Wait()
}

// Close aborts pending retry backoffs and waits for in-flight deliveries.
func (w *WebhookNotifier) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
	})
	w.wg.Wait()
}

// deliver posts the payload, retrying on failure with fixed backoff.
func (w *WebhookNotifier) deliver(payload []byte) error {
	var lastErr error

	for attempt := 0; attempt <= len(w.retryDelays); attempt++ {
		if attempt > 0 {
			delay := w.retryDelays[attempt-1]
			log.Printf("Webhook delivery retry %d in %s", attempt, delay)

			select {
			case <-w.done:
				return errWebhookClosed
			case <-time.After(delay):
			}
		}

		lastErr = w.send(payload)
		if lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("webhook delivery failed after %d attempts: %w", len(w.retryDelays)+1, lastErr)
}

func (w *WebhookNotifier) send(payload []byte) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, w.config.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	for _, header := range w.config.Headers {
		req.Header.Set(header.Key, header.Value)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return fmt.Errorf("%w: status=%d body=%s", errWebhookStatus, resp.StatusCode, string(body))
	}

	return nil
}

func (w *WebhookNotifier) checkCooldown(key string) error {
	if w.config.Cooldown <= 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if last, ok := w.lastSentTimes[key]; ok && time.Since(last) < w.config.Cooldown {
		return errWebhookCooldown
	}

	w.lastSentTimes[key] = time.Now()

	return nil
}

func (w *WebhookNotifier) markSent(alert *models.Alert) {
	now := time.Now().UTC()
	alert.WebhookSent = true
	alert.WebhookSentAt = &now

	if w.store == nil {
		return
	}

	if err := w.store.UpdateAlert(alert); err != nil {
		log.Printf("Failed to persist webhook delivery state for alert %d: %v", alert.ID, err)
	}
}
