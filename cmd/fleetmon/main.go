// cmd/fleetmon/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carverauto/fleetmon/pkg/alerting"
	"github.com/carverauto/fleetmon/pkg/api"
	"github.com/carverauto/fleetmon/pkg/config"
	"github.com/carverauto/fleetmon/pkg/connectivity"
	"github.com/carverauto/fleetmon/pkg/db"
	"github.com/carverauto/fleetmon/pkg/drivers"
	"github.com/carverauto/fleetmon/pkg/models"
	"github.com/carverauto/fleetmon/pkg/poller"
	"github.com/carverauto/fleetmon/pkg/remediation"
)

func main() {
	configPath := flag.String("config", "/etc/fleetmon/fleetmon.json", "Path to config file")
	flag.Parse()

	var cfg config.Config
	if err := config.LoadAndValidate(*configPath, &cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	thresholds := alerting.DefaultThresholds()
	if cfg.Thresholds != nil {
		thresholds = *cfg.Thresholds
	}

	hub := api.NewAlertHub()
	defer hub.Close()

	webhook := alerting.NewWebhookNotifier(alerting.WebhookConfig{
		Enabled:  cfg.Webhook.Enabled,
		URL:      cfg.Webhook.URL,
		Cooldown: time.Duration(cfg.Webhook.Cooldown),
		Timeout:  time.Duration(cfg.Webhook.Timeout),
		Headers:  webhookHeaders(cfg.Webhook.Headers),
	}, database)
	defer webhook.Close()

	notifiers := []alerting.Notifier{hub}
	if webhook.IsEnabled() {
		notifiers = append(notifiers, webhook)
	}

	engine := alerting.NewEngine(database, thresholds, notifiers...)

	defaultCreds := models.Credentials{
		Username:       cfg.SSH.Username,
		Password:       cfg.SSH.Password,
		EnablePassword: cfg.SSH.EnablePassword,
		SNMPCommunity:  cfg.SNMPCommunity,
	}

	fleetPoller := poller.New(
		database,
		drivers.ICMPPinger{},
		drivers.GoSNMPDialer{},
		drivers.CryptoSSHDialer{},
		engine,
		poller.Config{
			PollInterval:    time.Duration(cfg.PollInterval),
			RoutingInterval: time.Duration(cfg.RoutingPollInterval),
			BackupInterval:  time.Duration(cfg.BackupInterval),
			MaxConcurrent:   cfg.MaxConcurrentPolls,
			PingTimeout:     time.Duration(cfg.PingTimeout),
			SNMPTimeout:     time.Duration(cfg.SNMPTimeout),
			SSHTimeout:      time.Duration(cfg.SSHTimeout),
			DefaultCreds:    defaultCreds,
			Retention:       time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		},
	)

	orchestrator := remediation.NewOrchestrator(
		database,
		drivers.CryptoSSHDialer{},
		engine,
		defaultCreds,
		time.Duration(cfg.SSHTimeout),
	)

	checker := connectivity.NewChecker(drivers.ICMPPinger{}, drivers.GoSNMPDialer{}, drivers.CryptoSSHDialer{})

	apiServer := api.NewServer(database, engine, fleetPoller, orchestrator, checker, defaultCreds, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received %v, shutting down", sig)
		cancel()
	}()

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Starting HTTP server on %s", cfg.ListenAddr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server failed: %v", err)
			cancel()
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP shutdown error: %v", err)
		}
	}()

	if err := fleetPoller.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Poller failed: %v", err)
	}
}

func webhookHeaders(headers []config.Header) []alerting.Header {
	out := make([]alerting.Header, 0, len(headers))
	for _, h := range headers {
		out = append(out, alerting.Header{Key: h.Key, Value: h.Value})
	}

	return out
}
