// Package api pkg/api/server.go exposes the monitoring core over HTTP.
// Handlers are thin: they parse, delegate to the core packages, and encode.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/carverauto/fleetmon/pkg/alerting"
	"github.com/carverauto/fleetmon/pkg/connectivity"
	"github.com/carverauto/fleetmon/pkg/db"
	"github.com/carverauto/fleetmon/pkg/models"
	"github.com/carverauto/fleetmon/pkg/poller"
	"github.com/carverauto/fleetmon/pkg/remediation"
)

const defaultMetricsWindow = 24 * time.Hour

// Server is the HTTP surface over the store, alert engine, poller, and
// remediation orchestrator.
type Server struct {
	store        db.Service
	engine       *alerting.Engine
	poller       *poller.Poller
	orchestrator *remediation.Orchestrator
	checker      *connectivity.Checker
	defaultCreds models.Credentials
	hub          *AlertHub
	router       *mux.Router
}

// NewServer wires the routes. Any dependency may be nil; its endpoints then
// return 503.
func NewServer(store db.Service, engine *alerting.Engine, p *poller.Poller, orchestrator *remediation.Orchestrator, checker *connectivity.Checker, defaultCreds models.Credentials, hub *AlertHub) *Server {
	s := &Server{
		store:        store,
		engine:       engine,
		poller:       p,
		orchestrator: orchestrator,
		checker:      checker,
		defaultCreds: defaultCreds,
		hub:          hub,
		router:       mux.NewRouter(),
	}
	s.setupRoutes()

	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	s.router.HandleFunc("/api/status", s.getStatus).Methods("GET")

	s.router.HandleFunc("/api/devices", s.getDevices).Methods("GET")
	s.router.HandleFunc("/api/devices/{id}", s.getDevice).Methods("GET")
	s.router.HandleFunc("/api/devices/{id}/metrics", s.getDeviceMetrics).Methods("GET")
	s.router.HandleFunc("/api/devices/{id}/poll", s.pollDevice).Methods("POST")
	s.router.HandleFunc("/api/devices/{id}/connectivity", s.checkConnectivity).Methods("POST")
	s.router.HandleFunc("/api/devices/{id}/configs", s.getConfigBackups).Methods("GET")
	s.router.HandleFunc("/api/devices/{id}/playbooks/{name}", s.executePlaybook).Methods("POST")

	s.router.HandleFunc("/api/alerts", s.getAlerts).Methods("GET")
	s.router.HandleFunc("/api/alerts/{id}/acknowledge", s.acknowledgeAlert).Methods("POST")
	s.router.HandleFunc("/api/alerts/{id}/resolve", s.resolveAlert).Methods("POST")
	s.router.HandleFunc("/api/alerts/{id}/remediate", s.remediateAlert).Methods("POST")

	s.router.HandleFunc("/api/remediation", s.getRemediationLogs).Methods("GET")

	if s.hub != nil {
		s.router.HandleFunc("/api/ws/alerts", s.hub.HandleWS)
	}
}

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	devices, err := s.store.ListDevices(false)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	alerts, err := s.store.ListAlerts(0, models.AlertActive, models.AlertAcknowledged)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	reachable := 0

	for i := range devices {
		if devices[i].IsReachable {
			reachable++
		}
	}

	writeJSON(w, map[string]any{
		"total_devices":     len(devices),
		"reachable_devices": reachable,
		"open_alerts":       len(alerts),
		"timestamp":         time.Now().UTC(),
	})
}

func (s *Server) getDevices(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	devices, err := s.store.ListDevices(activeOnly)
	if err != nil {
		log.Printf("Error listing devices: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, devices)
}

func (s *Server) getDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	device, err := s.store.GetDevice(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, device)
}

func (s *Server) getDeviceMetrics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	metricType := models.MetricType(r.URL.Query().Get("type"))
	if metricType == "" {
		http.Error(w, "type query parameter is required", http.StatusBadRequest)
		return
	}

	window := defaultMetricsWindow

	if hours := r.URL.Query().Get("hours"); hours != "" {
		h, err := strconv.Atoi(hours)
		if err != nil || h <= 0 {
			http.Error(w, "invalid hours", http.StatusBadRequest)
			return
		}

		window = time.Duration(h) * time.Hour
	}

	end := time.Now().UTC()

	metrics, err := s.store.GetMetrics(id, metricType, end.Add(-window), end)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, metrics)
}

func (s *Server) pollDevice(w http.ResponseWriter, r *http.Request) {
	if s.poller == nil {
		http.Error(w, "poller unavailable", http.StatusServiceUnavailable)
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	device, err := s.store.GetDevice(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	result := s.poller.PollDevice(r.Context(), device)
	writeJSON(w, result)
}

func (s *Server) getConfigBackups(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	limit := 0

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		limit = n
	}

	backups, err := s.store.ListConfigBackups(id, limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, backups)
}

func (s *Server) checkConnectivity(w http.ResponseWriter, r *http.Request) {
	if s.checker == nil {
		http.Error(w, "connectivity checker unavailable", http.StatusServiceUnavailable)
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	device, err := s.store.GetDevice(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	opts := connectivity.DefaultOptions()
	if r.URL.Query().Get("ssh") == "true" {
		opts.SSH = true
	}

	creds := s.defaultCreds
	if device.SNMPCommunity != "" {
		creds.SNMPCommunity = device.SNMPCommunity
	}

	writeJSON(w, s.checker.Check(r.Context(), device, creds, opts))
}

func (s *Server) executePlaybook(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator == nil {
		http.Error(w, "remediation unavailable", http.StatusServiceUnavailable)
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	name := mux.Vars(r)["name"]

	entry, err := s.orchestrator.ExecutePlaybook(r.Context(), id, name, nil)

	switch {
	case errors.Is(err, remediation.ErrUnknownPlaybook),
		errors.Is(err, remediation.ErrUnsupportedPlatform):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, db.ErrNotFound):
		http.Error(w, "Device not found", http.StatusNotFound)
		return
	case err != nil:
		// Execution failures still produced a log entry worth returning.
		log.Printf("Playbook %s failed on device %d: %v", name, id, err)
	}

	writeJSON(w, entry)
}

func (s *Server) getAlerts(w http.ResponseWriter, r *http.Request) {
	var deviceID int64

	if raw := r.URL.Query().Get("device_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid device_id", http.StatusBadRequest)
			return
		}

		deviceID = id
	}

	var statuses []models.AlertStatus

	if raw := r.URL.Query().Get("status"); raw != "" {
		statuses = append(statuses, models.AlertStatus(raw))
	}

	alerts, err := s.store.ListAlerts(deviceID, statuses...)
	if err != nil {
		log.Printf("Error listing alerts: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, alerts)
}

func (s *Server) acknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var body struct {
		By string `json:"by"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.By == "" {
		http.Error(w, "acknowledging user is required", http.StatusBadRequest)
		return
	}

	alert, err := s.engine.Acknowledge(id, body.By)
	if err != nil {
		writeAlertError(w, err)
		return
	}

	writeJSON(w, alert)
}

func (s *Server) resolveAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	alert, err := s.engine.Resolve(id, body.Notes)
	if err != nil {
		writeAlertError(w, err)
		return
	}

	writeJSON(w, alert)
}

func (s *Server) remediateAlert(w http.ResponseWriter, r *http.Request) {
	if s.orchestrator == nil {
		http.Error(w, "remediation unavailable", http.StatusServiceUnavailable)
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entry, err := s.orchestrator.AutoRemediate(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Alert not found", http.StatusNotFound)
		return
	}

	if err != nil && entry == nil {
		log.Printf("Auto-remediation for alert %d: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, entry)
}

func (s *Server) getRemediationLogs(w http.ResponseWriter, r *http.Request) {
	var deviceID int64

	if raw := r.URL.Query().Get("device_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid device_id", http.StatusBadRequest)
			return
		}

		deviceID = id
	}

	limit := 0

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		limit = n
	}

	entries, err := s.store.ListRemediationLogs(deviceID, limit)
	if err != nil {
		log.Printf("Error listing remediation logs: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, entries)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}

	return id, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	log.Printf("Store error: %v", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func writeAlertError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		http.Error(w, "Alert not found", http.StatusNotFound)
	case errors.Is(err, alerting.ErrAlertResolved),
		errors.Is(err, alerting.ErrNotAcknowledgeable):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("Alert operation error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
