// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

// Package observability provides HTTP endpoints for metrics and health
// checks, plus counters for the core authorization and provisioning flows.
package observability

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
)

// ReadinessChecker returns whether the service is ready to serve.
type ReadinessChecker func() bool

// Package-level counters so the auth and provisioning packages can record
// events without holding a Server reference.
var (
	loginOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubward_login_outcomes_total",
			Help: "Total login attempts by outcome",
		},
		[]string{"outcome"},
	)
	authzDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubward_authz_decisions_total",
			Help: "Total authorization decisions by result",
		},
		[]string{"result"},
	)
	accountsProvisioned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubward_accounts_provisioned_total",
			Help: "Total accounts provisioned by kind",
		},
		[]string{"kind"},
	)
	provisionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubward_provision_failures_total",
			Help: "Total account provisioning failures by classified category",
		},
		[]string{"category"},
	)
)

// RecordLoginOutcome increments the login outcome counter. Outcome is
// "success", "failure", or "busy".
func RecordLoginOutcome(outcome string) {
	loginOutcomes.WithLabelValues(outcome).Inc()
}

// RecordAuthzDecision increments the authorization decision counter.
// Result is "allow" or "deny".
func RecordAuthzDecision(result string) {
	authzDecisions.WithLabelValues(result).Inc()
}

// RecordAccountProvisioned increments the provisioned-accounts counter
// for an account kind.
func RecordAccountProvisioned(kind string) {
	accountsProvisioned.WithLabelValues(kind).Inc()
}

// RecordProvisionFailure increments the provisioning failure counter for
// a classified category.
func RecordProvisionFailure(category string) {
	provisionFailures.WithLabelValues(category).Inc()
}

func registerCounters(reg prometheus.Registerer) {
	reg.MustRegister(loginOutcomes)
	reg.MustRegister(authzDecisions)
	reg.MustRegister(accountsProvisioned)
	reg.MustRegister(provisionFailures)
}

// Server provides HTTP endpoints for observability.
type Server struct {
	addr       string
	listener   net.Listener
	httpServer *http.Server
	registry   *prometheus.Registry
	isReady    ReadinessChecker
	running    atomic.Bool
}

// NewServer creates a new observability server listening on addr
// ("host:port", or ":port" for all interfaces).
func NewServer(addr string, readinessChecker ReadinessChecker) *Server {
	// Own registry; the global one accumulates registrations across tests.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	registerCounters(registry)

	return &Server{
		addr:     addr,
		registry: registry,
		isReady:  readinessChecker,
	}
}

// Start begins serving. It returns an error channel that receives server
// failures after startup; the channel closes on graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("observability server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/healthz/liveness", s.handleLiveness)
	mux.HandleFunc("/healthz/readiness", s.handleReadiness)

	httpSrv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("observability server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("observability server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown observability server").Wrap(err)
		}
	}

	slog.Info("observability server stopped")
	return nil
}

// Addr returns the listen address, or "" when not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // health check write error is acceptable
	w.Write([]byte("ok\n"))
}

func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.isReady != nil && !s.isReady() {
		w.WriteHeader(http.StatusServiceUnavailable)
		//nolint:errcheck // health check write error is acceptable
		w.Write([]byte("not ready\n"))
		return
	}
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // health check write error is acceptable
	w.Write([]byte("ok\n"))
}
