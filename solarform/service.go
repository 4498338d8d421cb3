package solarform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/solarutah/solarform/solarform/db"
	"github.com/solarutah/solarform/solarform/metrics"
	"github.com/solarutah/solarform/solarform/relay"
	"github.com/solarutah/solarform/solarform/web"
	"github.com/solarutah/solarform/solarform/worker"
	"github.com/solarutah/solarform/solarform/wizard"
)

// submitErrorMessage is shown to the user when a relay POST failed.
const submitErrorMessage = "There was an error submitting your form. Please try again."

// Service represents a full lead form service which contains a web server, a
// database for sessions and deliveries, and a worker that relays
// submissions.
type Service struct {
	web      *web.Server
	db       *db.Connection
	worker   *worker.Worker
	relay    *relay.Client
	metrics  *metrics.FormMetrics
	registry *prometheus.Registry
	log      *slog.Logger
	variant  wizard.Variant
	// mu serialises the load-modify-save cycle of sessions
	mu        sync.Mutex
	stopPurge chan struct{}
	purgeDone chan struct{}
	Config    Config
}

// NewService creates a new Service for the configured form variant. The
// database is opened here; the worker and web server only run after Start.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	variant, err := wizard.VariantByName(cfg.Variant)
	if err != nil {
		return nil, err
	}
	srv := new(Service)
	srv.Config = cfg
	srv.variant = variant
	srv.log = NewLogger(cfg.LogLevel).With("variant", variant.Name)

	srv.log.Info("Initialising database", "path", cfg.DBPath)
	conn, err := db.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	conn.ShowSQL(cfg.LogLevel == "debug")
	srv.db = conn

	srv.registry = prometheus.NewRegistry()
	srv.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	srv.metrics = metrics.NewFormMetrics(srv.registry)

	srv.worker = worker.New(srv.db, cfg.QueueLength)
	srv.worker.OnFinish = srv.finishDelivery

	srv.web = web.New(cfg.Port)
	srv.setupWebRoutes()

	srv.SetLogger(srv.log)
	return srv, nil
}

// SetLogger replaces the logger of the service and its components.
func (srv *Service) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	srv.log = l
	srv.worker.SetLogger(l)
	srv.web.SetLogger(l)
}

// Start the service (worker and web server). If any part fails to start, the
// parts already running are stopped and the database is closed.
func (srv *Service) Start() error {
	client, err := relay.New(relay.Options{
		Endpoint:     srv.Config.Relay.Endpoint,
		Subject:      srv.Config.Relay.Subject,
		Template:     srv.Config.Relay.Template,
		AutoResponse: srv.Config.Relay.AutoResponse,
		NextURL:      srv.nextURL(),
		Timeout:      srv.Config.Relay.Timeout,
		Logger:       srv.log,
	})
	if err != nil {
		srv.closeDB()
		return err
	}
	srv.relay = client
	srv.worker.Action = srv.deliver

	srv.log.Info("Starting worker")
	srv.worker.Start()
	srv.log.Info("Worker started")

	srv.log.Info("Starting web service", "addr", srv.web.Addr)
	if err := srv.web.Start(); err != nil {
		srv.worker.Stop()
		srv.closeDB()
		return fmt.Errorf("starting web server: %w", err)
	}
	srv.log.Info("Web server started", "addr", srv.web.Address())

	srv.stopPurge = make(chan struct{})
	srv.purgeDone = make(chan struct{})
	go srv.purgeSessions()
	return nil
}

// WaitForInterrupt blocks until the service receives an interrupt signal (SIGINT
// or SIGTERM).
func (srv *Service) WaitForInterrupt() {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)
	<-sigchan
	signal.Stop(sigchan)
}

// Stop the service by gracefully shutting down the web service, stopping the
// worker, and closing the database connection, in that order.
func (srv *Service) Stop() {
	srv.log.Info("Stopping web service")
	srv.web.Stop()

	if srv.stopPurge != nil {
		close(srv.stopPurge)
		<-srv.purgeDone
		srv.stopPurge = nil
	}

	srv.log.Info("Stopping worker queue")
	srv.worker.Stop()

	srv.closeDB()
	srv.log.Info("Service stopped")
}

// Address returns the address the web server listens on.
func (srv *Service) Address() string {
	return srv.web.Address()
}

func (srv *Service) closeDB() {
	srv.log.Info("Closing database connection")
	if err := srv.db.Close(); err != nil {
		srv.log.Error("Error closing database", "error", err)
	}
}

// nextURL is the page the relay sends browsers to after a plain form post.
func (srv *Service) nextURL() string {
	if srv.Config.Relay.NextURL != "" {
		return srv.Config.Relay.NextURL
	}
	return srv.Config.PublicURL
}

// deliver is the worker action: one POST to the relay.
func (srv *Service) deliver(ctx context.Context, values url.Values) (string, error) {
	start := time.Now()
	resp, err := srv.relay.Post(ctx, values)
	srv.metrics.ObserveRelayLatency(srv.variant.Name, time.Since(start).Seconds())
	if err != nil {
		var rerr *relay.Error
		if errors.As(err, &rerr) {
			srv.log.Warn("Relay rejected submission", "status", rerr.Status, "body", rerr.Body, "error", rerr.Err)
		}
		return "", err
	}
	return resp.Message, nil
}

// finishDelivery moves the submitting session to its terminal or retry state
// once the worker is done with its delivery.
func (srv *Service) finishDelivery(j *worker.Job) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	outcome := "success"
	if j.Status != db.StatusDelivered {
		outcome = "failure"
	}
	srv.metrics.ObserveSubmission(j.Variant, outcome)

	sess, err := srv.db.GetSession(j.SessionID)
	if err != nil {
		srv.log.Warn("Session of finished delivery is gone", "session", j.SessionID, "delivery", j.ID)
		return
	}
	if sess.DeliveryID != j.ID {
		srv.log.Warn("Ignoring stale delivery", "session", j.SessionID, "delivery", j.ID, "current", sess.DeliveryID)
		return
	}
	wz := srv.restore(sess)
	if outcome == "success" {
		err = wz.Complete()
	} else {
		err = wz.Fail(submitErrorMessage)
	}
	if err != nil {
		srv.log.Warn("Unexpected session state for finished delivery", "session", sess.ID, "error", err)
		return
	}
	if err := srv.saveSession(sess, wz); err != nil {
		srv.log.Error("Failed to save session", "session", sess.ID, "error", err)
	}
}

// purgeSessions periodically deletes sessions idle for longer than the
// configured TTL.
func (srv *Service) purgeSessions() {
	defer close(srv.purgeDone)
	interval := srv.Config.SessionTTL / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n, err := srv.db.PurgeSessions(time.Now().Add(-srv.Config.SessionTTL))
			if err != nil {
				srv.log.Error("Failed to purge sessions", "error", err)
			} else if n > 0 {
				srv.log.Info("Purged expired sessions", "count", n)
			}
		case <-srv.stopPurge:
			return
		}
	}
}
