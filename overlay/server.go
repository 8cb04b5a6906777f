// Package overlay - HTTP surface over a live sampler.
//
// The overlay is the service rendition of an on-page stats readout: JSON
// summary and export endpoints, scenario run control, a websocket stream
// pushing the summary at a fixed cadence, and a Prometheus exporter. Anything
// that can poll HTTP or hold a websocket gets the same rolling picture the
// sampler maintains internally.
package overlay

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/anim-bench/go-animbench/sampler"
	"github.com/anim-bench/go-animbench/scenario"
)

// Defaults for Config fields left zero.
const (
	DefaultAddr           = ":8099"
	DefaultStreamInterval = time.Second
)

// Config configures the overlay server.
type Config struct {
	// Addr is the listen address for ListenAndServe (default ":8099").
	Addr string
	// StreamInterval is the websocket push period (default 1s).
	StreamInterval time.Duration
	// Metrics configures the Prometheus exporter.
	Metrics MetricsConfig
	// Logger receives request and stream events. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Server exposes one sampler, and optionally one scenario suite, over HTTP.
type Server struct {
	cfg      Config
	sampler  *sampler.Sampler
	suite    *scenario.Suite
	log      zerolog.Logger
	metrics  *metricsSet
	gatherer prometheus.Gatherer

	httpServer *http.Server

	// baseCtx ends at Shutdown; it bounds websocket streams and background
	// scenario runs.
	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup
}

// NewServer builds an overlay server around a sampler. The suite may be nil;
// the run and results endpoints then answer 404.
func NewServer(smp *sampler.Sampler, suite *scenario.Suite, cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.StreamInterval == 0 {
		cfg.StreamInterval = DefaultStreamInterval
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	registerer := cfg.Metrics.Registerer
	gatherer := prometheus.Gatherer(prometheus.DefaultGatherer)
	if registerer == nil {
		reg := prometheus.NewRegistry()
		registerer = reg
		gatherer = reg
	} else if g, ok := registerer.(prometheus.Gatherer); ok {
		gatherer = g
	}

	metrics, err := newMetricsSet(cfg.Metrics, registerer)
	if err != nil {
		return nil, errors.Wrap(err, "register metrics")
	}

	baseCtx, baseCancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:        cfg,
		sampler:    smp,
		suite:      suite,
		log:        log,
		metrics:    metrics,
		gatherer:   gatherer,
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
	}
	s.httpServer = &http.Server{Addr: cfg.Addr, Handler: s.Handler()}
	return s, nil
}

// Handler returns the overlay's route mux, usable under a test server or an
// outer mux as well as via ListenAndServe.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/results", s.handleResults)
	mux.HandleFunc("/api/run", s.handleRun)
	mux.HandleFunc("/live", s.handleLive)
	mux.Handle("/metrics", s.metricsHandler())
	return mux
}

// ListenAndServe serves until Shutdown.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.cfg.Addr).Msg("overlay server listening")
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.Wrap(err, "overlay server")
}

// Shutdown stops the listener, ends every websocket stream and cancels any
// background scenario run, then waits for them.
func (s *Server) Shutdown(ctx context.Context) error {
	s.baseCancel()
	err := s.httpServer.Shutdown(ctx)
	s.wg.Wait()
	return err
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Debug().Err(err).Msg("response encode failed")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.sampler.Summary())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.sampler.ExportData())
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	if s.suite == nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "no scenario suite attached"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.suite.Results())
}

// handleRun kicks off a full scenario run in the background. A run already in
// flight answers 409; the run itself is bounded by the server lifetime.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	if s.suite == nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "no scenario suite attached"})
		return
	}
	if s.baseCtx.Err() != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "server shutting down"})
		return
	}
	if s.suite.Running() {
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: scenario.ErrRunInProgress.Error()})
		return
	}

	// A run stops the sampler when it concludes; continuous sampling resumes
	// afterwards when it was on before the run.
	resume := s.sampler.Running()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		report, err := s.suite.RunAll(s.baseCtx)
		if resume && s.baseCtx.Err() == nil {
			s.sampler.Start()
		}
		if err != nil {
			// Losing the start race to another caller is not a failure.
			if !errors.Is(err, scenario.ErrRunInProgress) {
				s.metrics.observeRunFailure()
			}
			s.log.Error().Err(err).Msg("scenario run failed")
			return
		}
		s.metrics.observeReport(report)
		s.log.Info().Str("run_id", report.RunID).Str("grade", string(report.Summary.Grade)).Msg("scenario run finished")
	}()

	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// metricsHandler refreshes the live gauges from the sampler before every
// scrape, then defers to the prometheus handler.
func (s *Server) metricsHandler() http.Handler {
	promHandler := promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metrics.observeSummary(s.sampler.Summary())
		promHandler.ServeHTTP(w, r)
	})
}
