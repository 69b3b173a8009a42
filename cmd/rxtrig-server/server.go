package main

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/daniacca/rxtrig/internal/rxn"
	"github.com/daniacca/rxtrig/internal/rxn/metrics"
	"github.com/daniacca/rxtrig/internal/rxn/notifiers"
	"github.com/daniacca/rxtrig/internal/synth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// diagnosticsID is the notifier that feeds GET /ws/diagnostics
const diagnosticsID = "diagnostics"

// Server represents the HTTP server in front of one reaction world
type Server struct {
	cfg         ServerConfig
	model       *synth.Model
	world       *rxn.World
	registry    *prometheus.Registry
	notifierMgr *rxn.NotificationManager
	diagnostics *notifiers.WebSocketNotifier
	limiter     *ipRateLimiter
	buffers     sync.Pool
	logger      *logrus.Logger
}

// NewServer generates the configured network and wires the world to metrics
// and diagnostics notifiers.
func NewServer(cfg ServerConfig, logger *logrus.Logger) (*Server, error) {
	model, err := synth.Generate(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("generating model: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	rec, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	mgr := rxn.NewNotificationManagerWithLogger(logger)
	diagnostics := notifiers.NewWebSocketNotifier(diagnosticsID)
	if err := mgr.RegisterNotifier(diagnostics); err != nil {
		mgr.Close()
		return nil, err
	}

	reg.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "rxtrig_notifications_dropped_total",
			Help: "Overflow events dropped because the notification queue was full",
		}, func() float64 { return float64(mgr.Dropped()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "rxtrig_diagnostics_clients",
			Help: "Connected diagnostics websocket clients",
		}, func() float64 { return float64(diagnostics.ClientCount()) }),
	)

	world, err := rxn.NewWorld(model.Registry, model.Table, cfg.Engine(),
		rxn.WithLogger(logger),
		rxn.WithRecorder(rxn.MultiRecorder{rec, mgr}),
	)
	if err != nil {
		mgr.Close()
		return nil, fmt.Errorf("creating world: %w", err)
	}

	s := &Server{
		cfg:         cfg,
		model:       model,
		world:       world,
		registry:    reg,
		notifierMgr: mgr,
		diagnostics: diagnostics,
		limiter:     newIPRateLimiter(cfg.RateLimit, cfg.RateBurst),
		logger:      logger,
	}
	s.buffers.New = func() any {
		buf := world.NewMatchBuffer()
		return &buf
	}

	logger.Infof("Model generated: species=%d classes=%d reactions=%d buckets=%d",
		len(model.Volume)+len(model.Surface), len(model.Classes), model.Table.Len(), model.Table.Size())
	return s, nil
}

// Router builds the HTTP handler with all middleware and routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(s.limiter.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/species", s.handleListSpecies)
	r.Get("/reactions", s.handleListReactions)

	r.Route("/trigger", func(r chi.Router) {
		r.Post("/unimolecular", s.handleUnimolecular)
		r.Post("/surface-unimolecular", s.handleSurfaceUnimolecular)
		r.Post("/bimolecular", s.handleBimolecular)
		r.Post("/trimolecular", s.handleTrimolecular)
		r.Post("/intersect", s.handleIntersect)
	})

	r.Get("/ws/diagnostics", s.handleDiagnostics)

	r.Route("/notifiers", func(r chi.Router) {
		r.Get("/", s.handleListNotifiers)
		r.Post("/", s.handleRegisterNotifier)
		r.Delete("/{id}", s.handleUnregisterNotifier)
	})

	return r
}

// Close stops the notification workers and closes every notifier
func (s *Server) Close() error {
	return s.notifierMgr.Close()
}

func (s *Server) getBuffer() *[]*rxn.Reaction {
	return s.buffers.Get().(*[]*rxn.Reaction)
}

func (s *Server) putBuffer(buf *[]*rxn.Reaction) {
	clear(*buf)
	s.buffers.Put(buf)
}
