package main

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/stdr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	appconfig "github.com/agendalivre/agenda/internal/config"
	"github.com/agendalivre/agenda/internal/schedule"
	"github.com/agendalivre/agenda/internal/staticsite"
	"github.com/agendalivre/agenda/internal/upstream"
	"github.com/agendalivre/agenda/pkg/logging"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agenda",
		Subsystem: "mockapi",
		Name:      "requests_total",
		Help:      "Total schedule requests by route and status",
	}, []string{"route", "status"})
	requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "agenda",
		Subsystem: "mockapi",
		Name:      "request_duration_seconds",
		Help:      "Schedule request latency",
		Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1.0},
	}, []string{"route"})
)

type server struct {
	logger    *logging.Logger
	errorRate float64
	now       func() time.Time
}

func (s *server) handleAvailableSchedule(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.errorRate > 0 && rand.Float64() < s.errorRate {
			http.Error(w, `{"error":"transient error retrieving schedule"}`, http.StatusInternalServerError)
			return
		}

		q := r.URL.Query()
		req := sanitizeWindow(version,
			q.Get("professional_id"),
			q.Get("unit_id"),
			q.Get("days"),
			q.Get("start_date"),
			s.now(),
		)
		entries := buildWindow(req)

		span := trace.SpanFromContext(r.Context())
		span.SetAttributes(
			attribute.String("schedule.version", version),
			attribute.String("schedule.professional_id", req.ProfessionalID),
			attribute.String("schedule.unit_id", req.UnitID),
			attribute.Int("schedule.days_returned", len(entries)),
		)

		payload := upstream.Payload{
			Success: true,
			Filters: schedule.Filters{
				ProfessionalID:   schedule.ID(req.ProfessionalID),
				UnitID:           schedule.ID(req.UnitID),
				StartDateApplied: req.StartDate,
				DaysReturned:     len(entries),
				GeneratedAt:      s.now().UTC().Format(time.RFC3339),
			},
			Entries: entries,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error("encode schedule response", "error", err)
		}
	}
}

func instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		requestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		requestLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	prometheus.MustRegister(requestsTotal, requestLatency)

	ctx := context.Background()
	if cfg.OTLPEndpoint != "" {
		otel.SetLogger(stdr.New(log.New(os.Stderr, "otel: ", log.LstdFlags)))
		tp, err := initTracer(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Version, cfg.Env)
		if err != nil {
			logger.Error("tracer init failed", "error", err)
			os.Exit(1)
		}
		defer func() { _ = tp.Shutdown(ctx) }()
	}

	app := &server{
		logger:    logger,
		errorRate: cfg.MockErrorRate,
		now:       time.Now,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Get("/healthz", staticsite.Healthz)
	r.Handle("/metrics", promhttp.Handler())
	for version, route := range upstream.Routes {
		handler := instrument(route, app.handleAvailableSchedule(version))
		r.Handle(route, otelhttp.NewHandler(handler, "AvailableSchedule "+version))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.MockPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("mock schedule backend listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
}
