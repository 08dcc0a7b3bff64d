package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"ginhawa/pkg/auth"
	"ginhawa/pkg/config"
	"ginhawa/pkg/contracts"
	apperrors "ginhawa/pkg/errors"
	httputil "ginhawa/pkg/http"
	kafka_middleware "ginhawa/pkg/kafka/middleware"
	"ginhawa/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type Application struct {
	name             string
	cfg              *config.Config
	server           *http.Server
	guard            *middleware.Guard
	metrics          *kafka_middleware.Metrics
	idempotencyStore middleware.IdempotencyStore
	rateLimiter      middleware.RateLimiter
	healthHandler    http.Handler
	appHTTPHandler   http.Handler
	workers          []contracts.Worker
	closers          []func() error
}

func NewApplication(name string, cfg *config.Config) *Application {
	var issuer *auth.TokenIssuer
	if cfg.AuthEnabled() {
		issuer = auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	}
	return &Application{
		name:    name,
		cfg:     cfg,
		guard:   middleware.NewGuard(issuer, cfg.Log),
		metrics: kafka_middleware.NewMetrics(),
	}
}

// Guard returns the route guard handlers use to protect staff endpoints.
func (a *Application) Guard() *middleware.Guard {
	return a.guard
}

// Metrics returns the event counters shared by the service's Kafka producer
// and consumers. They are reported on /ready and logged at shutdown.
func (a *Application) Metrics() *kafka_middleware.Metrics {
	return a.metrics
}

// AddWorker registers a background loop started by Run and closed on shutdown.
func (a *Application) AddWorker(w contracts.Worker) {
	a.workers = append(a.workers, w)
}

// OnShutdown registers a cleanup step run after the server and workers stop.
func (a *Application) OnShutdown(fn func() error) {
	a.closers = append(a.closers, fn)
}

func (a *Application) SetApp(handlers ...contracts.Handler) {
	a.setHealthHandler()
	a.setAppHandler(handlers)
	a.setAppServer()
}

func (a *Application) setHealthHandler() {
	healthRouter := httprouter.New()
	NewHealthHandler(a.name, a.cfg.Client.Mongo, a.cfg.Client.Redis, a.metrics, a.cfg.Log).RegisterRoutes(healthRouter)

	var h http.Handler = healthRouter
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	a.healthHandler = h
	a.cfg.Log.Debug("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(handlers []contracts.Handler) {
	appRouter := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(appRouter)
	}
	appRouter.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httputil.WriteError(w, apperrors.NotFound("Route"))
	})
	appRouter.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httputil.WriteError(w, apperrors.New(apperrors.CodeBadRequest, "Method not allowed", http.StatusMethodNotAllowed))
	})

	if rdb := a.cfg.Client.Redis; rdb != nil {
		a.idempotencyStore = middleware.NewRedisIdempotencyStore(rdb, a.cfg.IdempotencyTTL, a.cfg.Log)
		a.rateLimiter = middleware.NewRedisRateLimiter(rdb, a.cfg.RateLimitRequests, a.cfg.RateLimitWindow, a.cfg.Log)
		a.cfg.Log.Info("Using Redis for idempotency keys and rate limiting")
	} else {
		a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
		a.rateLimiter = middleware.NewClientRateLimiter(a.cfg.RateLimitRequests, a.cfg.RateLimitWindow)
	}

	var h http.Handler = appRouter
	h = middleware.Idempotency(a.idempotencyStore, a.cfg.Log)(h)
	h = a.guard.Authenticate(h)
	h = middleware.RequestTimeout(a.cfg.RequestTimeout)(h)
	h = middleware.RateLimit(a.rateLimiter, middleware.ClientIP, a.cfg.Log)(h)
	h = middleware.ContentTypeValidation(a.cfg.Log)(h)
	h = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(h)
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	a.appHTTPHandler = h
	a.cfg.Log.Info("Application endpoints configured with full middleware stack", "auth_enabled", a.guard.Enabled())
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/", a.appHTTPHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}
	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

// Handler exposes the composed handler, mainly for tests.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)
	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for _, w := range a.workers {
		wg.Add(1)
		go func(w contracts.Worker) {
			defer wg.Done()
			a.cfg.Log.Info("Starting worker", "worker", w.Name())
			if err := w.Start(workerCtx); err != nil {
				a.cfg.Log.Error("Worker stopped with error", "worker", w.Name(), "error", err)
			}
		}(w)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		stopWorkers()
		a.cfg.Log.Fatal("HTTP server failed", "error", err)
	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown(stopWorkers, &wg)
	}
}

func (a *Application) gracefulShutdown(stopWorkers context.CancelFunc, wg *sync.WaitGroup) {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Stopping background workers...")
	stopWorkers()
	for _, w := range a.workers {
		if err := w.Close(); err != nil {
			a.cfg.Log.Warn("Worker close failed", "worker", w.Name(), "error", err)
		}
	}
	wg.Wait()
	a.idempotencyStore.Stop()
	a.rateLimiter.Stop()

	for _, fn := range a.closers {
		if err := fn(); err != nil {
			a.cfg.Log.Warn("Shutdown step failed", "error", err)
		}
	}
	a.cfg.GracefulShutdown()
	a.logMetrics()
	a.cfg.Log.Info("Server stopped gracefully")
}

func (a *Application) logMetrics() {
	s := a.metrics.Snapshot()
	a.cfg.Log.Info("Event metrics",
		"published", s.Published,
		"publish_failed", s.PublishFailed,
		"avg_publish_duration", s.AvgPublishDuration,
		"consumed", s.Consumed,
		"consume_failed", s.ConsumeFailed,
		"avg_consume_duration", s.AvgConsumeDuration,
	)
}
