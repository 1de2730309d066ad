package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/semparse-config/internal/api"
	"github.com/eugenenazirov/semparse-config/internal/config"
	"github.com/eugenenazirov/semparse-config/internal/parser"
	"github.com/eugenenazirov/semparse-config/internal/storage"
	"github.com/eugenenazirov/semparse-config/internal/training"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage  storage.Storage
	fallback training.Lookup
	logger   *zap.Logger
	server   *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if err := store.SetValues(cfg.Values); err != nil {
		return nil, fmt.Errorf("failed to apply initial values: %w", err)
	}

	fallback, err := FallbackLookup(cfg)
	if err != nil {
		return nil, err
	}

	handler := api.NewHandler(parser.New(), store, api.WithFallback(fallback))
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	app := &App{
		storage:  store,
		fallback: fallback,
		logger:   logger,
		server:   NewServer(cfg, BuildRootHandler(apiRouter)),
	}

	if keys := store.Keys(); len(keys) > 0 {
		logger.Info("seeded training values", zap.Strings("keys", keys))
	}

	if _, err := app.Resolve(); err != nil {
		logger.Warn("training configuration incomplete at startup", zap.Error(err))
	}

	return app, nil
}

// FallbackLookup returns the lookup consulted for keys absent from storage:
// the process environment, then the dotenv file when one is configured.
func FallbackLookup(cfg config.Config) (training.Lookup, error) {
	if cfg.EnvFile == "" {
		return training.EnvLookup, nil
	}
	dotenv, err := training.DotenvLookup(cfg.EnvFile)
	if err != nil {
		return nil, err
	}
	return training.Chain(training.EnvLookup, dotenv), nil
}

// Resolve resolves the training configuration from storage and the fallback lookup.
func (a *App) Resolve() (training.Config, error) {
	return training.Resolve(training.Chain(a.storage, a.fallback))
}

// BuildRootHandler routes API requests and answers the bare root with an index of endpoints.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprintln(w, "semparse-config: GET /api/health, POST /api/parse, GET|PUT /api/values, GET /api/config")
	}))
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
