package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/semparse-config/internal/application"
	"github.com/eugenenazirov/semparse-config/internal/config"
	"github.com/eugenenazirov/semparse-config/internal/logging"
	"github.com/eugenenazirov/semparse-config/internal/parser"
	"github.com/eugenenazirov/semparse-config/internal/training"
)

var signalNotify = signal.Notify

// cli holds the parsed command line.
type cli struct {
	app *kingpin.Application

	configFile *string
	envFile    *string
	values     *[]string
	logLevel   *string

	serve          *kingpin.CmdClause
	port           *string
	rateLimitRPS   *float64
	rateLimitBurst *int

	render *kingpin.CmdClause

	parse      *kingpin.CmdClause
	parseKind  *string
	parseValue *string
}

func newCLI() *cli {
	c := &cli{app: kingpin.New("semparse-config", "Resolves string-typed training configuration into typed values")}
	c.configFile = c.app.Flag("config", "Path to YAML configuration file").String()
	c.envFile = c.app.Flag("env-file", "Dotenv file consulted after the process environment").String()
	c.values = c.app.Flag("set", "Raw training value override as KEY=VALUE (repeatable)").Strings()
	c.logLevel = c.app.Flag("log-level", "Log level (debug, info, warn, error)").String()

	c.serve = c.app.Command("serve", "Serve the parsing and configuration API").Default()
	c.port = c.serve.Flag("port", "HTTP port exposed by the service").String()
	c.rateLimitRPS = c.serve.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	c.rateLimitBurst = c.serve.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	c.render = c.app.Command("render", "Resolve the training configuration and print the experiment document")

	c.parse = c.app.Command("parse", "Parse a single raw value")
	c.parseKind = c.parse.Arg("kind", "Value kind").Required().Enum("number", "bool")
	c.parseValue = c.parse.Arg("value", "Raw value; put negative numbers after --, as in: parse number -- -1.5").Required().String()
	return c
}

func main() {
	c := newCLI()
	command := kingpin.MustParse(c.app.Parse(os.Args[1:]))

	if command == c.parse.FullCommand() {
		if err := runParse(os.Stdout, *c.parseKind, *c.parseValue); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	overrides := &config.CLIOverrides{
		ConfigFile: *c.configFile,
		Values:     *c.values,
	}

	if *c.envFile != "" {
		overrides.EnvFile = c.envFile
	}

	if *c.logLevel != "" {
		overrides.LogLevel = c.logLevel
	}

	if *c.port != "" {
		overrides.Port = c.port
	}

	if *c.rateLimitRPS >= 0 {
		overrides.RateLimitRPS = c.rateLimitRPS
	}

	if *c.rateLimitBurst >= 0 {
		overrides.RateLimitBurst = c.rateLimitBurst
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	if command == c.render.FullCommand() {
		if err := runRender(os.Stdout, cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// runParse prints the typed form of a single raw value.
func runParse(w io.Writer, kind, raw string) error {
	if kind == "bool" {
		_, err := fmt.Fprintln(w, parser.ParseBoolean(raw))
		return err
	}
	n, err := parser.ParseNumber(raw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, n)
	return err
}

// runRender resolves the training configuration and writes the experiment
// document as indented JSON. Resolution problems are listed one per line.
func runRender(w io.Writer, cfg config.Config) error {
	fallback, err := application.FallbackLookup(cfg)
	if err != nil {
		return err
	}

	resolved, err := training.Resolve(training.Chain(training.MapLookup(cfg.Values), fallback))
	if err != nil {
		return fmt.Errorf("resolve training configuration:\n%w", err)
	}

	data, err := json.MarshalIndent(resolved.Document(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
