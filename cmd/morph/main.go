// cmd/morph/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-morph/pkg/config"
	"github.com/opd-ai/go-morph/pkg/engine"
	"github.com/opd-ai/go-morph/pkg/health"
	"github.com/opd-ai/go-morph/pkg/logging"
	engorender "github.com/opd-ai/go-morph/pkg/render/engo"
)

// Health probe limits for headless runs
const (
	healthStallAfter  = 5 * time.Second
	healthMaxMemoryMB = 500
)

func main() {
	if err := run(os.Args[1:], logging.NewLogger()); err != nil {
		os.Exit(1)
	}
}

// run parses args, builds the world and drives the selected back end.
// Failures are logged before being returned, so deferred cleanup such as
// closing the log file always happens before the process exits.
func run(args []string, logger *logging.Logger) error {
	ctx := logging.WithCorrelationID(context.Background(), "")

	flags := flag.NewFlagSet("morph", flag.ContinueOnError)
	configPath := flags.String("config", "", "Path to configuration file (JSON, YAML or TOML)")
	createDefault := flags.Bool("default", false, "Write the default configuration to -config and exit")
	backend := flags.String("renderer", "", "Renderer: 'terminal', 'engo' or 'headless' (overrides config)")
	logPath := flags.String("log", "morph.log", "Log file used while the terminal renderer owns the screen")
	healthAddr := flags.String("health", "", "Address for /health and /ready probes in headless mode, e.g. :8080")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Create default configuration file if requested
	if *createDefault {
		if *configPath == "" {
			err := errors.New("no configuration path given")
			logger.Error(ctx, "No configuration path given", nil, "flag", "-config")
			return err
		}
		if err := config.DefaultConfig().Save(*configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			return err
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		return err
	}
	if *backend != "" {
		cfg.Render.Backend = *backend
	}

	// The terminal renderer draws on stdout, so its logs go to a file
	if cfg.Render.Backend == config.BackendTerminal {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Error(ctx, "Failed to open log file", err, "log_path", *logPath)
			return err
		}
		defer f.Close()
		logger = logging.NewLoggerWithWriter(f, logging.ParseLevel(os.Getenv(logging.LevelEnvVar)))
	}

	world := engine.NewWorld(cfg, engine.WithLogger(logger))
	ids, err := world.SpawnFleet(cfg.Fleet)
	if err != nil {
		logger.Error(ctx, "Failed to spawn fleet", err)
		return err
	}
	logger.Info(ctx, "World ready",
		"ships", len(ids),
		"renderer", cfg.Render.Backend,
	)

	switch cfg.Render.Backend {
	case config.BackendEngo:
		engorender.Run(world, logger)
	case config.BackendHeadless:
		err = runHeadless(ctx, world, logger, *healthAddr)
	case config.BackendTerminal:
		err = runTerminal(ctx, world, logger)
	default:
		err = fmt.Errorf("unknown renderer %q", cfg.Render.Backend)
	}
	if err != nil {
		logger.Error(ctx, "Simulation stopped with an error", err)
		return err
	}
	return nil
}

// runHeadless steps the world until SIGINT or SIGTERM, optionally serving
// health probes on healthAddr
func runHeadless(ctx context.Context, world *engine.World, logger *logging.Logger, healthAddr string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if healthAddr != "" {
		server := newHealthServer(world, logger, healthAddr)
		go func() {
			logger.Info(ctx, "Starting health check server", "address", healthAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "Health check server failed", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error(shutdownCtx, "Health check server shutdown failed", err)
			}
		}()
	}

	logger.Info(ctx, "Running headless", "tick_rate", world.Config.Simulation.TickRate)
	if err := world.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	state := world.State()
	logger.Info(ctx, "Simulation stopped",
		"tick", state.Tick,
		"elapsed", state.Elapsed,
		"ships", len(state.Ships),
		"destroyed", state.Destroyed,
	)
	return nil
}

// newHealthServer builds the probe server for a headless world
func newHealthServer(world *engine.World, logger *logging.Logger, addr string) *http.Server {
	checker := health.NewHealthChecker(logger)
	checker.AddCheck(health.NewSimulationHealthCheck(
		func() uint64 { return world.State().Tick },
		world.IsPaused,
		healthStallAfter,
	))
	checker.AddCheck(health.NewMemoryHealthCheck(healthMaxMemoryMB, func() int64 {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return int64(m.Alloc / 1024 / 1024)
	}))

	return &http.Server{
		Addr:         addr,
		Handler:      checker.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// runTerminal runs the interactive tcell front end
func runTerminal(ctx context.Context, world *engine.World, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return logging.WrapError(err, "failed to create screen")
	}
	if err := screen.Init(); err != nil {
		return logging.WrapError(err, "failed to initialize screen")
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return newTerminalApp(world, screen, logger).run(ctx)
}
