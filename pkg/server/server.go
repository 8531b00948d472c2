package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"qqr-hq/qqr/pkg/config"
	"qqr-hq/qqr/pkg/dispatch"
	"qqr-hq/qqr/pkg/httpwire"
	"qqr-hq/qqr/pkg/lifecycle"
	"qqr-hq/qqr/pkg/netcore"
	"qqr-hq/qqr/pkg/qr"
	"qqr-hq/qqr/pkg/requestlog"
	"qqr-hq/qqr/pkg/telemetry/logging"
	"qqr-hq/qqr/pkg/telemetry/metrics"
)

// ErrForcedShutdown reports that the drain timeout expired and remaining
// connections were force-closed. Callers map it to a non-zero exit code so
// orchestrators can tell a clean stop from a forced one.
var ErrForcedShutdown = errors.New("shutdown forced after drain timeout")

// Server is the assembled service.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	levelVar *slog.LevelVar

	state     *lifecycle.State
	listener  *netcore.Listener
	collector *metrics.Collector
	admin     *adminServer

	store     *requestlog.Store
	recorder  *requestlog.Recorder
	scheduler *requestlog.Scheduler

	watcher *config.Watcher
}

// New wires a server from a validated configuration. configPath is the
// file to watch for runtime reloads; it is ignored unless watching is
// enabled in the configuration.
func New(cfg *config.Config, configPath string) (*Server, error) {
	logger, levelVar, err := logging.New(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		levelVar: levelVar,
		state:    lifecycle.NewState(),
	}

	if cfg.Telemetry.Metrics.Enabled {
		s.collector = metrics.NewCollector(cfg.Telemetry.Metrics.Namespace, nil)
		s.admin = newAdminServer(cfg.Telemetry.Metrics, s.collector, s.state,
			logging.Component(logger, "admin"))
	}

	var dispatcher dispatch.Dispatcher = qr.NewDispatcher(qr.Config{
		MinImageSize:    cfg.QR.MinImageSize,
		MaxContentBytes: cfg.QR.MaxContentBytes,
	}, logging.Component(logger, "qr"))

	if cfg.RequestLog.Enabled {
		store, err := requestlog.Open(requestlog.StoreConfig{
			Path:        cfg.RequestLog.Path,
			BusyTimeout: cfg.RequestLog.BusyTimeout.Std(),
		}, logging.Component(logger, "requestlog"))
		if err != nil {
			return nil, fmt.Errorf("failed to open request log: %w", err)
		}
		s.store = store
		s.recorder = requestlog.NewRecorder(dispatcher, store, cfg.RequestLog.BufferSize,
			logging.Component(logger, "requestlog"))
		dispatcher = s.recorder

		pruner := requestlog.NewPruner(store, requestlog.RetentionConfig{
			RetentionDays: cfg.RequestLog.RetentionDays,
			MaxRecords:    cfg.RequestLog.MaxRecords,
			PruneSchedule: cfg.RequestLog.PruneSchedule,
		}, logging.Component(logger, "requestlog"))
		s.scheduler = requestlog.NewScheduler(pruner)
	}

	dispatcher = dispatch.GateByLifecycle(s.state, dispatcher)

	s.listener = netcore.New(netcore.Config{
		ListenAddress:  cfg.Server.ListenAddress,
		MaxConnections: cfg.Server.MaxConnections,
		IdleTimeout:    cfg.Server.IdleTimeout.Std(),
		WriteTimeout:   cfg.Server.WriteTimeout.Std(),
	}, httpwire.NewCodec(cfg.Server.MaxFrameBytes), dispatcher, s.state, s.collector,
		logging.Component(logger, "netcore"))

	if cfg.Telemetry.WatchConfig && configPath != "" {
		watcher, err := config.NewWatcher(configPath, logging.Component(logger, "config"))
		if err != nil {
			return nil, fmt.Errorf("failed to create config watcher: %w", err)
		}
		s.watcher = watcher
	}

	return s, nil
}

// Logger returns the server's root logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Addr returns the bound listen address, or "" before Run has bound it.
func (s *Server) Addr() string {
	if addr := s.listener.Addr(); addr != nil {
		return addr.String()
	}
	return ""
}

// Run binds the listener, starts every component and blocks until the
// context is cancelled or the accept loop fails. It always drains before
// returning; ErrForcedShutdown means the drain timed out.
func (s *Server) Run(ctx context.Context) error {
	if err := s.listener.Bind(); err != nil {
		return err
	}

	if s.recorder != nil {
		s.recorder.Start()
	}
	if s.scheduler != nil {
		if err := s.scheduler.Start(ctx); err != nil {
			return err
		}
	}
	if s.admin != nil {
		s.admin.Start()
	}
	if s.watcher != nil {
		go s.watcher.Watch(ctx, s.applyReload)
	}

	s.logger.Info("service started", "address", s.Addr())

	serveErr := make(chan error, 1)
	go func() { serveErr <- s.listener.Serve() }()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown requested")
		return s.shutdown()
	case err := <-serveErr:
		if err != nil {
			s.logger.Error("accept loop failed", "error", err)
			s.shutdown()
			return err
		}
		return s.shutdown()
	}
}

// shutdown drains connections and stops every component in reverse start
// order. Safe to call once; later callers wait for the first to finish.
func (s *Server) shutdown() error {
	if !s.state.BeginDrain() {
		<-s.state.Done()
		return nil
	}

	timeout := s.cfg.Server.DrainTimeout.Std()
	s.logger.Info("draining", "timeout", timeout, "active_connections", s.listener.Active())

	started := time.Now()
	clean := s.listener.Drain(timeout)

	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.admin != nil {
		s.admin.Stop()
	}
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.recorder != nil {
		s.recorder.Close()
	}
	if s.store != nil {
		s.store.Close()
	}

	s.state.MarkStopped()

	if !clean {
		s.logger.Warn("shutdown forced", "elapsed", time.Since(started))
		return ErrForcedShutdown
	}
	s.logger.Info("shutdown complete", "elapsed", time.Since(started))
	return nil
}

// applyReload applies the runtime-safe subset of a reloaded configuration.
// The listener, limits and timeouts are fixed at startup; only logging
// verbosity changes live.
func (s *Server) applyReload(cfg *config.Config) {
	level, err := logging.ParseLevel(cfg.Telemetry.Logging.Level)
	if err != nil {
		s.logger.Warn("reload carries an invalid log level, keeping current", "error", err)
		return
	}
	if s.levelVar.Level() != level {
		s.levelVar.Set(level)
		s.logger.Info("log level changed", "level", cfg.Telemetry.Logging.Level)
	}
}
