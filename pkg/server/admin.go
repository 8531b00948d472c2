package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"qqr-hq/qqr/pkg/config"
	"qqr-hq/qqr/pkg/lifecycle"
	"qqr-hq/qqr/pkg/telemetry/metrics"
)

// adminServer is the optional HTTP listener carrying the Prometheus
// exposition endpoint and a liveness probe. It is separate from the
// service port so the deployed single-port contract is untouched when
// metrics are disabled.
type adminServer struct {
	srv    *http.Server
	state  *lifecycle.State
	logger *slog.Logger
}

func newAdminServer(cfg config.MetricsConfig, collector *metrics.Collector, state *lifecycle.State, logger *slog.Logger) *adminServer {
	a := &adminServer{state: state, logger: logger}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, collector.Handler())
	mux.HandleFunc("/healthz", a.handleHealthz)

	a.srv = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return a
}

// Start launches the admin listener. Failures are logged, not fatal: the
// service port keeps working without its metrics endpoint.
func (a *adminServer) Start() {
	go func() {
		a.logger.Info("admin listener started", "address", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("admin listener failed", "error", err)
		}
	}()
}

// Stop shuts the admin listener down, bounded so it cannot stall the
// process exit.
func (a *adminServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(ctx); err != nil {
		a.logger.Warn("admin listener shutdown failed", "error", err)
	}
}

func (a *adminServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	phase := a.state.Phase()
	status := http.StatusOK
	if phase != lifecycle.Running {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, "{\"status\":%q}\n", phase.String())
}
