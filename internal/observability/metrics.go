package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/templui/gugu/internal/middleware"
)

var (
	entriesCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gugu",
		Subsystem: "tracker",
		Name:      "entries_completed_total",
		Help:      "Completed goal entries by goal kind.",
	}, []string{"kind"})
	logsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gugu",
		Subsystem: "tracker",
		Name:      "log_attempts_rejected_total",
		Help:      "Log attempts that did not record a completion, by reason.",
	}, []string{"reason"})
	dailyResets = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gugu",
		Subsystem: "repository",
		Name:      "daily_resets_total",
		Help:      "Daily resets that cleared persisted entries.",
	})
	goalsInCooldown = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gugu",
		Subsystem: "tracker",
		Name:      "goals_in_cooldown",
		Help:      "Goals currently in cooldown.",
	})
)

func init() {
	prometheus.MustRegister(entriesCompleted, logsRejected, dailyResets, goalsInCooldown)
}

func RecordCompletion(kind string) {
	entriesCompleted.WithLabelValues(kind).Inc()
}

func RecordRejection(reason string) {
	logsRejected.WithLabelValues(reason).Inc()
}

func RecordDailyReset() {
	dailyResets.Inc()
}

func SetGoalsInCooldown(n int) {
	goalsInCooldown.Set(float64(n))
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           middleware.RequestLogging(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics server shutdown failed", "error", err)
		}
	}()

	slog.Info("metrics server listening", "addr", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
