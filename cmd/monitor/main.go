package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wastewatch/bin-fleet-monitor/internal/config"
	"github.com/wastewatch/bin-fleet-monitor/internal/metrics"
	"github.com/wastewatch/bin-fleet-monitor/internal/notify"
	"github.com/wastewatch/bin-fleet-monitor/internal/service"
	"github.com/wastewatch/bin-fleet-monitor/internal/store"
	"github.com/wastewatch/bin-fleet-monitor/internal/telemetry"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := telemetry.NewClient(config.TelemetryURL())
	sink := notify.NewSinkClient(config.SMSProxyURL())

	var cooldown service.CooldownStore
	if ttl := config.AlertCooldown(); ttl > 0 {
		if addr := config.RedisAddr(); addr != "" {
			rc, err := store.NewRedisCooldown(ctx, addr, config.RedisPassword(), config.RedisDB(), ttl)
			if err != nil {
				log.Fatal().Err(err).Msg("redis connect failed")
			}
			defer rc.Close()
			cooldown = rc
			log.Info().Dur("ttl", ttl).Msg("redis-backed alert cooldown enabled")
		} else {
			cooldown = store.NewMemoryCooldown(ttl)
			log.Info().Dur("ttl", ttl).Msg("in-memory alert cooldown enabled")
		}
	}

	dispatcher := service.NewDispatcher(sink, cooldown, log.Logger)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(config.MetricsAddr(), mux); err != nil {
			log.Error().Err(err).Msg("metrics server exit")
		}
	}()

	interval := config.MonitorInterval()
	log.Info().Dur("interval", interval).Msg("monitor running")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	runOnce(ctx, source, dispatcher)
	for {
		select {
		case <-ticker.C:
			runOnce(ctx, source, dispatcher)
		case <-ctx.Done():
			log.Info().Msg("monitor stopped")
			return
		}
	}
}

// runOnce performs one independent pipeline run: snapshot, reduce, classify,
// dispatch. Runs share no state; a failed fetch aborts this run only.
func runOnce(ctx context.Context, source *telemetry.Client, dispatcher *service.Dispatcher) {
	runID := uuid.NewString()
	started := time.Now()

	readings, err := source.FetchReadings(ctx)
	if err != nil {
		metrics.PipelineRunFailures.Inc()
		log.Error().Err(err).Str("run_id", runID).Msg("telemetry fetch failed")
		return
	}
	metrics.ReadingsFetched.Add(float64(len(readings)))

	states := service.LatestPerDevice(readings)
	report := dispatcher.Run(ctx, states)
	metrics.PipelineRuns.Inc()

	log.Info().
		Str("run_id", runID).
		Int("readings", len(readings)).
		Int("devices", len(states)).
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Int("suppressed", report.Suppressed).
		Dur("elapsed", time.Since(started)).
		Msg("pipeline run complete")
}
