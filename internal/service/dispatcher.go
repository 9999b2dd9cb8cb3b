package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wastewatch/bin-fleet-monitor/internal/domain"
	"github.com/wastewatch/bin-fleet-monitor/internal/metrics"
)

// Notifier delivers one alert for a device. Position may be nil when the
// reading carries no valid GPS fix.
type Notifier interface {
	SendAlert(ctx context.Context, deviceID string, level domain.Metric, pos *domain.Position) error
}

// CooldownStore remembers which device/condition pairs were recently
// notified. Allow reports whether a notification may go out; Mark records
// that one did.
type CooldownStore interface {
	Allow(ctx context.Context, deviceID string, cond domain.AlertCondition) (bool, error)
	Mark(ctx context.Context, deviceID string, cond domain.AlertCondition) error
}

// Dispatcher decides, per device, whether the current state warrants an
// outbound notification and invokes the sink at most once per qualifying
// device per run. Eligibility is keyed off the discrete alarm codes (the
// alarm-code policy), which flap less than the continuous thresholds.
type Dispatcher struct {
	notifier Notifier
	policy   Policy
	cooldown CooldownStore // nil: baseline behavior, every run re-notifies
	logger   zerolog.Logger
}

func NewDispatcher(notifier Notifier, cooldown CooldownStore, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		policy:   AlarmCodePolicy(),
		cooldown: cooldown,
		logger:   logger,
	}
}

// DispatchReport summarizes one run.
type DispatchReport struct {
	Evaluated  int
	Sent       int
	Failed     int
	Suppressed int
}

// Run evaluates every device state and fires notifications for the
// qualifying ones. Sink calls for distinct devices are independent and
// issued concurrently; a failure for one device is logged and isolated,
// never aborting the others. Run returns after all attempts finish.
func (d *Dispatcher) Run(ctx context.Context, states []domain.DeviceState) DispatchReport {
	report := DispatchReport{Evaluated: len(states)}
	metrics.DevicesEvaluated.Add(float64(len(states)))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, st := range states {
		set := d.policy.Classify(st)
		if !set.Active() {
			continue
		}

		if d.cooldown != nil && !d.allow(ctx, st.DeviceID, set) {
			metrics.NotificationsSuppressed.Inc()
			mu.Lock()
			report.Suppressed++
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(st domain.DeviceState, set domain.AlertSet) {
			defer wg.Done()

			err := d.notifier.SendAlert(ctx, st.DeviceID, st.Height, st.Position())
			if err != nil {
				metrics.NotificationsFailed.Inc()
				d.logger.Error().Err(err).
					Str("device_id", st.DeviceID).
					Strs("conditions", conditionNames(set)).
					Msg("notification failed")
				mu.Lock()
				report.Failed++
				mu.Unlock()
				return
			}

			metrics.NotificationsSent.Inc()
			d.logger.Info().
				Str("device_id", st.DeviceID).
				Strs("conditions", conditionNames(set)).
				Msg("notification sent")
			mu.Lock()
			report.Sent++
			mu.Unlock()

			if d.cooldown != nil {
				d.mark(ctx, st.DeviceID, set)
			}
		}(st, set)
	}

	wg.Wait()
	return report
}

// allow passes when any active condition is outside its cooldown window.
// Store errors fail open: an unreachable store must not silence alerts.
func (d *Dispatcher) allow(ctx context.Context, deviceID string, set domain.AlertSet) bool {
	for _, cond := range set {
		ok, err := d.cooldown.Allow(ctx, deviceID, cond)
		if err != nil {
			d.logger.Warn().Err(err).Str("device_id", deviceID).Msg("cooldown check failed")
			return true
		}
		if ok {
			return true
		}
	}
	return false
}

func (d *Dispatcher) mark(ctx context.Context, deviceID string, set domain.AlertSet) {
	for _, cond := range set {
		if err := d.cooldown.Mark(ctx, deviceID, cond); err != nil {
			d.logger.Warn().Err(err).Str("device_id", deviceID).Msg("cooldown mark failed")
		}
	}
}

func conditionNames(set domain.AlertSet) []string {
	out := make([]string, len(set))
	for i, c := range set {
		out[i] = string(c)
	}
	return out
}
