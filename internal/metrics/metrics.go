package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binmonitor_pipeline_runs_total",
		Help: "Completed pipeline runs.",
	})
	PipelineRunFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binmonitor_pipeline_run_failures_total",
		Help: "Pipeline runs aborted by a telemetry source failure.",
	})
	ReadingsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binmonitor_readings_fetched_total",
		Help: "Raw readings returned by the telemetry source.",
	})
	DevicesEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binmonitor_devices_evaluated_total",
		Help: "Device states evaluated for dispatch.",
	})
	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binmonitor_notifications_sent_total",
		Help: "Alert notifications accepted by the notification sink.",
	})
	NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binmonitor_notifications_failed_total",
		Help: "Alert notifications the sink failed to deliver.",
	})
	NotificationsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binmonitor_notifications_suppressed_total",
		Help: "Alert notifications withheld by the cooldown window.",
	})
)
