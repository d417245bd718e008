// Package metrics provides the centralized Prometheus registry for the
// rating pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PipelineRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "pipeline_runs_total",
		Help:      "Total number of rating pipeline runs started",
	})
	PipelineFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "pipeline_failures_total",
		Help:      "Total number of fatal pipeline failures by stage",
	}, []string{"stage"})
	ValidationFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "validation_failures_total",
		Help:      "Runs where the blended model failed to beat the HFA-only baseline",
	})
	FoldsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "cv_folds_skipped_total",
		Help:      "Cross-validation folds skipped for zero-variance predictions",
	})
	GamesFilteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "games_filtered_total",
		Help:      "Game rows removed by the outlier cap",
	})
	FeedRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "feed_requests_total",
		Help:      "Upstream feed requests by source and outcome",
	}, []string{"source", "outcome"})
	RecordsIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "records_ingested_total",
		Help:      "Records ingested by record type",
	}, []string{"record_type"})
	RecordsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "records_rejected_total",
		Help:      "Records rejected during ingestion validation by reason",
	}, []string{"record_type", "reason"})
)

// Gauge metrics
var (
	ChosenLambda = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "chosen_lambda",
		Help:      "Regularization strength selected by cross-validation",
	})
	ChosenBlendWeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "chosen_blend_weight",
		Help:      "Blend weight selected by the optimizer",
	})
	SolvedHFA = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "solved_hfa",
		Help:      "Home-field-advantage constant from the latest solve",
	})
	TeamsRated = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "teams_rated",
		Help:      "Number of teams in the latest rating table",
	})
	ModelRMSE = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "model_rmse",
		Help:      "Held-out RMSE per evaluation split",
	}, []string{"split"})
)

// Histogram metrics
var (
	StageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridiron_edge",
		Name:      "pipeline_stage_duration_seconds",
		Help:      "Duration of each pipeline stage in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})
	IngestionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron_edge",
		Name:      "ingestion_duration_seconds",
		Help:      "Duration of feed ingestion runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PipelineRunsTotal)
		registry.MustRegister(PipelineFailuresTotal)
		registry.MustRegister(ValidationFailuresTotal)
		registry.MustRegister(FoldsSkippedTotal)
		registry.MustRegister(GamesFilteredTotal)
		registry.MustRegister(FeedRequestsTotal)
		registry.MustRegister(RecordsIngestedTotal)
		registry.MustRegister(RecordsRejectedTotal)

		// Register gauge metrics
		registry.MustRegister(ChosenLambda)
		registry.MustRegister(ChosenBlendWeight)
		registry.MustRegister(SolvedHFA)
		registry.MustRegister(TeamsRated)
		registry.MustRegister(ModelRMSE)

		// Register histogram metrics
		registry.MustRegister(StageDuration)
		registry.MustRegister(IngestionDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordStageDuration records the duration of one pipeline stage.
func RecordStageDuration(stage string, seconds float64) {
	StageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordPipelineFailure records a fatal failure in the named stage.
func RecordPipelineFailure(stage string) {
	PipelineFailuresTotal.WithLabelValues(stage).Inc()
}

// RecordSolveResult updates the gauges describing the latest solve.
func RecordSolveResult(lambda, hfa float64, teams int) {
	ChosenLambda.Set(lambda)
	SolvedHFA.Set(hfa)
	TeamsRated.Set(float64(teams))
}
