package overlay

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/anim-bench/go-animbench/sampler"
	"github.com/anim-bench/go-animbench/scenario"
)

const defaultMetricsNamespace = "animbench"

// grades enumerates every value the grade gauge carries a series for.
var grades = []sampler.Grade{
	sampler.GradeExcellent,
	sampler.GradeGood,
	sampler.GradeFair,
	sampler.GradePoor,
}

// MetricsConfig controls how overlay metrics are registered.
type MetricsConfig struct {
	// Namespace is the prometheus namespace for all metrics. If empty,
	// defaults to "animbench".
	Namespace string
	// ConstLabels are added to every metric as constant labels.
	ConstLabels map[string]string
	// Registerer is the prometheus registerer to use. If nil the server
	// creates a private registry and serves it on the metrics endpoint.
	Registerer prometheus.Registerer
}

// metricsSet holds the overlay's prometheus collectors. Live gauges are
// refreshed from a sampler summary on every scrape; scenario metrics are set
// when a run completes.
type metricsSet struct {
	fps        prometheus.Gauge
	frameTime  prometheus.Gauge
	memoryUsed prometheus.Gauge
	animations prometheus.Gauge
	elapsed    prometheus.Gauge
	grade      *prometheus.GaugeVec

	scenarioMs *prometheus.GaugeVec
	runsTotal  prometheus.Counter
	runErrors  prometheus.Counter
}

func newMetricsSet(cfg MetricsConfig, registerer prometheus.Registerer) (*metricsSet, error) {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = defaultMetricsNamespace
	}
	constLabels := prometheus.Labels(cfg.ConstLabels)

	m := &metricsSet{}

	m.fps = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "fps",
		Help:        "Rolling average frames per second.",
		ConstLabels: constLabels,
	})

	m.frameTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "frame_time_ms",
		Help:        "Rolling average frame time in milliseconds.",
		ConstLabels: constLabels,
	})

	m.memoryUsed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "memory_used_mb",
		Help:        "Most recent heap usage sample in megabytes.",
		ConstLabels: constLabels,
	})

	m.animations = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "animations_active",
		Help:        "Currently tracked animations.",
		ConstLabels: constLabels,
	})

	m.elapsed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "elapsed_seconds",
		Help:        "Seconds since the sampler was started or reset.",
		ConstLabels: constLabels,
	})

	m.grade = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "grade",
		Help:        "Current performance grade, 1 on the active series.",
		ConstLabels: constLabels,
	}, []string{"grade"})

	m.scenarioMs = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   "scenario",
		Name:        "duration_ms",
		Help:        "Duration of the scenario in the most recent run.",
		ConstLabels: constLabels,
	}, []string{"scenario"})

	m.runsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   "scenario",
		Name:        "runs_total",
		Help:        "Completed scenario runs.",
		ConstLabels: constLabels,
	})

	m.runErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   "scenario",
		Name:        "run_failures_total",
		Help:        "Scenario runs that ended in an error.",
		ConstLabels: constLabels,
	})

	collectors := []prometheus.Collector{
		m.fps,
		m.frameTime,
		m.memoryUsed,
		m.animations,
		m.elapsed,
		m.grade,
		m.scenarioMs,
		m.runsTotal,
		m.runErrors,
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			// Tolerate re-registration so tests can rebuild servers over a
			// shared registry.
			if !errors.As(err, &alreadyRegistered) {
				return nil, err
			}
		}
	}

	return m, nil
}

// observeSummary refreshes the live gauges from a sampler snapshot.
func (m *metricsSet) observeSummary(sum sampler.Summary) {
	m.fps.Set(sum.AverageFPS)
	m.frameTime.Set(sum.AverageFrameTimeMs)
	if sum.Memory != nil {
		m.memoryUsed.Set(float64(sum.Memory.UsedMB))
	}
	m.animations.Set(float64(sum.AnimationCount))
	m.elapsed.Set(sum.ElapsedSeconds)

	for _, g := range grades {
		var v float64
		if g == sum.Grade {
			v = 1
		}
		m.grade.WithLabelValues(string(g)).Set(v)
	}
}

// observeReport records the per-scenario durations of a completed run.
func (m *metricsSet) observeReport(r *scenario.Report) {
	m.scenarioMs.WithLabelValues(scenario.ScenarioScroll).Set(r.ScrollMs)
	m.scenarioMs.WithLabelValues(scenario.ScenarioStagger).Set(r.StaggerMs)
	m.scenarioMs.WithLabelValues(scenario.ScenarioStroke).Set(r.StrokeMs)
	m.runsTotal.Inc()
}

func (m *metricsSet) observeRunFailure() {
	m.runErrors.Inc()
}
