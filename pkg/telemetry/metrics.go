package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/BYTE-6D65/tickwait/pkg/relax"
	"github.com/BYTE-6D65/tickwait/pkg/timestamp"
)

// Result label values for DelayRuns.
const (
	ResultOK         = "ok"
	ResultClockError = "clock_error"
	ResultCanceled   = "canceled"
)

// Metrics holds all Prometheus metrics for delay and timer usage.
type Metrics struct {
	// Delay Metrics
	DelayRuns      *prometheus.CounterVec
	DelayOvershoot *prometheus.HistogramVec
	RelaxCalls     *prometheus.CounterVec
	ClockAnomalies *prometheus.CounterVec

	// Timer Metrics
	TimerChecks *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
)

// InitMetrics initializes the Prometheus metrics.
// This should be called once at startup before any metrics are recorded.
func InitMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	// Overshoot is how long a delay ran past its requested length.
	// Buckets: 100ns .. 10ms
	overshootBuckets := []float64{
		0.0000001, // 100ns
		0.0000005, // 500ns
		0.000001,  // 1µs
		0.000005,  // 5µs
		0.00001,   // 10µs
		0.00005,   // 50µs
		0.0001,    // 100µs
		0.0005,    // 500µs
		0.001,     // 1ms
		0.005,     // 5ms
		0.01,      // 10ms
	}

	m := &Metrics{
		DelayRuns: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "tickwait_delay_runs_total",
				Help: "Total number of delay executions by outcome",
			},
			[]string{"strategy", "result"},
		),

		DelayOvershoot: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tickwait_delay_overshoot_seconds",
				Help:    "Time a successful delay ran past its requested length",
				Buckets: overshootBuckets,
			},
			[]string{"strategy"},
		),

		RelaxCalls: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "tickwait_relax_calls_total",
				Help: "Total number of relax strategy invocations",
			},
			[]string{"strategy"},
		),

		ClockAnomalies: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "tickwait_clock_anomalies_total",
				Help: "Number of negative durations reported by a clock",
			},
			[]string{"clock"},
		),

		TimerChecks: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "tickwait_timer_checks_total",
				Help: "Total number of elapsed-timer checks by outcome",
			},
			[]string{"timer", "result"},
		),
	}

	defaultMetrics = m
	return m
}

// Default returns the default metrics instance.
// If InitMetrics hasn't been called, it will initialize with the default registry.
func Default() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics(nil)
	}
	return defaultMetrics
}

// ObserveExec records one delay execution. requested and actual are only
// used for successful runs.
func (m *Metrics) ObserveExec(strategy, clockName string, requested, actual time.Duration, err error) {
	var canceled *relax.Canceled
	switch {
	case err == nil:
		m.DelayRuns.WithLabelValues(strategy, ResultOK).Inc()
		overshoot := actual - requested
		if overshoot < 0 {
			overshoot = 0
		}
		m.DelayOvershoot.WithLabelValues(strategy).Observe(overshoot.Seconds())
	case errors.As(err, &canceled):
		m.DelayRuns.WithLabelValues(strategy, ResultCanceled).Inc()
	default:
		m.DelayRuns.WithLabelValues(strategy, ResultClockError).Inc()
		if errors.Is(err, timestamp.ErrNegativeDuration) {
			m.ClockAnomalies.WithLabelValues(clockName).Inc()
		}
	}
}

// ObserveTimeout records the outcome of an elapsed-timer check.
func (m *Metrics) ObserveTimeout(timer string, timedOut bool, err error) {
	result := "waiting"
	switch {
	case err != nil:
		result = ResultClockError
	case timedOut:
		result = "elapsed"
	}
	m.TimerChecks.WithLabelValues(timer, result).Inc()
}

// Instrument wraps s so that every Relax call is counted under name.
func (m *Metrics) Instrument(name string, s relax.Strategy) relax.Strategy {
	return &instrumented{
		inner: s,
		calls: m.RelaxCalls.WithLabelValues(name),
	}
}

type instrumented struct {
	inner relax.Strategy
	calls prometheus.Counter
}

func (i *instrumented) Relax() {
	i.calls.Inc()
	i.inner.Relax()
}
