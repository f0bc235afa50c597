package main

import (
	"context"
	"runtime"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/BYTE-6D65/tickwait/pkg/clock"
	"github.com/BYTE-6D65/tickwait/pkg/config"
	"github.com/BYTE-6D65/tickwait/pkg/relax"
	"github.com/BYTE-6D65/tickwait/pkg/telemetry"
	"github.com/BYTE-6D65/tickwait/pkg/timestamp"
)

const clockName = "system"

// Report is the outcome of one bench invocation.
type Report struct {
	ID          string         `json:"id"`
	StartedAt   time.Time      `json:"started_at"`
	Platform    string         `json:"platform"`
	RequestedNs int64          `json:"requested_ns"`
	Runs        int            `json:"runs"`
	Results     []StrategyStat `json:"results"`
	Canceled    bool           `json:"canceled,omitzero"`
}

// StrategyStat summarizes the delays executed with one relax strategy.
// Latencies are the measured wall time of Exec in nanoseconds.
type StrategyStat struct {
	Strategy    string  `json:"strategy"`
	Completed   int     `json:"completed"`
	Failures    int     `json:"failures"`
	MinNs       int64   `json:"min_ns"`
	P50Ns       int64   `json:"p50_ns"`
	P99Ns       int64   `json:"p99_ns"`
	MaxNs       int64   `json:"max_ns"`
	OvershootNs int64   `json:"mean_overshoot_ns"`
	RelaxPerRun float64 `json:"relax_per_run"`
}

// progress is reported at most once per progress interval and once when a
// strategy finishes.
type progress struct {
	Strategy string
	Done     int
	Total    int
	Finished bool
}

type bench struct {
	cfg      config.Config
	clk      *clock.SystemClock
	metrics  *telemetry.Metrics
	log      logrus.FieldLogger
	progress func(progress)
}

func newBench(cfg config.Config, metrics *telemetry.Metrics, log logrus.FieldLogger) *bench {
	return &bench{
		cfg:      cfg,
		clk:      clock.NewSystemClock(),
		metrics:  metrics,
		log:      log,
		progress: func(progress) {},
	}
}

// newStrategy builds the relax strategy called name. The returned reset
// func prepares a stateful strategy for the next wait.
func newStrategy(name string, cfg config.Config) (relax.Strategy, func(), error) {
	switch name {
	case config.StrategySpin:
		return relax.Spin{}, func() {}, nil
	case config.StrategyYield:
		return relax.Yield{}, func() {}, nil
	case config.StrategySleep:
		return relax.Sleep{Tick: cfg.SleepTick}, func() {}, nil
	case config.StrategyBackoff:
		b := relax.NewBackoff(cfg.BackoffSpinLimit, cfg.BackoffYieldLimit)
		return b, b.Reset, nil
	default:
		return nil, nil, errors.Errorf("unknown strategy %q", name)
	}
}

// Run executes cfg.Runs delays for every configured strategy. A canceled
// ctx aborts the delay in flight and returns the partial report.
func (b *bench) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		ID:          uuid.New().String(),
		StartedAt:   time.Now(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		RequestedNs: b.cfg.Duration.Nanoseconds(),
		Runs:        b.cfg.Runs,
	}
	log := b.log.WithField("run_id", report.ID)
	log.WithFields(logrus.Fields{
		"duration":   b.cfg.Duration,
		"runs":       b.cfg.Runs,
		"strategies": b.cfg.Strategies,
	}).Info("bench started")

	for _, name := range b.cfg.Strategies {
		stat, err := b.runStrategy(ctx, name, log.WithField("strategy", name))
		if stat != nil {
			report.Results = append(report.Results, *stat)
		}
		var canceled *relax.Canceled
		if errors.As(err, &canceled) {
			report.Canceled = true
			log.WithError(err).Warn("bench canceled")
			return report, nil
		}
		if err != nil {
			return report, errors.Wrapf(err, "strategy %s", name)
		}
	}

	log.Info("bench finished")
	return report, nil
}

func (b *bench) runStrategy(ctx context.Context, name string, log logrus.FieldLogger) (*StrategyStat, error) {
	inner, reset, err := newStrategy(name, b.cfg)
	if err != nil {
		return nil, err
	}
	counter := relax.NewCounting(b.metrics.Instrument(name, inner))
	strategy := relax.Cancel{Ctx: ctx, Inner: counter}

	delay := timestamp.NewDelayWithStrategy[clock.MonoTime](b.clk, b.cfg.Duration, strategy)
	progressTimer := timestamp.NewTimer[clock.MonoTime](b.cfg.ProgressInterval)
	lastProgress := b.clk.Now()

	latencies := make([]time.Duration, 0, b.cfg.Runs)
	stat := &StrategyStat{Strategy: name}
	var overshoot time.Duration

	for i := 0; i < b.cfg.Runs; i++ {
		// A delay that never relaxes cannot observe ctx through Cancel.
		if ctx.Err() != nil {
			err := &relax.Canceled{Err: context.Cause(ctx)}
			b.metrics.ObserveExec(name, clockName, b.cfg.Duration, 0, err)
			b.finish(stat, latencies, overshoot, counter.Count())
			return stat, err
		}

		reset()
		relaxed := counter.Count()
		start := b.clk.Now()
		err := execDelay(delay)
		end := b.clk.Now()

		var canceled *relax.Canceled
		if errors.As(err, &canceled) {
			b.metrics.ObserveExec(name, clockName, b.cfg.Duration, 0, err)
			// relax calls of the aborted delay are not part of any run
			b.finish(stat, latencies, overshoot, relaxed)
			return stat, err
		}

		actual, serr := end.DurationSince(start)
		if err == nil {
			err = serr
		}
		b.metrics.ObserveExec(name, clockName, b.cfg.Duration, actual, err)
		if err != nil {
			stat.Failures++
			log.WithError(err).Warn("clock anomaly during delay")
		} else {
			latencies = append(latencies, actual)
			overshoot += actual - b.cfg.Duration
		}

		now := b.clk.Now()
		due, terr := progressTimer.Timeout(lastProgress, now)
		b.metrics.ObserveTimeout("progress", due, terr)
		if due {
			lastProgress = now
			b.progress(progress{Strategy: name, Done: i + 1, Total: b.cfg.Runs})
		}
	}

	b.finish(stat, latencies, overshoot, counter.Count())
	b.progress(progress{Strategy: name, Done: b.cfg.Runs, Total: b.cfg.Runs, Finished: true})
	log.WithFields(logrus.Fields{
		"p50":   time.Duration(stat.P50Ns),
		"p99":   time.Duration(stat.P99Ns),
		"relax": stat.RelaxPerRun,
	}).Debug("strategy finished")
	return stat, nil
}

// execDelay runs delay, turning a relax.Cancel abort into an error.
func execDelay(delay *timestamp.Delay[clock.MonoTime, time.Duration]) (err error) {
	defer relax.Recover(&err)
	return delay.Exec()
}

func (b *bench) finish(stat *StrategyStat, latencies []time.Duration, overshoot time.Duration, relaxCalls uint64) {
	runs := len(latencies) + stat.Failures
	stat.Completed = len(latencies)
	if runs > 0 {
		stat.RelaxPerRun = float64(relaxCalls) / float64(runs)
	}
	if len(latencies) == 0 {
		return
	}

	slices.Sort(latencies)
	stat.MinNs = latencies[0].Nanoseconds()
	stat.P50Ns = percentile(latencies, 0.50).Nanoseconds()
	stat.P99Ns = percentile(latencies, 0.99).Nanoseconds()
	stat.MaxNs = latencies[len(latencies)-1].Nanoseconds()
	stat.OvershootNs = (overshoot / time.Duration(len(latencies))).Nanoseconds()
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}
