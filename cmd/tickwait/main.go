package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/BYTE-6D65/tickwait/pkg/config"
	"github.com/BYTE-6D65/tickwait/pkg/telemetry"
)

const version = "0.1.0"

func main() {
	cfg, err := config.LoadFromEnv()
	log := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// If no arguments or "demo", launch interactive TUI
	if len(os.Args) < 2 || os.Args[1] == "demo" {
		log.SetOutput(io.Discard)
		if err := startTUI(cfg, log); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cmd := os.Args[1]

	switch cmd {
	case "bench":
		if err := runBench(cfg, log); err != nil {
			log.Fatalf("bench failed: %+v", err)
		}
	case "config":
		fmt.Print(cfg.String())
	case "version":
		fmt.Printf("tickwait v%s\n", version)
		fmt.Printf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	case "help", "-h", "--help":
		usage()
	default:
		log.Fatalf("unknown command %q (try 'tickwait help')", cmd)
	}
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000000",
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// newMetrics registers the bench metrics on a private registry and, when
// addr is set, serves them on /metrics.
func newMetrics(addr string, log logrus.FieldLogger) *telemetry.Metrics {
	registry := prometheus.NewRegistry()
	metrics := telemetry.InitMetrics(registry)
	if addr == "" {
		return metrics
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		log.WithField("addr", addr).Info("serving metrics")
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
	return metrics
}

func runBench(cfg config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := newBench(cfg, newMetrics(cfg.MetricsAddr, log), log)
	b.progress = func(p progress) {
		log.WithFields(logrus.Fields{
			"strategy": p.Strategy,
			"done":     p.Done,
			"total":    p.Total,
		}).Debug("progress")
	}

	report, err := b.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.JSON {
		return errors.Wrap(writeJSON(os.Stdout, report), "write json report")
	}
	return errors.Wrap(writeText(os.Stdout, report), "write report")
}

func usage() {
	fmt.Fprintf(os.Stderr, `tickwait - busy-wait delay bench

Usage:
  tickwait [demo]
      Launch interactive bench

  tickwait bench
      Run the bench headless and print a report

  tickwait config
      Show the effective configuration

  tickwait version
      Show version and platform information

  tickwait help
      Show this help message

Environment:
  TICKWAIT_STRATEGIES         comma-separated: spin, yield, sleep, backoff
  TICKWAIT_DURATION           requested delay (default 1ms)
  TICKWAIT_RUNS               delays per strategy (default 200)
  TICKWAIT_SLEEP_TICK         sleep strategy tick (default 50us)
  TICKWAIT_BACKOFF_SPIN       backoff spin steps (default 6)
  TICKWAIT_BACKOFF_YIELD      backoff step cap (default 10)
  TICKWAIT_PROGRESS_INTERVAL  min time between progress updates (default 100ms)
  TICKWAIT_LOG_LEVEL          logrus level (default info)
  TICKWAIT_JSON               emit the report as JSON
  TICKWAIT_METRICS_ADDR       serve Prometheus metrics on this address

Examples:
  # Compare strategies for 100µs delays
  TICKWAIT_DURATION=100us tickwait bench

  # JSON report for the spin strategy only
  TICKWAIT_STRATEGIES=spin TICKWAIT_JSON=1 tickwait bench
`)
}
