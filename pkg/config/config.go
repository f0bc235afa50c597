// Package config holds the tunables of the tickwait bench.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Known relax strategy names.
const (
	StrategySpin    = "spin"
	StrategyYield   = "yield"
	StrategySleep   = "sleep"
	StrategyBackoff = "backoff"
)

// Config holds all tunable parameters for the bench.
// Values can be set via:
//  1. Code (programmatic configuration)
//  2. Environment variables (TICKWAIT_*)
//
// Precedence: Code > Env Vars > Defaults
type Config struct {
	// Delay under test
	Strategies []string      `env:"TICKWAIT_STRATEGIES" default:"spin,yield,sleep,backoff"` // Strategies to run, in order
	Duration   time.Duration `env:"TICKWAIT_DURATION" default:"1ms"`                        // Requested delay length
	Runs       int           `env:"TICKWAIT_RUNS" default:"200"`                            // Delays per strategy

	// Strategy tuning
	SleepTick         time.Duration `env:"TICKWAIT_SLEEP_TICK" default:"50us"`    // Sleep strategy tick
	BackoffSpinLimit  uint32        `env:"TICKWAIT_BACKOFF_SPIN" default:"6"`     // Backoff spin steps
	BackoffYieldLimit uint32        `env:"TICKWAIT_BACKOFF_YIELD" default:"10"`   // Backoff step cap

	// Reporting
	ProgressInterval time.Duration `env:"TICKWAIT_PROGRESS_INTERVAL" default:"100ms"` // Min time between progress updates
	LogLevel         string        `env:"TICKWAIT_LOG_LEVEL" default:"info"`          // logrus level
	JSON             bool          `env:"TICKWAIT_JSON" default:"false"`              // Emit JSON report
	MetricsAddr      string        `env:"TICKWAIT_METRICS_ADDR" default:""`           // Serve /metrics when set
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Strategies: []string{StrategySpin, StrategyYield, StrategySleep, StrategyBackoff},
		Duration:   time.Millisecond,
		Runs:       200,

		SleepTick:         50 * time.Microsecond,
		BackoffSpinLimit:  6,
		BackoffYieldLimit: 10,

		ProgressInterval: 100 * time.Millisecond,
		LogLevel:         "info",
		JSON:             false,
		MetricsAddr:      "",
	}
}

// LoadFromEnv loads configuration from environment variables.
// Returns a Config with defaults, overridden by any TICKWAIT_* env vars found.
func LoadFromEnv() (Config, error) {
	cfg := DefaultConfig()

	// Delay under test
	if v := os.Getenv("TICKWAIT_STRATEGIES"); v != "" {
		var names []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(strings.ToLower(name)); name != "" {
				names = append(names, name)
			}
		}
		cfg.Strategies = names
	}
	if v := os.Getenv("TICKWAIT_DURATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Duration = d
		}
	}
	if v := os.Getenv("TICKWAIT_RUNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Runs = n
		}
	}

	// Strategy tuning
	if v := os.Getenv("TICKWAIT_SLEEP_TICK"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SleepTick = d
		}
	}
	if v := os.Getenv("TICKWAIT_BACKOFF_SPIN"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.BackoffSpinLimit = uint32(n)
		}
	}
	if v := os.Getenv("TICKWAIT_BACKOFF_YIELD"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.BackoffYieldLimit = uint32(n)
		}
	}

	// Reporting
	if v := os.Getenv("TICKWAIT_PROGRESS_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ProgressInterval = d
		}
	}
	if v := os.Getenv("TICKWAIT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("TICKWAIT_JSON"); v != "" {
		cfg.JSON = v == "true" || v == "1"
	}
	if v := os.Getenv("TICKWAIT_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}

	return cfg, cfg.Validate()
}

// Validate checks that configuration values are sensible.
func (c *Config) Validate() error {
	if len(c.Strategies) == 0 {
		return fmt.Errorf("at least one strategy is required")
	}
	for _, name := range c.Strategies {
		switch name {
		case StrategySpin, StrategyYield, StrategySleep, StrategyBackoff:
		default:
			return fmt.Errorf("unknown strategy %q (want spin, yield, sleep or backoff)", name)
		}
	}

	if c.Duration < 0 {
		return fmt.Errorf("duration must be >= 0, got %s", c.Duration)
	}

	if c.Runs <= 0 {
		return fmt.Errorf("runs must be > 0, got %d", c.Runs)
	}

	if c.SleepTick < 0 {
		return fmt.Errorf("sleep tick must be >= 0, got %s", c.SleepTick)
	}

	if c.BackoffSpinLimit > 30 {
		return fmt.Errorf("backoff spin limit (%d) must be <= 30", c.BackoffSpinLimit)
	}

	if c.BackoffYieldLimit < c.BackoffSpinLimit {
		return fmt.Errorf("backoff yield limit (%d) must be >= spin limit (%d)",
			c.BackoffYieldLimit, c.BackoffSpinLimit)
	}

	if c.ProgressInterval <= 0 {
		return fmt.Errorf("progress interval must be > 0, got %s", c.ProgressInterval)
	}

	return nil
}

// String returns a human-readable summary of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf(`tickwait Configuration:
  Delay:
    Strategies: %s
    Duration:   %s
    Runs:       %d

  Strategy Tuning:
    Sleep Tick:    %s
    Backoff Spin:  %d
    Backoff Yield: %d

  Reporting:
    Progress: %s
    Log:      %s
    Metrics:  %s
`,
		strings.Join(c.Strategies, ", "),
		c.Duration,
		c.Runs,
		c.SleepTick,
		c.BackoffSpinLimit,
		c.BackoffYieldLimit,
		c.ProgressInterval,
		c.LogLevel,
		formatMetricsAddr(c.MetricsAddr),
	)
}

func formatMetricsAddr(addr string) string {
	if addr == "" {
		return "disabled"
	}
	return addr
}
