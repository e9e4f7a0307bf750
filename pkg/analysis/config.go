package analysis

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Granularity selects which ExperimentRecord fields a baseline lookup
// matches on.
type Granularity string

const (
	// GranularityTopology matches the no-failure record for a topology
	// irrespective of algorithm.
	GranularityTopology Granularity = "topology"
	// GranularityAlgorithmTopology matches the no-failure record for an
	// (algorithm, topology) pair.
	GranularityAlgorithmTopology Granularity = "algorithm-topology"
)

// Config manages pipeline configuration using Viper
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	v := viper.New()

	// Pipeline parameters
	v.SetDefault("pipeline.convergence_cap", 50000.0)
	v.SetDefault("pipeline.metric_column", "convergence_time_ms")
	v.SetDefault("pipeline.metric_unit", "ms")
	v.SetDefault("pipeline.baseline_granularity", string(GranularityAlgorithmTopology))

	// Logging parameters
	v.SetDefault("logging.level", "info")

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Getters for pipeline parameters
func (c *Config) ConvergenceCap() float64 { return c.v.GetFloat64("pipeline.convergence_cap") }
func (c *Config) MetricColumn() string    { return c.v.GetString("pipeline.metric_column") }
func (c *Config) MetricUnit() string      { return c.v.GetString("pipeline.metric_unit") }

func (c *Config) BaselineGranularity() Granularity {
	return Granularity(c.v.GetString("pipeline.baseline_granularity"))
}

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger creates a zerolog logger based on config
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "analysis").Logger()
}
