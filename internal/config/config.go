// File: internal/config/config.go
package config

import (
	"sync/atomic"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration. Values come from the
// config file, ARCHLENS_* environment variables, and command-line flags, in
// increasing order of precedence (viper handles the merge).
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Analysis  AnalysisConfig  `mapstructure:"analysis" yaml:"analysis"`
	Coverage  CoverageConfig  `mapstructure:"coverage" yaml:"coverage"`
	Container ContainerConfig `mapstructure:"container" yaml:"container"`
}

// LoggerConfig controls the zap logger set up in internal/observability.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`

	// File sink settings (lumberjack). Empty LogFile disables the file sink.
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// AnalysisConfig controls the per-file analysis passes.
type AnalysisConfig struct {
	// SourceExtension is the file extension of the source language.
	SourceExtension string `mapstructure:"source_extension" yaml:"source_extension"`
}

// CoverageConfig controls the coverage pass, which shells out to the
// repository's own test runner.
type CoverageConfig struct {
	// PythonBinary is tried first; "python" is the fallback.
	PythonBinary string        `mapstructure:"python_binary" yaml:"python_binary"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ContainerConfig controls the image build/inspect pass.
type ContainerConfig struct {
	Dockerfile   string        `mapstructure:"dockerfile" yaml:"dockerfile"`
	BuildTimeout time.Duration `mapstructure:"build_timeout" yaml:"build_timeout"`
}

// global holds the process-wide configuration once Load has run.
var global atomic.Pointer[Config]

// SetDefaults registers every configuration default with viper. Called from
// cmd before the config file is read so that a missing file still yields a
// usable configuration.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "archlens")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	v.SetDefault("analysis.source_extension", ".py")

	v.SetDefault("coverage.python_binary", "python3")
	v.SetDefault("coverage.timeout", 10*time.Minute)

	v.SetDefault("container.dockerfile", "Dockerfile")
	v.SetDefault("container.build_timeout", 15*time.Minute)
}

// Load unmarshals the merged viper state into the global Config.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	global.Store(cfg)
	return cfg, nil
}

// Get returns the process-wide configuration. Before Load has run it returns
// a default-populated Config so library code never sees a nil.
func Get() *Config {
	if cfg := global.Load(); cfg != nil {
		return cfg
	}
	v := viper.New()
	SetDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}
