// Package config provides configuration management for the analyzer.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"sofr-analyzer/internal/apperrors"
)

// Config holds all application configuration.
type Config struct {
	Contracts     []string           `mapstructure:"contracts"`
	ContractSpecs ContractSpecConfig `mapstructure:"contract_specs"`
	Detection     DetectionConfig    `mapstructure:"detection"`
	DataSource    DataSourceConfig   `mapstructure:"data_source"`
	Analysis      AnalysisConfig     `mapstructure:"analysis"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// ContractSpecConfig holds SOFR futures contract specifications.
type ContractSpecConfig struct {
	TickSize     float64 `mapstructure:"tick_size"`
	TickValue    float64 `mapstructure:"tick_value"`
	ContractSize float64 `mapstructure:"contract_size"`
}

// DetectionConfig holds level-detection engine parameters.
type DetectionConfig struct {
	LookbackDays   int                 `mapstructure:"lookback_days"`
	PriceTolerance float64             `mapstructure:"price_tolerance"`
	MinTouches     int                 `mapstructure:"min_touches"`
	Pivot          PivotConfig         `mapstructure:"pivot"`
	VolumeProfile  VolumeProfileConfig `mapstructure:"volume_profile"`
	Fibonacci      FibonacciConfig     `mapstructure:"fibonacci"`
}

// PivotConfig holds swing-detection window widths. The engine treats the
// window symmetrically and uses the left width for both sides.
type PivotConfig struct {
	LeftBars  int `mapstructure:"left_bars"`
	RightBars int `mapstructure:"right_bars"`
}

// VolumeProfileConfig holds volume-by-price histogram parameters.
type VolumeProfileConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Bins    int  `mapstructure:"bins"`
}

// FibonacciConfig holds Fibonacci retracement detection parameters.
type FibonacciConfig struct {
	Enabled bool      `mapstructure:"enabled"`
	Levels  []float64 `mapstructure:"levels"`
}

// DataSourceConfig holds data acquisition configuration.
type DataSourceConfig struct {
	Provider      string            `mapstructure:"provider"` // csv, yahoo, sqlite
	CSVPath       string            `mapstructure:"csv_path"`
	TickerMapping map[string]string `mapstructure:"ticker_mapping"`
}

// AnalysisConfig holds result presentation parameters.
type AnalysisConfig struct {
	MaxLevelsPerSide int `mapstructure:"max_levels_per_side"`
	StrongLevel      int `mapstructure:"strong_level"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  bool   `mapstructure:"file"`
}

// Default returns the default configuration, matching the shipped template.
func Default() *Config {
	return &Config{
		Contracts: []string{"MAR26", "JUN26", "SEP26", "DEC26"},
		ContractSpecs: ContractSpecConfig{
			TickSize:     0.0025,
			TickValue:    6.25,
			ContractSize: 1000000,
		},
		Detection: DetectionConfig{
			LookbackDays:   90,
			PriceTolerance: 0.005,
			MinTouches:     2,
			Pivot:          PivotConfig{LeftBars: 5, RightBars: 5},
			VolumeProfile:  VolumeProfileConfig{Enabled: true, Bins: 50},
			Fibonacci:      FibonacciConfig{Enabled: false, Levels: []float64{0.236, 0.382, 0.5, 0.618, 0.786}},
		},
		DataSource: DataSourceConfig{
			Provider: "csv",
			CSVPath:  "data",
		},
		Analysis: AnalysisConfig{
			MaxLevelsPerSide: 5,
			StrongLevel:      3,
		},
		Logging: LoggingConfig{Level: "info", File: true},
	}
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/sofr-analyzer"
	}
	return filepath.Join(home, ".config", "sofr-analyzer")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default config directory is used. A template config file is
// created when none exists.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if werr := writeTemplate(configDir); werr != nil {
				return nil, apperrors.Wrap(werr, "creating config template")
			}
		} else {
			return nil, apperrors.Wrap(err, "reading config")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.Wrap(err, "parsing config")
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("contracts", def.Contracts)
	v.SetDefault("contract_specs.tick_size", def.ContractSpecs.TickSize)
	v.SetDefault("contract_specs.tick_value", def.ContractSpecs.TickValue)
	v.SetDefault("contract_specs.contract_size", def.ContractSpecs.ContractSize)
	v.SetDefault("detection.lookback_days", def.Detection.LookbackDays)
	v.SetDefault("detection.price_tolerance", def.Detection.PriceTolerance)
	v.SetDefault("detection.min_touches", def.Detection.MinTouches)
	v.SetDefault("detection.pivot.left_bars", def.Detection.Pivot.LeftBars)
	v.SetDefault("detection.pivot.right_bars", def.Detection.Pivot.RightBars)
	v.SetDefault("detection.volume_profile.enabled", def.Detection.VolumeProfile.Enabled)
	v.SetDefault("detection.volume_profile.bins", def.Detection.VolumeProfile.Bins)
	v.SetDefault("detection.fibonacci.enabled", def.Detection.Fibonacci.Enabled)
	v.SetDefault("detection.fibonacci.levels", def.Detection.Fibonacci.Levels)
	v.SetDefault("data_source.provider", def.DataSource.Provider)
	v.SetDefault("data_source.csv_path", def.DataSource.CSVPath)
	v.SetDefault("analysis.max_levels_per_side", def.Analysis.MaxLevelsPerSide)
	v.SetDefault("analysis.strong_level", def.Analysis.StrongLevel)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.file", def.Logging.File)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SOFR_DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("SOFR_CSV_PATH"); v != "" {
		cfg.DataSource.CSVPath = v
	}
	if v := os.Getenv("SOFR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks all recognized configuration values up front, before any
// computation starts.
func (c *Config) Validate() error {
	if err := c.Detection.Validate(); err != nil {
		return err
	}
	switch c.DataSource.Provider {
	case "csv", "yahoo", "sqlite", "synthetic":
	default:
		return apperrors.NewConfigError("data_source.provider", c.DataSource.Provider, "unsupported provider")
	}
	if c.Analysis.MaxLevelsPerSide < 1 {
		return apperrors.NewConfigError("analysis.max_levels_per_side", c.Analysis.MaxLevelsPerSide, "must be >= 1")
	}
	return nil
}

// Validate checks the detection parameters.
func (d *DetectionConfig) Validate() error {
	if d.PriceTolerance <= 0 {
		return apperrors.NewConfigError("detection.price_tolerance", d.PriceTolerance, "must be > 0")
	}
	if d.MinTouches < 1 {
		return apperrors.NewConfigError("detection.min_touches", d.MinTouches, "must be >= 1")
	}
	if d.Pivot.LeftBars < 1 {
		return apperrors.NewConfigError("detection.pivot.left_bars", d.Pivot.LeftBars, "must be >= 1")
	}
	if d.Pivot.RightBars < 1 {
		return apperrors.NewConfigError("detection.pivot.right_bars", d.Pivot.RightBars, "must be >= 1")
	}
	if d.VolumeProfile.Bins < 1 {
		return apperrors.NewConfigError("detection.volume_profile.bins", d.VolumeProfile.Bins, "must be >= 1")
	}
	for _, r := range d.Fibonacci.Levels {
		if r <= 0 || r >= 1 {
			return apperrors.NewConfigError("detection.fibonacci.levels", r, "ratios must be in (0, 1)")
		}
	}
	return nil
}
