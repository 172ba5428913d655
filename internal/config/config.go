package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/blackwell-systems/shopwatch/internal/insights"
)

// Config is the top-level shopwatch configuration.
type Config struct {
	BasePath    string     `mapstructure:"base_path"`
	RawFile     string     `mapstructure:"raw_file"`
	CleanedDir  string     `mapstructure:"cleaned_dir"`
	FeaturesDir string     `mapstructure:"features_dir"`
	OutputDir   string     `mapstructure:"output_dir"`
	DBName      string     `mapstructure:"db_name"`
	Thresholds  Thresholds `mapstructure:"thresholds"`
	Output      Output     `mapstructure:"output"`
}

// Thresholds holds the tunable analysis thresholds.
type Thresholds struct {
	AlertChangePct               float64 `mapstructure:"alert_change_pct"`
	LowFunnelThreshold           float64 `mapstructure:"low_funnel_threshold"`
	LoyaltySessionCutoff         int     `mapstructure:"loyalty_session_cutoff"`
	HighConvertingBrandThreshold float64 `mapstructure:"high_converting_brand_threshold"`
	MaxSessionDurationMinutes    float64 `mapstructure:"max_session_duration_minutes"`
	FallbackSplitLow             float64 `mapstructure:"fallback_split_low"`
	FallbackSplitHigh            float64 `mapstructure:"fallback_split_high"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("base_path", DefaultBasePath)
	v.SetDefault("raw_file", DefaultRawFile)
	v.SetDefault("cleaned_dir", DefaultCleanedDir)
	v.SetDefault("features_dir", DefaultFeaturesDir)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("db_name", DefaultDBName)
	v.SetDefault("thresholds.alert_change_pct", DefaultThresholds.AlertChangePct)
	v.SetDefault("thresholds.low_funnel_threshold", DefaultThresholds.LowFunnelThreshold)
	v.SetDefault("thresholds.loyalty_session_cutoff", DefaultThresholds.LoyaltySessionCutoff)
	v.SetDefault("thresholds.high_converting_brand_threshold", DefaultThresholds.HighConvertingBrandThreshold)
	v.SetDefault("thresholds.max_session_duration_minutes", DefaultThresholds.MaxSessionDurationMinutes)
	v.SetDefault("thresholds.fallback_split_low", DefaultThresholds.FallbackSplitLow)
	v.SetDefault("thresholds.fallback_split_high", DefaultThresholds.FallbackSplitHigh)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.AddConfigPath(".")
		v.SetConfigName("shopwatch")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; a missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.BasePath = expandPath(cfg.BasePath)
	return &cfg, nil
}

// RawEventsPath is the raw events CSV under the base path.
func (c *Config) RawEventsPath() string {
	return filepath.Join(c.BasePath, c.RawFile)
}

// CleanedPath is the cleaned events CSV under the base path.
func (c *Config) CleanedPath() string {
	return filepath.Join(c.BasePath, c.CleanedDir, "cleaned_events.csv")
}

// FeaturesPath is the feature-table directory under the base path.
func (c *Config) FeaturesPath() string {
	return filepath.Join(c.BasePath, c.FeaturesDir)
}

// OutputPath is the summary output directory. A relative OutputDir sits
// under the base path; an absolute one is used as given.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.OutputDir) {
		return c.OutputDir
	}
	return filepath.Join(c.BasePath, c.OutputDir)
}

// DBPath is the run-history database file under the base path.
func (c *Config) DBPath() string {
	return filepath.Join(c.BasePath, c.DBName)
}

// InsightConfig maps the configured thresholds onto the analysis config.
func (c *Config) InsightConfig() insights.Config {
	return insights.Config{
		AlertChangePct:               c.Thresholds.AlertChangePct,
		LowFunnelThreshold:           c.Thresholds.LowFunnelThreshold,
		LoyaltySessionCutoff:         c.Thresholds.LoyaltySessionCutoff,
		HighConvertingBrandThreshold: c.Thresholds.HighConvertingBrandThreshold,
		MaxSessionDurationMinutes:    c.Thresholds.MaxSessionDurationMinutes,
		FallbackSplitLow:             c.Thresholds.FallbackSplitLow,
		FallbackSplitHigh:            c.Thresholds.FallbackSplitHigh,
	}
}
