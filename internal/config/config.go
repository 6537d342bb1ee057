// file: internal/config/config.go
// version: 2.0.1
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"fmt"
	"time"

	"github.com/jdfalk/dashboard-search/internal/matcher"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Matching
	MatchThreshold    float64
	TieEpsilon        float64
	TokenShortCircuit float64
	DefaultFields     []string
	SuggestLimit      int

	// Datasets
	DatasetDir    string
	DatasetTTL    time.Duration // 0 keeps datasets until removed
	WatchDebounce time.Duration
	MaxRecords    int

	// Logging
	LogLevel string // debug, info, warn, error
	LogEnv   string // prod, local, dev

	// HTTP
	Host               string
	Port               string
	RateLimitPerMinute int
	RateLimitBurst     int
	MaxBodyBytes       int64
}

var AppConfig Config

// SetDefaults registers default values with viper
func SetDefaults() {
	viper.SetDefault("match_threshold", matcher.DefaultThreshold)
	viper.SetDefault("tie_epsilon", matcher.DefaultTieEpsilon)
	viper.SetDefault("token_short_circuit", matcher.DefaultTokenShortCircuit)
	viper.SetDefault("default_fields", []string{})
	viper.SetDefault("suggest_limit", 5)

	viper.SetDefault("dataset_dir", "")
	viper.SetDefault("dataset_ttl", 30*time.Minute)
	viper.SetDefault("watch_debounce", 2*time.Second)
	viper.SetDefault("max_records", 50000)

	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_env", "local")

	viper.SetDefault("host", "localhost")
	viper.SetDefault("port", "8080")
	viper.SetDefault("rate_limit_per_minute", 600)
	viper.SetDefault("rate_limit_burst", 60)
	viper.SetDefault("max_body_bytes", int64(32<<20))
}

// InitConfig initializes the application configuration
func InitConfig() {
	SetDefaults()

	AppConfig = Config{
		MatchThreshold:    viper.GetFloat64("match_threshold"),
		TieEpsilon:        viper.GetFloat64("tie_epsilon"),
		TokenShortCircuit: viper.GetFloat64("token_short_circuit"),
		DefaultFields:     viper.GetStringSlice("default_fields"),
		SuggestLimit:      viper.GetInt("suggest_limit"),

		DatasetDir:    viper.GetString("dataset_dir"),
		DatasetTTL:    viper.GetDuration("dataset_ttl"),
		WatchDebounce: viper.GetDuration("watch_debounce"),
		MaxRecords:    viper.GetInt("max_records"),

		LogLevel: viper.GetString("log_level"),
		LogEnv:   viper.GetString("log_env"),

		Host:               viper.GetString("host"),
		Port:               viper.GetString("port"),
		RateLimitPerMinute: viper.GetInt("rate_limit_per_minute"),
		RateLimitBurst:     viper.GetInt("rate_limit_burst"),
		MaxBodyBytes:       viper.GetInt64("max_body_bytes"),
	}
}

// Validate rejects settings the matcher or server cannot work with
func (c Config) Validate() error {
	if !inUnitInterval(c.MatchThreshold) {
		return fmt.Errorf("match_threshold must be within [0,1], got %v", c.MatchThreshold)
	}
	if !(c.TieEpsilon >= 0) {
		return fmt.Errorf("tie_epsilon must not be negative, got %v", c.TieEpsilon)
	}
	if !inUnitInterval(c.TokenShortCircuit) {
		return fmt.Errorf("token_short_circuit must be within [0,1], got %v", c.TokenShortCircuit)
	}
	if c.SuggestLimit < 0 {
		return fmt.Errorf("suggest_limit must not be negative, got %d", c.SuggestLimit)
	}
	if c.MaxRecords < 0 {
		return fmt.Errorf("max_records must not be negative, got %d", c.MaxRecords)
	}
	switch c.LogEnv {
	case "prod", "local", "dev", "docker":
	default:
		return fmt.Errorf("unknown log_env %q", c.LogEnv)
	}
	return nil
}

// MatchOptions converts the matching settings for the matcher
func (c Config) MatchOptions() matcher.Options {
	return matcher.Options{
		Threshold:         c.MatchThreshold,
		TieEpsilon:        c.TieEpsilon,
		TokenShortCircuit: c.TokenShortCircuit,
	}
}

// inUnitInterval is false for NaN as well as for values outside [0,1]
func inUnitInterval(f float64) bool {
	return f >= 0 && f <= 1
}
