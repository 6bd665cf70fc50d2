// Package config loads bdcheck settings: defaults, then the project's
// .bdcheck/config.yaml found by walking up parent directories, then
// BDCHECK_* environment overrides. Flags are reconciled at the cmd layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved settings for one invocation.
type Config struct {
	TrackerBin     string
	TrackerTimeout time.Duration
	RunnerTimeout  time.Duration
	HealthPort     int
	HealthRetries  uint64
	HealthInterval time.Duration
	Strict         bool
}

// Load resolves configuration starting the config file search at dir.
// A missing config file is normal; a malformed one is an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("tracker.bin", "bd")
	v.SetDefault("tracker.timeout", "30s")
	v.SetDefault("runner.timeout", "300s")
	v.SetDefault("health.port", 3000)
	v.SetDefault("health.retries", 20)
	v.SetDefault("health.interval", "500ms")
	v.SetDefault("strict", false)

	if path, ok := findConfigYaml(dir); ok {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("BDCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		TrackerBin:     v.GetString("tracker.bin"),
		TrackerTimeout: v.GetDuration("tracker.timeout"),
		RunnerTimeout:  v.GetDuration("runner.timeout"),
		HealthPort:     v.GetInt("health.port"),
		HealthRetries:  v.GetUint64("health.retries"),
		HealthInterval: v.GetDuration("health.interval"),
		Strict:         v.GetBool("strict"),
	}

	if cfg.TrackerTimeout <= 0 {
		return nil, fmt.Errorf("tracker.timeout must be positive, got %s", cfg.TrackerTimeout)
	}
	if cfg.RunnerTimeout <= 0 {
		return nil, fmt.Errorf("runner.timeout must be positive, got %s", cfg.RunnerTimeout)
	}
	return cfg, nil
}

// findConfigYaml walks up parent directories looking for
// .bdcheck/config.yaml.
func findConfigYaml(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for ; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		path := filepath.Join(dir, ".bdcheck", "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
