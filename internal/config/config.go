// Package config loads settings for the openmeteo CLI from an optional YAML
// file with environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds CLI configuration.
type Config struct {
	CacheDir       string
	ForecastTTL    time.Duration
	HTTPTimeout    time.Duration
	CacheBackend   string // "in_memory" or "memcached"
	MemcachedAddrs string
	LogLevel       string
	Timezone       string
}

type fileConfig struct {
	Cache struct {
		Dir       string `yaml:"dir"`
		Backend   string `yaml:"backend"`
		TTL       string `yaml:"ttl"`
		Memcached struct {
			Addrs string `yaml:"addrs"`
		} `yaml:"memcached"`
	} `yaml:"cache"`

	HTTP struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"http"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Timezone string `yaml:"timezone"`
}

// Load reads the YAML file at path (skipped when path is empty), then applies
// OPENMETEO_CACHE_DIR, OPENMETEO_CACHE_BACKEND, OPENMETEO_MEMCACHED_ADDRS and
// LOG_LEVEL overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ForecastTTL:  time.Hour,
		HTTPTimeout:  30 * time.Second,
		CacheBackend: "in_memory",
		LogLevel:     "info",
		Timezone:     "auto",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
		if fc.Cache.Dir != "" {
			cfg.CacheDir = fc.Cache.Dir
		}
		if fc.Cache.Backend != "" {
			cfg.CacheBackend = strings.TrimSpace(strings.ToLower(fc.Cache.Backend))
		}
		cfg.ForecastTTL = parseDuration(fc.Cache.TTL, cfg.ForecastTTL)
		if fc.Cache.Memcached.Addrs != "" {
			cfg.MemcachedAddrs = fc.Cache.Memcached.Addrs
		}
		cfg.HTTPTimeout = parseDuration(fc.HTTP.Timeout, cfg.HTTPTimeout)
		if fc.Log.Level != "" {
			cfg.LogLevel = fc.Log.Level
		}
		if fc.Timezone != "" {
			cfg.Timezone = fc.Timezone
		}
	}

	if v := os.Getenv("OPENMETEO_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("OPENMETEO_CACHE_BACKEND"); v != "" {
		cfg.CacheBackend = strings.TrimSpace(strings.ToLower(v))
	}
	if v := os.Getenv("OPENMETEO_MEMCACHED_ADDRS"); v != "" {
		cfg.MemcachedAddrs = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	switch cfg.CacheBackend {
	case "in_memory", "memcached":
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want in_memory or memcached)", cfg.CacheBackend)
	}
	return cfg, nil
}

// parseDuration parses a duration string and returns defaultVal if parsing
// fails or the result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
