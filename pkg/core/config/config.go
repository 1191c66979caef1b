// Package config loads service configuration from .env, a YAML file and the
// environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hjson/hjson-go/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"tenderflow/pkg/core/currency"
)

// DefaultPath is where the service looks for its YAML file.
const DefaultPath = "config/tenderflow.yaml"

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

type DatabaseConfig struct {
	URL     string `yaml:"url"`
	Migrate bool   `yaml:"migrate"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// CurrencyConfig holds the injected rate table. Rates are units of foreign
// currency per one unit of Base. RatesFile, when set, replaces Rates.
type CurrencyConfig struct {
	Base      string             `yaml:"base"`
	Rates     map[string]float64 `yaml:"rates"`
	Timestamp string             `yaml:"timestamp"`
	RatesFile string             `yaml:"rates_file"`
	Strict    bool               `yaml:"strict"`
}

type SnapshotConfig struct {
	Dir string `yaml:"dir"`
}

type DigestConfig struct {
	Schedule   string   `yaml:"schedule"`
	TimeZone   string   `yaml:"time_zone"`
	Workspaces []string `yaml:"workspaces"`
	OutputDir  string   `yaml:"output_dir"`
}

// Config is the full service configuration.
type Config struct {
	Service   ServiceConfig  `yaml:"service"`
	Server    ServerConfig   `yaml:"server"`
	Database  DatabaseConfig `yaml:"database"`
	Logging   LoggingConfig  `yaml:"logging"`
	Currency  CurrencyConfig `yaml:"currency"`
	Snapshots SnapshotConfig `yaml:"snapshots"`
	Digest    DigestConfig   `yaml:"digest"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Service:   ServiceConfig{Name: "tenderflow", Environment: "development", Version: "dev"},
		Server:    ServerConfig{ListenAddr: ":8080"},
		Logging:   LoggingConfig{Level: "info"},
		Currency:  CurrencyConfig{Base: currency.DefaultBase},
		Snapshots: SnapshotConfig{Dir: "data/snapshots"},
		Digest:    DigestConfig{OutputDir: "data/digests"},
	}
}

// Load reads .env (if present), then path (if present), then applies
// environment overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.Currency.RatesFile != "" {
		ratesPath := cfg.Currency.RatesFile
		if !filepath.IsAbs(ratesPath) && path != "" {
			ratesPath = filepath.Join(filepath.Dir(path), ratesPath)
		}
		table, err := LoadRates(ratesPath)
		if err != nil {
			return nil, err
		}
		cfg.Currency.Rates = table.Rates
		if table.Timestamp != "" {
			cfg.Currency.Timestamp = table.Timestamp
		}
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Server.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.Currency.Base, "BASE_CURRENCY")
	setString(&cfg.Currency.RatesFile, "CURRENCY_RATES_FILE")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Snapshots.Dir, "SNAPSHOT_DIR")
	setString(&cfg.Digest.Schedule, "DIGEST_SCHEDULE")
	setString(&cfg.Service.Environment, "ENVIRONMENT")
	if v, ok := os.LookupEnv("DIGEST_WORKSPACES"); ok {
		cfg.Digest.Workspaces = splitList(v)
	}
	if v, ok := os.LookupEnv("STRICT_CURRENCY"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Currency.Strict = b
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RateTable is the content of a rates file.
type RateTable struct {
	Timestamp string             `json:"timestamp" yaml:"timestamp"`
	Rates     map[string]float64 `json:"rates" yaml:"rates"`
}

// LoadRates reads a rate table. .yaml and .yml files are YAML; anything else
// is parsed as Hjson, which also accepts plain JSON.
func LoadRates(path string) (*RateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rates %s: %w", path, err)
	}
	var table RateTable
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &table)
	default:
		err = hjson.Unmarshal(data, &table)
	}
	if err != nil {
		return nil, fmt.Errorf("parse rates %s: %w", path, err)
	}
	if table.Rates == nil {
		table.Rates = map[string]float64{}
	}
	return &table, nil
}

// TimestampPtr returns the rate timestamp, or nil when none is configured.
func (c CurrencyConfig) TimestampPtr() *string {
	if c.Timestamp == "" {
		return nil
	}
	ts := c.Timestamp
	return &ts
}
