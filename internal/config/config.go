package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fleet-usage/internal/usage"

	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverJSON     = "json"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Store      StoreConfig  `yaml:"store"`
	Reconciler usage.Params `yaml:"reconciler"`
	Report     ReportConfig `yaml:"report"`
	Server     ServerConfig `yaml:"server"`
}

type StoreConfig struct {
	// Driver is one of sqlite, postgres or json.
	Driver string `yaml:"driver"`
	// DSN is a file path for sqlite or a connection URL for postgres.
	DSN string `yaml:"dsn"`
	// DatasetFile is the JSON export read by the json driver.
	DatasetFile string `yaml:"dataset_file"`
}

type ReportConfig struct {
	Concurrency int    `yaml:"concurrency"`
	OutputDir   string `yaml:"output_dir"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	Env            string   `yaml:"env"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// CacheTTL bounds how long asset lists and plant history are reused, e.g. "5m".
	CacheTTL string `yaml:"cache_ttl"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads, merges env overrides, applies defaults and validates.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadOrDefault loads path when set and falls back to Default plus env overrides otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		c := &Config{}
		c.ApplyEnv()
		c.applyDefaults()
		return c, c.Validate()
	}
	return Load(path)
}

// LoadUnchecked loads the file and resolves relative paths, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// Relative file paths are interpreted relative to the config file directory
	// when that exists, otherwise relative to cwd.
	base := filepath.Dir(path)
	c.Store.DatasetFile = resolvePath(base, c.Store.DatasetFile)
	if strings.EqualFold(c.Store.Driver, DriverSQLite) {
		c.Store.DSN = resolvePath(base, c.Store.DSN)
	}
	return &c, nil
}

// ApplyEnv overlays FLEET_* and API_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("FLEET_DB_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("FLEET_DB_DSN"); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv("FLEET_DATASET"); v != "" {
		c.Store.DatasetFile = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
}

func (c *Config) applyDefaults() {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Driver == "" {
		if c.Store.DatasetFile != "" && c.Store.DSN == "" {
			c.Store.Driver = DriverJSON
		} else {
			c.Store.Driver = DriverSQLite
		}
	}
	if c.Store.Driver == DriverSQLite && c.Store.DSN == "" {
		c.Store.DSN = "./data/fleet.db"
	}
	c.Reconciler = c.Reconciler.WithDefaults()
	if c.Report.Concurrency <= 0 {
		c.Report.Concurrency = 4
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "results"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.CacheTTL == "" {
		c.Server.CacheTTL = "5m"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch c.Store.Driver {
	case DriverSQLite, DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
		}
	case DriverJSON:
		if c.Store.DatasetFile == "" {
			return errors.New("store.dataset_file is required for driver \"json\"")
		}
	default:
		return fmt.Errorf("unsupported store.driver: %q", c.Store.Driver)
	}
	if err := c.Reconciler.Validate(); err != nil {
		return fmt.Errorf("reconciler config invalid: %w", err)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// CacheTTL parses server.cache_ttl.
func (c *Config) CacheTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("server.cache_ttl invalid: %w", err)
	}
	if d < 0 {
		return 0, errors.New("server.cache_ttl must be >= 0")
	}
	return d, nil
}

func (c *Config) Production() bool {
	return c.Server.Env == "production"
}

// MergeParams overlays non-zero fields from override onto base.
// This is used when a request tweaks the configured reconciler thresholds.
func MergeParams(base, override usage.Params) usage.Params {
	out := base
	if override.MaxPerDay != 0 {
		out.MaxPerDay = override.MaxPerDay
	}
	if override.LongGapDays != 0 {
		out.LongGapDays = override.LongGapDays
	}
	// Note: a factor of 0 is legal but indistinguishable from "unset" here.
	if override.EnvelopeRangeFactor != 0 {
		out.EnvelopeRangeFactor = override.EnvelopeRangeFactor
	}
	if override.LookbackDays != 0 {
		out.LookbackDays = override.LookbackDays
	}
	if override.ExtendedLookbackDays != 0 {
		out.ExtendedLookbackDays = override.ExtendedLookbackDays
	}
	return out
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(base, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	if _, err := os.Stat(filepath.Dir(cand)); err == nil && base != "." {
		return cand
	}
	return p
}
