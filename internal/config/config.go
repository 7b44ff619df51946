// Package config loads poolcache settings from flags, a config file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/IvanBrykalov/poolcache/buddy"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "POOLCACHE"

// Policies lists the accepted eviction policy names.
var Policies = []string{"clock", "lru", "2q"}

// Config is the file/flag/env configuration shared by the CLI commands.
type Config struct {
	// Capacity is the cache entry limit.
	Capacity int `mapstructure:"capacity"`
	// MinPower and MaxPower size the buddy arena; 0 derives them from the value size.
	MinPower int `mapstructure:"min_power"`
	MaxPower int `mapstructure:"max_power"`
	// Policy is one of Policies.
	Policy string `mapstructure:"policy"`
	// MetricsAddr serves /metrics when non-empty.
	MetricsAddr string `mapstructure:"metrics_addr"`

	Runtime Runtime `mapstructure:"-"`
}

// Runtime holds environment-only toggles.
type Runtime struct {
	LogLevel  string `env:"POOLCACHE_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"POOLCACHE_LOG_FORMAT" envDefault:"text"`
	Debug     bool   `env:"POOLCACHE_DEBUG"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("capacity", 9)
	v.SetDefault("min_power", 0)
	v.SetDefault("max_power", 0)
	v.SetDefault("policy", "clock")
	v.SetDefault("metrics_addr", "")
}

// Load reads path (if set) into v, applies POOLCACHE_* overrides and validates.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	rt, err := env.ParseAs[Runtime]()
	if err != nil {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}
	cfg.Runtime = rt

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be > 0 (got %d)", ErrInvalid, c.Capacity)
	case c.MinPower < 0 || c.MaxPower < 0:
		return fmt.Errorf("%w: negative power (min=%d max=%d)", ErrInvalid, c.MinPower, c.MaxPower)
	case c.MaxPower > buddy.MaxPower:
		return fmt.Errorf("%w: max_power %d > %d", ErrInvalid, c.MaxPower, buddy.MaxPower)
	case c.MaxPower != 0 && c.MinPower > c.MaxPower:
		return fmt.Errorf("%w: min_power %d > max_power %d", ErrInvalid, c.MinPower, c.MaxPower)
	case !slices.Contains(Policies, c.Policy):
		return fmt.Errorf("%w: unknown policy %q (use %s)", ErrInvalid, c.Policy, strings.Join(Policies, ", "))
	}
	if _, err := c.Runtime.Level(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Level resolves the log level; Debug forces log.DebugLevel.
func (r Runtime) Level() (log.Level, error) {
	if r.Debug {
		return log.DebugLevel, nil
	}
	return log.ParseLevel(r.LogLevel)
}

// NewLogger builds the process logger. w == nil logs to stderr.
func (r Runtime) NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := r.Level()
	if err != nil {
		lvl = log.InfoLevel
	}
	opts := log.Options{Level: lvl, Prefix: "poolcache"}
	switch r.LogFormat {
	case "json":
		opts.Formatter = log.JSONFormatter
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
	default:
		opts.Formatter = log.TextFormatter
	}
	if r.Debug {
		opts.ReportCaller = true
	}
	return log.NewWithOptions(w, opts)
}
