package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IvanBrykalov/poolcache/internal/config"
	"github.com/IvanBrykalov/poolcache/policy"
	"github.com/IvanBrykalov/poolcache/policy/clock"
	"github.com/IvanBrykalov/poolcache/policy/lru"
	"github.com/IvanBrykalov/poolcache/policy/twoq"
)

var (
	configFile string

	// Set by the root PersistentPreRunE.
	cfg    config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "poolcache",
	Short: "Bounded CLOCK cache over a buddy-allocated arena",
	Long: `poolcache exercises a fixed-capacity cache whose values are reserved in a
power-of-two buddy arena and evicted with the second-chance (CLOCK) policy.

Settings come from flags, an optional YAML config file and POOLCACHE_* environment
variables (POOLCACHE_LOG_LEVEL, POOLCACHE_LOG_FORMAT and POOLCACHE_DEBUG are env-only).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&configFile, "config", "", "config file (YAML)")
	f.Int("capacity", 9, "cache capacity (entries)")
	f.Int("min-power", 0, "log2 of the smallest arena block (0 = derive from the value size)")
	f.Int("max-power", 0, "log2 of the arena size (0 = derive from capacity)")
	f.String("policy", "clock", "eviction policy: clock | lru | 2q")
	f.String("metrics-addr", "", "serve Prometheus /metrics at addr (bench only)")
}

// setup binds flags into a fresh viper instance, loads the config and builds the logger.
func setup(cmd *cobra.Command) error {
	v := viper.New()
	for key, flag := range map[string]string{
		"capacity":     "capacity",
		"min_power":    "min-power",
		"max_power":    "max-power",
		"policy":       "policy",
		"metrics_addr": "metrics-addr",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	c, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	cfg = c
	logger = cfg.Runtime.NewLogger(cmd.ErrOrStderr())
	logger.Debug("configuration loaded", "file", v.ConfigFileUsed(), "capacity", cfg.Capacity, "policy", cfg.Policy)
	return nil
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// policyFor maps a config policy name to a factory. 2Q gets A1in ≈ 25% and
// ghosts ≈ 50% of capacity.
func policyFor[K comparable, V any](name string, capacity int) policy.Policy[K, V] {
	switch name {
	case "lru":
		return lru.New[K, V]()
	case "2q":
		return twoq.New[K, V](max(capacity/4, 1), max(capacity/2, 1))
	default:
		return clock.New[K, V]()
	}
}
