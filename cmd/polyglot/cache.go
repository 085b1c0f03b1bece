package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/polyglot/cache"
	"github.com/ZaguanLabs/polyglot/config"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the local translation cache",
	}
	cmd.AddCommand(
		newCacheStatsCmd(),
		newCacheClearCmd(),
		newCacheToggleCmd("on", true),
		newCacheToggleCmd("off", false),
	)
	return cmd
}

// openStore opens the configured cache database without requiring an API key.
func openStore() (*cache.SQLiteCache, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	path, err := cfg.CachePath()
	if err != nil {
		return nil, err
	}
	store, err := cache.NewSQLiteCache(cache.SQLiteConfig{
		Path:    path,
		MaxSize: cfg.Cache.MaxSize,
		TTL:     cfg.CacheTTL(),
	})
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		store.Disable()
	}
	return store, nil
}

func newCacheStatsCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry count and stored size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats()
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(stats)
			}

			state := "enabled"
			if !stats.Enabled {
				state = "disabled"
			}
			fmt.Printf("%d entries, %s of %s used (%s)\n",
				stats.Entries, formatBytes(stats.TotalSize), formatBytes(stats.MaxSize), state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached translations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Println("cache cleared")
			return nil
		},
	}
}

// newCacheToggleCmd persists the enabled flag so later runs honor it; the
// stored entries are left untouched.
func newCacheToggleCmd(use string, enabled bool) *cobra.Command {
	short := "Disable the cache without deleting entries"
	if enabled {
		short = "Re-enable the cache"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.Cache.Enabled = enabled
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Printf("cache %s\n", use)
			return nil
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
