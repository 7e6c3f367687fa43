package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/docaudit/internal/cache"
	"github.com/panbanda/docaudit/pkg/config"
)

func cacheCmd() *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config file (TOML, YAML, or JSON)",
		EnvVars: []string{"DOCAUDIT_CONFIG"},
	}
	return &cli.Command{
		Name:  "cache",
		Usage: "Critique cache management commands",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show the number and size of cached critiques",
				Flags:  []cli.Flag{configFlag},
				Action: runCacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove all cached critiques",
				Flags:  []cli.Flag{configFlag},
				Action: runCacheClear,
			},
		},
	}
}

// openCache opens the configured cache directory regardless of cache.enabled.
func openCache(c *cli.Context) (*cache.Cache, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	ch, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTLHours, true)
	if err != nil {
		return nil, nil, err
	}
	return ch, cfg, nil
}

func runCacheStats(c *cli.Context) error {
	ch, cfg, err := openCache(c)
	if err != nil {
		return err
	}
	stats, err := ch.GetStats()
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Cache directory: %s\n", cfg.Cache.Dir)
	fmt.Fprintf(w, "Entries: %d (%d bytes)\n", stats.Entries, stats.TotalSize)
	if stats.Entries > 0 {
		fmt.Fprintf(w, "Oldest: %s ago\n", stats.OldestAge.Truncate(time.Second))
		fmt.Fprintf(w, "Newest: %s ago\n", stats.NewestAge.Truncate(time.Second))
	}
	return nil
}

func runCacheClear(c *cli.Context) error {
	ch, cfg, err := openCache(c)
	if err != nil {
		return err
	}
	if err := ch.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	color.New(color.FgGreen).Fprintf(c.App.Writer, "Cleared cache: %s\n", cfg.Cache.Dir)
	return nil
}
