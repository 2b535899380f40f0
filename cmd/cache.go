package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/logchange/logchange-go/internal/cache"
	"github.com/urfave/cli/v2"
)

// CacheCmd returns the cache maintenance command.
func CacheCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "cache-dir",
			Usage: "Directory for cached responses",
		},
		&cli.IntFlag{
			Name:  "cache-ttl",
			Usage: "Cache entry time-to-live in seconds",
		},
	}

	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the response cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache contents",
				Flags:  flags,
				Action: cacheStatsAction,
			},
			{
				Name:   "clear",
				Usage:  "Delete all cached responses",
				Flags:  flags,
				Action: cacheClearAction,
			},
			{
				Name:   "prune",
				Usage:  "Delete expired and corrupt cached responses",
				Flags:  flags,
				Action: cachePruneAction,
			},
		},
	}
}

func openCache(c *cli.Context) (*cache.Cache, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return cache.New(cfg.Cache.Dir, cfg.Cache.TTLSeconds)
}

func cacheStatsAction(c *cli.Context) error {
	responseCache, err := openCache(c)
	if err != nil {
		return err
	}

	stats := responseCache.GetStats()
	color.Green("Response cache")
	fmt.Printf("Directory: %s\n", stats.Dir)
	fmt.Printf("Entries: %d\n", stats.Entries)
	fmt.Printf("Total size: %d bytes\n", stats.TotalBytes)
	fmt.Printf("Expired: %d\n", stats.Expired)
	return nil
}

func cacheClearAction(c *cli.Context) error {
	responseCache, err := openCache(c)
	if err != nil {
		return err
	}

	count := responseCache.Clear()
	fmt.Printf("Removed %d cached response(s).\n", count)
	return nil
}

func cachePruneAction(c *cli.Context) error {
	responseCache, err := openCache(c)
	if err != nil {
		return err
	}

	count := responseCache.ClearExpired()
	fmt.Printf("Removed %d expired or corrupt cached response(s).\n", count)
	return nil
}
