package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/logchange/logchange-go/config"
	"github.com/logchange/logchange-go/internal/output"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "logchange",
		Usage:   "AI-powered changelog generator for Git repositories",
		Version: "1.0.0",
		Commands: []*cli.Command{
			GenerateCmd(),
			CommitMsgCmd(),
			CacheCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
		},
		Action: defaultAction,
	}
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path",
			Value:   "changelog.md",
		},
		&cli.IntFlag{
			Name:    "max-commits",
			Aliases: []string{"n"},
			Usage:   "Number of recent commits to include",
			Value:   50,
		},
		&cli.StringFlag{
			Name:    "branch",
			Aliases: []string{"b"},
			Usage:   "Branch to read (default: HEAD)",
		},
		&cli.StringFlag{
			Name:  "since",
			Usage: "Only include commits after this date (YYYY-MM-DD or RFC 3339)",
		},
		&cli.StringFlag{
			Name:  "until",
			Usage: "Only include commits before this date (YYYY-MM-DD or RFC 3339)",
		},
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Text generation provider",
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Model to use (default: gpt-4, or OPENAI_MODEL env var)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (markdown, json, csv, console)",
		},
		&cli.IntFlag{
			Name:  "max-tokens",
			Usage: "Maximum tokens per summary",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns to include in diffs (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns to exclude from diffs (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:  "cache-dir",
			Usage: "Directory for cached responses",
		},
		&cli.IntFlag{
			Name:  "cache-ttl",
			Usage: "Cache entry time-to-live in seconds",
		},
		&cli.IntFlag{
			Name:  "rate-limit",
			Usage: "Maximum API calls per minute",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Bypass the response cache",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Show progress information",
		},
		&cli.BoolFlag{
			Name:  "stats",
			Usage: "Include statistics in output",
		},
	}
}

// loadConfig loads configuration from file or defaults and applies
// CLI flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyFlagOverrides(cfg, c)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyFlagOverrides copies explicitly set CLI flags over config values.
func applyFlagOverrides(cfg *config.Config, c *cli.Context) {
	if c.IsSet("repo") {
		cfg.RepoPath = c.String("repo")
	}
	if c.IsSet("output") {
		cfg.OutputPath = c.String("output")
	}
	if c.IsSet("max-commits") {
		cfg.MaxCommits = c.Int("max-commits")
	}
	if c.IsSet("provider") {
		cfg.Provider = c.String("provider")
	}
	if c.IsSet("model") {
		cfg.Model = c.String("model")
	}
	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if c.IsSet("max-tokens") {
		cfg.MaxTokens = c.Int("max-tokens")
	}
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}
	if c.IsSet("cache-dir") {
		cfg.Cache.Dir = c.String("cache-dir")
	}
	if c.IsSet("cache-ttl") {
		cfg.Cache.TTLSeconds = c.Int("cache-ttl")
	}
	if c.IsSet("rate-limit") {
		cfg.RateLimit.CallsPerMinute = c.Int("rate-limit")
	}
	if c.IsSet("verbose") {
		cfg.Verbose = c.Bool("verbose")
	}
	if c.IsSet("stats") {
		cfg.Stats = c.Bool("stats")
	}
}

// parseTimeFlag parses a date-bound flag value. Empty values mean no bound.
func parseTimeFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q (use YYYY-MM-DD or RFC 3339)", value)
}

// getOutputFormat parses the output format setting, failing on unknown values.
func getOutputFormat(s string) (output.OutputFormat, error) {
	format, ok := output.ParseFormat(s)
	if !ok {
		return "", fmt.Errorf("unknown format: %s (choose from markdown, json, csv, console)", s)
	}
	return format, nil
}

// defaultAction handles the default command behavior. A repository path
// given as the first argument runs generation against it.
func defaultAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}
	return GenerateCmd().Action(c)
}

// Run executes the CLI application. Configuration errors exit with
// status 1; interruption exits with status 130.
func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := App().RunContext(ctx, os.Args); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled by user.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
