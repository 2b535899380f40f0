package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/logchange/logchange-go/config"
	"github.com/logchange/logchange-go/internal/cache"
	"github.com/logchange/logchange-go/internal/git"
	"github.com/logchange/logchange-go/internal/output"
	"github.com/logchange/logchange-go/internal/ratelimit"
	"github.com/logchange/logchange-go/internal/stats"
	"github.com/logchange/logchange-go/internal/summarize"
	"github.com/urfave/cli/v2"
)

// errorLogFile collects provider failures without cluttering the console.
const errorLogFile = "changelog_errors.log"

// GenerateCmd returns the generate command.
func GenerateCmd() *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"g"},
		Usage:   "Generate an AI-powered changelog from git commits",
		Flags:   commonFlags(),
		Action:  generateAction,
	}
}

func generateAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// A bare repository path argument overrides the flag.
	if c.NArg() > 0 {
		cfg.RepoPath = c.Args().First()
	}

	format, err := getOutputFormat(cfg.Format)
	if err != nil {
		return err
	}

	// The provider is constructed before any work happens so that a
	// missing API key fails fast with no partial output.
	gen, err := summarize.NewGenerator(cfg.Provider, cfg.Model)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		fmt.Printf("Fetching up to %d commits from %s...\n", cfg.MaxCommits, cfg.RepoPath)
	}

	since, err := parseTimeFlag(c.String("since"))
	if err != nil {
		return err
	}
	until, err := parseTimeFlag(c.String("until"))
	if err != nil {
		return err
	}

	reader, err := git.NewHistoryReader(git.ReadOptions{
		RepoPath:   cfg.RepoPath,
		Branch:     c.String("branch"),
		MaxCommits: cfg.MaxCommits,
		Since:      since,
		Until:      until,
		Include:    cfg.Filters.Include,
		Exclude:    cfg.Filters.Exclude,
	})
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	records, err := reader.ReadCommits()
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no commits found")
	}

	summarizer, closeLog := newSummarizer(gen, cfg, c.Bool("no-cache"), errorLogFile)
	defer closeLog()

	if cfg.Verbose {
		fmt.Printf("Generating summaries using %s...\n", cfg.Model)
	}

	entries := make([]output.Entry, 0, len(records))
	for i, rec := range records {
		if cfg.Verbose {
			fmt.Printf("Processing commit %d/%d: %s\r", i+1, len(records), rec.ShortSHA())
		}
		summary, err := summarizer.Summarize(c.Context, rec)
		if err != nil {
			return err
		}
		entries = append(entries, output.Entry{
			Hash:    rec.ShortSHA(),
			Date:    rec.Date(),
			Author:  rec.Author.Name,
			Message: rec.Message,
			Summary: summary,
		})
	}
	if cfg.Verbose {
		fmt.Println()
	}

	var summary *stats.Summary
	if cfg.Stats {
		summary = stats.Calculate(records, cfg.Model)
		if cfg.Verbose {
			fmt.Println("\nStatistics:")
			fmt.Printf("  Total commits: %d\n", summary.TotalCommits)
			fmt.Printf("  Contributors: %d\n", summary.Contributors)
			fmt.Printf("  Date range: %s\n", summary.DateRange)
			fmt.Printf("  Model: %s\n", summary.Model)
		}
	}

	report := &output.ChangelogReport{
		RepoPath:    cfg.RepoPath,
		Model:       cfg.Model,
		GeneratedAt: time.Now(),
		Entries:     entries,
		Stats:       summary,
	}

	outputPath := cfg.OutputPath
	if format == output.FormatConsole {
		outputPath = ""
	}

	writer := output.NewReportWriter(format)
	if err := writer.Write(report, output.OutputOptions{
		Format:     format,
		OutputPath: outputPath,
	}); err != nil {
		return err
	}

	if outputPath != "" {
		color.Green("\n✓ Changelog generated and saved to '%s'", outputPath)
	}
	return nil
}

// newSummarizer wires the cache, limiter and error log into the engine.
// The returned closer flushes the error log file.
func newSummarizer(gen summarize.Generator, cfg *config.Config, noCache bool, logPath string) (*summarize.Summarizer, func()) {
	var responseCache *cache.Cache
	if !noCache {
		ignorePath := filepath.Join(cfg.RepoPath, ".gitignore")
		c, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTLSeconds, cache.WithIgnoreFile(ignorePath))
		if err != nil {
			// Caching is best-effort: degrade to uncached operation.
			fmt.Fprintf(os.Stderr, "Warning: response cache disabled: %v\n", err)
		} else {
			responseCache = c
		}
	}

	errLog := log.New(os.Stderr, "", log.LstdFlags)
	closeLog := func() {}
	if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
		errLog = log.New(f, "", log.LstdFlags)
		closeLog = func() { f.Close() }
	}

	s := summarize.New(gen, summarize.Options{
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Cache:     responseCache,
		Limiter:   ratelimit.New(cfg.RateLimit.CallsPerMinute),
		ErrorLog:  errLog,
	})
	return s, closeLog
}
