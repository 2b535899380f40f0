package cmd

import (
	"fmt"
	"strings"

	"github.com/logchange/logchange-go/internal/git"
	"github.com/logchange/logchange-go/internal/summarize"
	"github.com/urfave/cli/v2"
)

// messageErrorLogFile collects provider failures for commit message runs.
const messageErrorLogFile = "commit_msg_errors.log"

// CommitMsgCmd returns the commit message generation command.
func CommitMsgCmd() *cli.Command {
	return &cli.Command{
		Name:  "commit-msg",
		Usage: "Generate an AI-powered commit message from git diffs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Usage:   "Path to Git repository",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  "commit",
				Usage: "Commit hash to regenerate a message for",
			},
			&cli.BoolFlag{
				Name:  "staged",
				Usage: "Generate a message for staged changes only",
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
				Name:  "style",
				Usage: "Message style (conventional, concise, detailed)",
				Value: "conventional",
			},
			&cli.IntFlag{
				Name:  "max-length",
				Usage: "Maximum length for the subject line",
				Value: 72,
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
		},
		Action: commitMsgAction,
	}
}

func commitMsgAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.NArg() > 0 {
		cfg.RepoPath = c.Args().First()
	}

	gen, err := summarize.NewGenerator(cfg.Provider, cfg.Model)
	if err != nil {
		return err
	}

	var diff, originalMessage string
	if rev := c.String("commit"); rev != "" {
		reader, err := git.NewHistoryReader(git.ReadOptions{RepoPath: cfg.RepoPath})
		if err != nil {
			return fmt.Errorf("failed to open repository: %w", err)
		}
		rec, err := reader.CommitByHash(rev)
		if err != nil {
			return fmt.Errorf("failed to resolve commit: %w", err)
		}
		diff = rec.Diff
		originalMessage = rec.Message
	} else {
		diff, err = git.WorktreeDiff(c.Context, cfg.RepoPath, c.Bool("staged"))
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(diff) == "" {
		return fmt.Errorf("no changes detected")
	}

	summarizer, closeLog := newSummarizer(gen, cfg, c.Bool("no-cache"), messageErrorLogFile)
	defer closeLog()

	message, err := summarizer.CommitMessage(c.Context, summarize.MessageRequest{
		Diff:            diff,
		OriginalMessage: originalMessage,
		Style:           c.String("style"),
		MaxLength:       c.Int("max-length"),
	})
	if err != nil {
		return err
	}

	fmt.Println(message)
	if originalMessage != "" {
		fmt.Println("\n" + strings.Repeat("=", 50))
		fmt.Println("Original message:")
		fmt.Println(originalMessage)
	}
	return nil
}
