package output

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ConsoleWriter writes changelog reports to the console.
type ConsoleWriter struct{}

// Write outputs the changelog report as a colored table.
func (w *ConsoleWriter) Write(report *ChangelogReport, options OutputOptions) error {
	color.Green("Changelog")
	fmt.Printf("Repository: %s\n", report.RepoPath)
	fmt.Printf("Model: %s\n", report.Model)
	fmt.Printf("Total commits: %d\n\n", len(report.Entries))

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tHash\tDate\tAuthor\tSummary")

	for i, entry := range report.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			i+1,
			entry.Hash,
			entry.Date,
			entry.Author,
			truncateText(entry.Summary, 72),
		)
	}

	tw.Flush()

	if report.Stats != nil {
		fmt.Println()
		color.Green("Statistics")
		fmt.Printf("Contributors: %d\n", report.Stats.Contributors)
		fmt.Printf("Date range: %s\n", report.Stats.DateRange)
		for _, c := range report.Stats.TopContributors {
			fmt.Printf("  %s: %d commit(s)\n", c.Name, c.Commits)
		}
	}

	return nil
}

func truncateText(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
