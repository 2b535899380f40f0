package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// MarkdownWriter writes changelog reports as Markdown.
type MarkdownWriter struct{}

// Write outputs the changelog as a date-grouped Markdown document.
func (w *MarkdownWriter) Write(report *ChangelogReport, options OutputOptions) error {
	out, file, err := createWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Changelog")
	fmt.Fprintln(out)

	if report.Stats != nil {
		fmt.Fprintln(out, "## Statistics")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "- Total commits: %d\n", report.Stats.TotalCommits)
		fmt.Fprintf(out, "- Date range: %s\n", report.Stats.DateRange)
		fmt.Fprintf(out, "- Contributors: %d\n", report.Stats.Contributors)
		fmt.Fprintf(out, "- Model used: %s\n", report.Stats.Model)
		fmt.Fprintln(out)
	}

	currentDate := ""
	for _, entry := range report.Entries {
		if entry.Date != currentDate {
			currentDate = entry.Date
			fmt.Fprintf(out, "## %s\n\n", currentDate)
		}

		fmt.Fprintf(out, "### %s\n", entry.Hash)
		fmt.Fprintf(out, "**Author:** %s\n\n", entry.Author)
		fmt.Fprintf(out, "**Commit Message:** %s\n\n", escapeMarkdown(entry.Message))
		fmt.Fprintf(out, "**AI Summary:** %s\n\n", entry.Summary)
	}

	return nil
}

func createWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return file, file, nil
	}
	return os.Stdout, nil, nil
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
