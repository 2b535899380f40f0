package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/logchange/logchange-go/internal/stats"
)

// JSONWriter writes changelog reports as JSON.
type JSONWriter struct{}

// JSONReport is the JSON output envelope.
type JSONReport struct {
	GeneratedAt string         `json:"generated_at"`
	RepoPath    string         `json:"repo"`
	Model       string         `json:"model"`
	Changelog   []Entry        `json:"changelog"`
	Statistics  *stats.Summary `json:"statistics,omitempty"`
}

// Write outputs the changelog report as indented JSON.
func (w *JSONWriter) Write(report *ChangelogReport, options OutputOptions) error {
	entries := report.Entries
	if entries == nil {
		entries = []Entry{}
	}

	jsonReport := JSONReport{
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		RepoPath:    report.RepoPath,
		Model:       report.Model,
		Changelog:   entries,
		Statistics:  report.Stats,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

func writeJSON(data interface{}, outputPath string) error {
	encoder := json.NewEncoder(os.Stdout)
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		encoder = json.NewEncoder(file)
	}

	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
