package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/logchange/logchange-go/internal/stats"
)

func sampleReport() *ChangelogReport {
	return &ChangelogReport{
		RepoPath:    "/repos/demo",
		Model:       "gpt-4",
		GeneratedAt: time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
		Entries: []Entry{
			{Hash: "abc1234", Date: "2025-03-02", Author: "Alice", Message: "add feature", Summary: "Adds the feature."},
			{Hash: "def5678", Date: "2025-03-01", Author: "Bob", Message: "fix | pipe", Summary: "Fixes a bug."},
			{Hash: "0a1b2c3", Date: "2025-03-01", Author: "Alice", Message: "cleanup", Summary: "Summary unavailable."},
		},
		Stats: &stats.Summary{
			TotalCommits: 3,
			Contributors: 2,
			DateRange:    "2025-03-01 to 2025-03-02",
			Model:        "gpt-4",
		},
	}
}

func writeToTemp(t *testing.T, w ReportWriter, report *ChangelogReport) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out")
	if err := w.Write(report, OutputOptions{OutputPath: path}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	return string(data)
}

func TestMarkdownWriter(t *testing.T) {
	content := writeToTemp(t, &MarkdownWriter{}, sampleReport())

	if !strings.HasPrefix(content, "# Changelog") {
		t.Errorf("markdown does not start with title:\n%s", content)
	}
	if !strings.Contains(content, "## Statistics") {
		t.Error("markdown missing statistics section")
	}
	if !strings.Contains(content, "- Total commits: 3") {
		t.Error("markdown missing total commits stat")
	}

	// Entries group under one heading per date.
	if strings.Count(content, "## 2025-03-01") != 1 {
		t.Errorf("expected exactly one heading for 2025-03-01:\n%s", content)
	}
	if strings.Count(content, "## 2025-03-02") != 1 {
		t.Errorf("expected exactly one heading for 2025-03-02:\n%s", content)
	}

	if !strings.Contains(content, "### abc1234") {
		t.Error("markdown missing commit heading")
	}
	if !strings.Contains(content, "**AI Summary:** Adds the feature.") {
		t.Error("markdown missing summary line")
	}
	// Pipe in the commit message is escaped.
	if !strings.Contains(content, `fix \| pipe`) {
		t.Errorf("markdown did not escape pipe in message:\n%s", content)
	}
}

func TestMarkdownWriter_NoStatsSection(t *testing.T) {
	report := sampleReport()
	report.Stats = nil

	content := writeToTemp(t, &MarkdownWriter{}, report)
	if strings.Contains(content, "## Statistics") {
		t.Error("statistics section present without stats")
	}
}

func TestJSONWriter(t *testing.T) {
	content := writeToTemp(t, &JSONWriter{}, sampleReport())

	var decoded JSONReport
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.GeneratedAt != "2025-03-02T09:00:00Z" {
		t.Errorf("generated_at = %q", decoded.GeneratedAt)
	}
	if decoded.Model != "gpt-4" {
		t.Errorf("model = %q, expected gpt-4", decoded.Model)
	}
	if len(decoded.Changelog) != 3 {
		t.Fatalf("changelog length = %d, expected 3", len(decoded.Changelog))
	}
	if decoded.Changelog[0].Hash != "abc1234" {
		t.Errorf("first hash = %q, expected abc1234", decoded.Changelog[0].Hash)
	}
	if decoded.Statistics == nil || decoded.Statistics.TotalCommits != 3 {
		t.Error("statistics missing or wrong in JSON output")
	}
}

func TestJSONWriter_EmptyChangelogIsArray(t *testing.T) {
	report := &ChangelogReport{GeneratedAt: time.Now()}
	content := writeToTemp(t, &JSONWriter{}, report)

	if !strings.Contains(content, `"changelog": []`) {
		t.Errorf("empty changelog should serialize as [], got:\n%s", content)
	}
}

func TestCSVWriter(t *testing.T) {
	content := writeToTemp(t, &CSVWriter{}, sampleReport())

	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("got %d rows, expected header + 3 entries", len(records))
	}
	header := strings.Join(records[0], ",")
	if header != "hash,date,author,message,summary" {
		t.Errorf("header = %q", header)
	}
	if records[2][3] != "fix | pipe" {
		t.Errorf("message round-trip = %q, expected %q", records[2][3], "fix | pipe")
	}
}

func TestNewReportWriter(t *testing.T) {
	tests := []struct {
		format   OutputFormat
		expected ReportWriter
	}{
		{FormatJSON, &JSONWriter{}},
		{FormatCSV, &CSVWriter{}},
		{FormatMarkdown, &MarkdownWriter{}},
		{FormatConsole, &ConsoleWriter{}},
		{OutputFormat("bogus"), &ConsoleWriter{}},
	}

	for _, tt := range tests {
		got := NewReportWriter(tt.format)
		if gotType, wantType := typeName(got), typeName(tt.expected); gotType != wantType {
			t.Errorf("NewReportWriter(%q) = %s, expected %s", tt.format, gotType, wantType)
		}
	}
}

func typeName(w ReportWriter) string {
	switch w.(type) {
	case *JSONWriter:
		return "JSONWriter"
	case *CSVWriter:
		return "CSVWriter"
	case *MarkdownWriter:
		return "MarkdownWriter"
	case *ConsoleWriter:
		return "ConsoleWriter"
	default:
		return "unknown"
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected OutputFormat
		ok       bool
	}{
		{"markdown", FormatMarkdown, true},
		{"md", FormatMarkdown, true},
		{"json", FormatJSON, true},
		{"csv", FormatCSV, true},
		{"console", FormatConsole, true},
		{"", FormatConsole, true},
		{"yaml", FormatConsole, false},
	}

	for _, tt := range tests {
		got, ok := ParseFormat(tt.input)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("ParseFormat(%q) = (%q, %v), expected (%q, %v)",
				tt.input, got, ok, tt.expected, tt.ok)
		}
	}
}
