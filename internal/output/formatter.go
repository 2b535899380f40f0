package output

import (
	"time"

	"github.com/logchange/logchange-go/internal/stats"
)

// Compile-time interface conformance checks.
var (
	_ ReportWriter = (*ConsoleWriter)(nil)
	_ ReportWriter = (*JSONWriter)(nil)
	_ ReportWriter = (*CSVWriter)(nil)
	_ ReportWriter = (*MarkdownWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string // empty writes to stdout
}

// Entry is one changelog line item.
type Entry struct {
	Hash    string `json:"hash"`
	Date    string `json:"date"`
	Author  string `json:"author"`
	Message string `json:"message"`
	Summary string `json:"summary"`
}

// ChangelogReport holds an assembled changelog ready for formatting.
type ChangelogReport struct {
	RepoPath    string
	Model       string
	GeneratedAt time.Time
	Entries     []Entry
	Stats       *stats.Summary // optional
}

// ReportWriter writes changelog reports.
type ReportWriter interface {
	Write(report *ChangelogReport, options OutputOptions) error
}

// NewReportWriter creates a report writer for the specified format.
func NewReportWriter(format OutputFormat) ReportWriter {
	switch format {
	case FormatJSON:
		return &JSONWriter{}
	case FormatCSV:
		return &CSVWriter{}
	case FormatMarkdown:
		return &MarkdownWriter{}
	default:
		return &ConsoleWriter{}
	}
}

// ParseFormat maps a format flag value to an OutputFormat.
// Unrecognized values report ok=false.
func ParseFormat(s string) (OutputFormat, bool) {
	switch s {
	case "markdown", "md":
		return FormatMarkdown, true
	case "json":
		return FormatJSON, true
	case "csv":
		return FormatCSV, true
	case "console", "":
		return FormatConsole, true
	default:
		return FormatConsole, false
	}
}
