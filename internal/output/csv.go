package output

import (
	"encoding/csv"
	"os"
)

// CSVWriter writes changelog reports as CSV.
type CSVWriter struct{}

// Write outputs the changelog report as CSV with a fixed header.
func (w *CSVWriter) Write(report *ChangelogReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	if err := writer.Write([]string{"hash", "date", "author", "message", "summary"}); err != nil {
		return err
	}

	for _, entry := range report.Entries {
		row := []string{entry.Hash, entry.Date, entry.Author, entry.Message, entry.Summary}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return csv.NewWriter(file), file, nil
	}
	return csv.NewWriter(os.Stdout), nil, nil
}
