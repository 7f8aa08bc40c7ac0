package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/usms-records/internal/record"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
}

// PartitionReport describes what an update run did for one course
// partition of the current year.
type PartitionReport struct {
	Course  string          `json:"course"`
	Changed bool            `json:"changed"`
	Added   []record.Raw    `json:"added,omitempty"`
	Updated []record.Update `json:"updated,omitempty"`
	Removed int             `json:"removed,omitempty"`
	Skipped bool            `json:"skipped,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// UpdateReport is the outcome of one update run.
type UpdateReport struct {
	Team       string            `json:"team"`
	Year       int               `json:"year"`
	CheckedAt  time.Time         `json:"checked_at"`
	Partitions []PartitionReport `json:"partitions"`
	Changed    bool              `json:"changed"`
}

// WriteUpdateReport writes the update outcome in the specified format
func WriteUpdateReport(w io.Writer, report *UpdateReport, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatText:
		return writeUpdateText(w, report)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs a value as indented JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeUpdateText outputs the update report as human-readable text
func writeUpdateText(w io.Writer, report *UpdateReport) error {
	fmt.Fprintf(w, "%s %d update:\n", report.Team, report.Year)

	totalAdded, totalUpdated, totalRemoved := 0, 0, 0
	for _, p := range report.Partitions {
		if p.Skipped {
			fmt.Fprintf(w, "\n%s: skipped (%s)\n", p.Course, p.Error)
			continue
		}
		if !p.Changed {
			fmt.Fprintf(w, "\n%s: no changes\n", p.Course)
			continue
		}

		fmt.Fprintf(w, "\n%s (%d added, %d updated, %d removed):\n",
			p.Course, len(p.Added), len(p.Updated), p.Removed)
		for _, row := range p.Added {
			fmt.Fprintf(w, "  NEW: %s\n", formatRow(row))
		}
		for _, u := range p.Updated {
			fmt.Fprintf(w, "  CHANGED: %s (was %s %s)\n",
				formatRow(u.Row), u.Previous.Time, u.Previous.Swimmer)
		}

		totalAdded += len(p.Added)
		totalUpdated += len(p.Updated)
		totalRemoved += p.Removed
	}

	if !report.Changed {
		fmt.Fprintf(w, "\nNo changes detected.\n")
		return nil
	}
	fmt.Fprintf(w, "\nTotal: %d added, %d updated, %d removed\n",
		totalAdded, totalUpdated, totalRemoved)
	return nil
}

// formatRow renders one raw row for the text report
func formatRow(row record.Raw) string {
	s := fmt.Sprintf("%s %s %s #%s %s %s",
		row.Event, row.Gender, row.AgeGroup, row.Rank, row.Time, row.Swimmer)
	if row.Meet != "" {
		s += fmt.Sprintf(" (%s)", row.Meet)
	}
	return s
}

// writeRecords writes canonical records as text lines or a JSON array
func writeRecords(w io.Writer, records []record.Record, format OutputFormat) error {
	if format == FormatJSON {
		if records == nil {
			records = []record.Record{}
		}
		return writeJSON(w, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return nil
	}

	for _, rec := range records {
		line := fmt.Sprintf("[%s %s %s] %s  %s  %s",
			rec.Course, rec.Gender, rec.AgeGroup, rec.Event, rec.Time, rec.Swimmer)
		switch {
		case rec.Year != "" && rec.Meet != "":
			line += fmt.Sprintf(" (%s, %s)", rec.Year, rec.Meet)
		case rec.Year != "":
			line += fmt.Sprintf(" (%s)", rec.Year)
		case rec.Meet != "":
			line += fmt.Sprintf(" (%s)", rec.Meet)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\nTotal: %d records\n", len(records))
	return nil
}
