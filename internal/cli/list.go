package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/usms-records/internal/config"
	"github.com/pfrederiksen/usms-records/internal/filter"
	"github.com/pfrederiksen/usms-records/internal/logger"
	"github.com/pfrederiksen/usms-records/internal/record"
	"github.com/pfrederiksen/usms-records/internal/store"
)

func newListCmd(cfg *config.Config) *cobra.Command {
	var (
		flagInput     string
		flagCourses   []string
		flagGenders   []string
		flagEvents    []string
		flagAgeGroups []string
		flagYears     []string
		flagSwimmers  []string
		flagSort      string
		flagFormat    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored records with filtering and sorting",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(flagFormat)
			if err != nil {
				return err
			}
			order := SortOrder(strings.ToLower(strings.TrimSpace(flagSort)))
			switch order {
			case SortByEvent, SortByTime, SortBySwimmer:
			default:
				return fmt.Errorf("invalid sort: %s (must be 'event', 'time' or 'swimmer')", flagSort)
			}

			records, err := loadRecords(flagInput)
			if err != nil {
				return err
			}

			f := &filter.Filter{
				Courses:   flagCourses,
				Genders:   flagGenders,
				Events:    flagEvents,
				AgeGroups: flagAgeGroups,
				Years:     flagYears,
				Swimmers:  flagSwimmers,
			}
			records = f.Apply(records)
			sortRecords(records, order)

			return writeRecords(os.Stdout, records, format)
		},
	}

	cmd.Flags().StringVarP(&flagInput, "input", "i", cfg.CSVDir, "Directory of CSV tables to read")
	cmd.Flags().StringSliceVar(&flagCourses, "course", nil, "Filter by course (scy, scm, lcm)")
	cmd.Flags().StringSliceVar(&flagGenders, "gender", nil, "Filter by gender (men, women)")
	cmd.Flags().StringSliceVar(&flagEvents, "event", nil, "Filter by event name substring")
	cmd.Flags().StringSliceVar(&flagAgeGroups, "age-group", nil, "Filter by age group (e.g., 45-49)")
	cmd.Flags().StringSliceVar(&flagYears, "year", nil, "Filter by record year")
	cmd.Flags().StringSliceVar(&flagSwimmers, "swimmer", nil, "Filter by swimmer name substring")
	cmd.Flags().StringVar(&flagSort, "sort", "event", "Sort order: event, time or swimmer")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")

	return cmd
}

// loadRecords reads every table in dir and converts rows to canonical
// records, skipping rows that fail validation.
func loadRecords(dir string) ([]record.Record, error) {
	tables, err := store.ListTables(dir)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no CSV tables found in %s", dir)
	}

	var records []record.Record
	for _, table := range tables {
		rows, err := store.ReadTable(table)
		if err != nil {
			return nil, err
		}
		for _, raw := range rows {
			rec, err := record.New(raw)
			if err != nil {
				logger.Warn("skipping record", logger.Fields{
					"table":  filepath.Base(table),
					"reason": err.Error(),
				})
				continue
			}
			records = append(records, *rec)
		}
	}
	return records, nil
}
