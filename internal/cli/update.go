package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/usms-records/internal/config"
	"github.com/pfrederiksen/usms-records/internal/logger"
	"github.com/pfrederiksen/usms-records/internal/publish"
	"github.com/pfrederiksen/usms-records/internal/record"
	"github.com/pfrederiksen/usms-records/internal/scraper"
	"github.com/pfrederiksen/usms-records/internal/store"
	"github.com/pfrederiksen/usms-records/internal/transform"
)

func newUpdateCmd(cfg *config.Config) *cobra.Command {
	var (
		flagTeam      string
		flagLMSC      string
		flagCourses   []string
		flagOutput    string
		flagJSONOut   string
		flagWebData   string
		flagFirebase  bool
		flagDelay     float64
		flagDebugHTML string
		flagFormat    string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Refresh current-year records and republish on change",
		Long: `Scrapes the current year for each course, diffs the results against the
stored CSV tables, and rewrites only the tables that changed. When
anything changed, every table is re-transformed to JSON and the combined
file is copied to the web data directory.

Exit code 2 means changes were applied, 0 means everything was already
current.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			team, err := resolveTeam(flagTeam)
			if err != nil {
				return err
			}
			format, err := parseFormat(flagFormat)
			if err != nil {
				return err
			}

			st, err := store.New(flagOutput)
			if err != nil {
				return err
			}

			year := time.Now().Year()
			s := newScraper(cfg, team, flagLMSC, []int{year}, flagCourses, flagDelay, flagDebugHTML)
			results := s.Run(cmd.Context())

			report, err := applyResults(st, team, year, results)
			if err != nil {
				return err
			}

			if report.Changed {
				combined, err := regenerateOutputs(st, team, flagJSONOut, cfg.Collection, flagFirebase)
				if err != nil {
					return err
				}
				if _, err := publish.New(flagWebData).Publish(combined); err != nil {
					return err
				}
			}

			if err := WriteUpdateReport(os.Stdout, report, format); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}

			if report.Changed {
				os.Exit(ExitChanges)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flagTeam, "team", "t", cfg.Team, "Team club abbreviation (e.g., COLM)")
	cmd.Flags().StringVar(&flagLMSC, "lmsc", cfg.LMSC, "LMSC identifier for the team")
	cmd.Flags().StringSliceVar(&flagCourses, "courses", cfg.Courses, "Course codes to refresh")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", cfg.CSVDir, "Directory for CSV tables")
	cmd.Flags().StringVar(&flagJSONOut, "json-output", cfg.JSONDir, "Directory for JSON outputs")
	cmd.Flags().StringVar(&flagWebData, "web-data", cfg.WebDataDir, "Directory the combined JSON is published to")
	cmd.Flags().BoolVarP(&flagFirebase, "firebase", "f", false, "Also write the Firebase import bundle")
	cmd.Flags().Float64VarP(&flagDelay, "delay", "d", cfg.DelaySeconds, "Seconds to pause between queries")
	cmd.Flags().StringVar(&flagDebugHTML, "debug-html", "", "Directory for raw page dumps (disabled when empty)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")

	return cmd
}

// applyResults diffs each scraped partition against its stored table and
// rewrites the tables that changed. Failed partitions are skipped and
// never touch stored data.
func applyResults(st *store.Store, team string, year int, results []scraper.Result) (*UpdateReport, error) {
	report := &UpdateReport{
		Team:      team,
		Year:      year,
		CheckedAt: time.Now().UTC(),
	}
	yearStr := strconv.Itoa(year)

	for _, res := range results {
		if res.Err != nil {
			report.Partitions = append(report.Partitions, PartitionReport{
				Course:  res.Course,
				Skipped: true,
				Error:   res.Err.Error(),
			})
			continue
		}

		existing, err := st.Load(team, res.Course, yearStr)
		if err != nil {
			return nil, err
		}

		diff := record.Diff(existing, res.Records)
		part := PartitionReport{
			Course:  res.Course,
			Changed: !diff.Unchanged(),
			Added:   diff.Added,
			Updated: diff.Updated,
			Removed: diff.Removed,
		}
		if part.Changed {
			if err := st.Save(team, res.Course, yearStr, res.Records); err != nil {
				return nil, err
			}
			report.Changed = true
			logger.Info("partition updated", logger.Fields{
				"course":  res.Course,
				"year":    year,
				"added":   len(diff.Added),
				"updated": len(diff.Updated),
				"removed": diff.Removed,
			})
		}
		report.Partitions = append(report.Partitions, part)
	}
	return report, nil
}

// regenerateOutputs rebuilds every JSON output from the store's tables
// and returns the combined file path.
func regenerateOutputs(st *store.Store, team, jsonDir, collection string, firebase bool) (string, error) {
	tables, err := st.List()
	if err != nil {
		return "", err
	}
	if len(tables) == 0 {
		return "", fmt.Errorf("no CSV tables found in %s", st.Dir())
	}

	combined := filepath.Join(jsonDir, fmt.Sprintf("%s_all_records.json", team))
	docs, err := transform.ConvertAll(tables, jsonDir, combined, true)
	if err != nil {
		return "", err
	}

	if firebase {
		bundle := filepath.Join(jsonDir, fmt.Sprintf("%s_firebase_import.json", team))
		if err := store.WriteDocumentBundle(docs, bundle, collection); err != nil {
			return "", err
		}
	}
	return combined, nil
}
