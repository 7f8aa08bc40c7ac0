package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/usms-records/internal/config"
	"github.com/pfrederiksen/usms-records/internal/store"
	"github.com/pfrederiksen/usms-records/internal/transform"
)

func newAllCmd(cfg *config.Config) *cobra.Command {
	var (
		flagTeam      string
		flagLMSC      string
		flagYears     string
		flagCourses   []string
		flagCSVOut    string
		flagJSONOut   string
		flagDelay     float64
		flagDebugHTML string
		flagFirebase  bool
		flagNDJSON    bool
		flagMinify    bool
	)

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Scrape and transform in one pass",
		Long: `Runs a full build: scrapes every year and course, writes the CSV
tables, then converts everything to JSON including the combined array.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			team, err := resolveTeam(flagTeam)
			if err != nil {
				return err
			}
			years, err := parseYears(flagYears)
			if err != nil {
				return err
			}

			st, err := store.New(flagCSVOut)
			if err != nil {
				return err
			}

			s := newScraper(cfg, team, flagLMSC, years, flagCourses, flagDelay, flagDebugHTML)
			results := s.Run(cmd.Context())

			saved, failed, err := saveResults(st, team, results)
			if err != nil {
				return err
			}

			tables, err := st.List()
			if err != nil {
				return err
			}
			if len(tables) == 0 {
				return fmt.Errorf("no CSV tables found in %s", st.Dir())
			}

			pretty := !flagMinify
			combined := filepath.Join(flagJSONOut, fmt.Sprintf("%s_all_records.json", team))
			docs, err := transform.ConvertAll(tables, flagJSONOut, combined, pretty)
			if err != nil {
				return err
			}

			if flagFirebase {
				bundle := filepath.Join(flagJSONOut, fmt.Sprintf("%s_firebase_import.json", team))
				if err := store.WriteDocumentBundle(docs, bundle, cfg.Collection); err != nil {
					return err
				}
			}
			if flagNDJSON {
				stream := filepath.Join(flagJSONOut, fmt.Sprintf("%s_records.ndjson", team))
				if err := store.WriteStreaming(docs, stream); err != nil {
					return err
				}
			}

			fmt.Printf("Saved %d tables (%d queries, %d failed) and %d records to %s\n",
				saved, len(results), failed, len(docs), flagJSONOut)
			return nil
		},
	}

	defaultYears := fmt.Sprintf("2015-%d", time.Now().Year())

	cmd.Flags().StringVarP(&flagTeam, "team", "t", cfg.Team, "Team club abbreviation (e.g., COLM)")
	cmd.Flags().StringVar(&flagLMSC, "lmsc", cfg.LMSC, "LMSC identifier for the team")
	cmd.Flags().StringVarP(&flagYears, "years", "y", defaultYears, "Years to scrape: range (2015-2025) or list (2020,2022)")
	cmd.Flags().StringSliceVar(&flagCourses, "courses", cfg.Courses, "Course codes to scrape")
	cmd.Flags().StringVar(&flagCSVOut, "csv-output", cfg.CSVDir, "Directory for CSV tables")
	cmd.Flags().StringVar(&flagJSONOut, "json-output", cfg.JSONDir, "Directory for JSON outputs")
	cmd.Flags().Float64VarP(&flagDelay, "delay", "d", cfg.DelaySeconds, "Seconds to pause between queries")
	cmd.Flags().StringVar(&flagDebugHTML, "debug-html", "", "Directory for raw page dumps (disabled when empty)")
	cmd.Flags().BoolVarP(&flagFirebase, "firebase", "f", false, "Also write the Firebase import bundle")
	cmd.Flags().BoolVarP(&flagNDJSON, "ndjson", "n", false, "Also write newline-delimited JSON")
	cmd.Flags().BoolVarP(&flagMinify, "minify", "m", false, "Write compact JSON instead of indented")

	return cmd
}
