package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/usms-records/internal/config"
	"github.com/pfrederiksen/usms-records/internal/logger"
	"github.com/pfrederiksen/usms-records/internal/scraper"
	"github.com/pfrederiksen/usms-records/internal/store"
)

func newScrapeCmd(cfg *config.Config) *cobra.Command {
	var (
		flagTeam      string
		flagLMSC      string
		flagYears     string
		flagCourses   []string
		flagOutput    string
		flagDelay     float64
		flagDebugHTML string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch top-ten results and write CSV tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			team, err := resolveTeam(flagTeam)
			if err != nil {
				return err
			}
			years, err := parseYears(flagYears)
			if err != nil {
				return err
			}

			st, err := store.New(flagOutput)
			if err != nil {
				return err
			}

			s := newScraper(cfg, team, flagLMSC, years, flagCourses, flagDelay, flagDebugHTML)
			results := s.Run(cmd.Context())

			saved, failed, err := saveResults(st, team, results)
			if err != nil {
				return err
			}

			fmt.Printf("Saved %d tables to %s (%d queries, %d failed)\n",
				saved, st.Dir(), len(results), failed)
			return nil
		},
	}

	defaultYears := fmt.Sprintf("2015-%d", time.Now().Year())

	cmd.Flags().StringVarP(&flagTeam, "team", "t", cfg.Team, "Team club abbreviation (e.g., COLM)")
	cmd.Flags().StringVar(&flagLMSC, "lmsc", cfg.LMSC, "LMSC identifier for the team")
	cmd.Flags().StringVarP(&flagYears, "years", "y", defaultYears, "Years to scrape: range (2015-2025) or list (2020,2022)")
	cmd.Flags().StringSliceVar(&flagCourses, "courses", cfg.Courses, "Course codes to scrape")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", cfg.CSVDir, "Directory for CSV tables")
	cmd.Flags().Float64VarP(&flagDelay, "delay", "d", cfg.DelaySeconds, "Seconds to pause between queries")
	cmd.Flags().StringVar(&flagDebugHTML, "debug-html", "", "Directory for raw page dumps (disabled when empty)")

	return cmd
}

// saveResults writes every successful non-empty partition to the store.
// Failed queries only count toward the failure total; partitions with no
// records are left alone so existing tables survive empty years.
func saveResults(st *store.Store, team string, results []scraper.Result) (saved, failed int, err error) {
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		if len(res.Records) == 0 {
			logger.Info("no records for partition", logger.Fields{
				"course": res.Course,
				"year":   res.Year,
			})
			continue
		}
		if err := st.Save(team, res.Course, strconv.Itoa(res.Year), res.Records); err != nil {
			return saved, failed, err
		}
		saved++
	}
	return saved, failed, nil
}

// parseYears expands a year spec into explicit years. "2015-2025" is an
// inclusive range; "2020,2022" is a list; a bare year is itself.
func parseYears(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty year spec")
	}

	if strings.Contains(spec, "-") && !strings.Contains(spec, ",") {
		parts := strings.SplitN(spec, "-", 2)
		start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid year spec %q", spec)
		}
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid year spec %q", spec)
		}
		if start > end {
			return nil, fmt.Errorf("invalid year range %q: start after end", spec)
		}
		years := make([]int, 0, end-start+1)
		for year := start; year <= end; year++ {
			years = append(years, year)
		}
		return years, nil
	}

	var years []int
	for _, token := range strings.Split(spec, ",") {
		year, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q in spec", token)
		}
		years = append(years, year)
	}
	return years, nil
}
