package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/usms-records/internal/config"
	"github.com/pfrederiksen/usms-records/internal/logger"
	"github.com/pfrederiksen/usms-records/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitChanges = 2
)

// NewRootCmd creates the root command with all subcommands attached.
// Flag defaults are seeded from the loaded configuration, so file and
// environment values show up in --help and flags override them.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	var flagVerbose bool

	cmd := &cobra.Command{
		Use:   "usms-records",
		Short: "Track and publish USMS team swimming records",
		Long: `A CLI tool to scrape USMS top-ten results for a masters team, keep
them in CSV tables, and publish normalized JSON for the team website.
The update command diffs fresh results against the stored tables and
republishes only when something changed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logger.ParseLevel(cfg.LogLevel)
			if flagVerbose {
				level = logger.LevelDebug
			}
			logger.SetDefault(logger.New(level, os.Stderr).With(logger.Fields{
				"run_id": uuid.New().String(),
			}))
		},
	}

	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newScrapeCmd(cfg),
		newTransformCmd(cfg),
		newUpdateCmd(cfg),
		newPublishCmd(cfg),
		newAllCmd(cfg),
		newListCmd(cfg),
	)

	return cmd
}

// Execute runs the CLI.
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}

	if err := NewRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

// resolveTeam normalizes the team abbreviation used in queries, table
// names and document IDs.
func resolveTeam(team string) (string, error) {
	team = strings.ToUpper(strings.TrimSpace(team))
	if team == "" {
		return "", fmt.Errorf("--team is required (or set USMS_TEAM)")
	}
	return team, nil
}

// normalizeCourses uppercases course codes and drops empty entries.
func normalizeCourses(courses []string) []string {
	var out []string
	for _, course := range courses {
		course = strings.ToUpper(strings.TrimSpace(course))
		if course != "" {
			out = append(out, course)
		}
	}
	return out
}

func newScraperClient(cfg *config.Config) *scraper.Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	return scraper.NewClient(cfg.BaseURL, timeout, cfg.MaxRetries)
}

// newScraper assembles a scraper for the given plan with the HTTP client
// configured from cfg.
func newScraper(cfg *config.Config, team, lmsc string, years []int, courses []string, delaySeconds float64, debugDir string) *scraper.Scraper {
	return scraper.New(scraper.Config{
		Team:     team,
		LMSC:     lmsc,
		Years:    years,
		Courses:  normalizeCourses(courses),
		Delay:    time.Duration(delaySeconds * float64(time.Second)),
		DebugDir: debugDir,
	}, newScraperClient(cfg))
}
