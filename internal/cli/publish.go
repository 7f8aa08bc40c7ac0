package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/usms-records/internal/config"
	"github.com/pfrederiksen/usms-records/internal/publish"
	"github.com/pfrederiksen/usms-records/internal/store"
)

func newPublishCmd(cfg *config.Config) *cobra.Command {
	var (
		flagTeam     string
		flagInput    string
		flagJSONOut  string
		flagWebData  string
		flagFirebase bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Regenerate JSON outputs and ship the combined file",
		Long: `Rebuilds every JSON output from the stored CSV tables and copies the
combined file into the web data directory, without scraping. Useful to
repair a half-finished update or after editing tables by hand.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			team, err := resolveTeam(flagTeam)
			if err != nil {
				return err
			}

			st, err := store.New(flagInput)
			if err != nil {
				return err
			}

			combined, err := regenerateOutputs(st, team, flagJSONOut, cfg.Collection, flagFirebase)
			if err != nil {
				return err
			}

			dest, err := publish.New(flagWebData).Publish(combined)
			if err != nil {
				return err
			}

			fmt.Printf("Published %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flagTeam, "team", "t", cfg.Team, "Team club abbreviation (e.g., COLM)")
	cmd.Flags().StringVarP(&flagInput, "input", "i", cfg.CSVDir, "Directory of CSV tables to regenerate from")
	cmd.Flags().StringVar(&flagJSONOut, "json-output", cfg.JSONDir, "Directory for JSON outputs")
	cmd.Flags().StringVar(&flagWebData, "web-data", cfg.WebDataDir, "Directory the combined JSON is published to")
	cmd.Flags().BoolVarP(&flagFirebase, "firebase", "f", false, "Also write the Firebase import bundle")

	return cmd
}
