package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/usms-records/internal/config"
	"github.com/pfrederiksen/usms-records/internal/store"
	"github.com/pfrederiksen/usms-records/internal/transform"
)

func newTransformCmd(cfg *config.Config) *cobra.Command {
	var (
		flagInput      string
		flagOutput     string
		flagTeam       string
		flagCombine    bool
		flagFirebase   bool
		flagNDJSON     bool
		flagMinify     bool
		flagCollection string
	)

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Convert CSV tables to JSON documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(flagInput) == "" {
				return fmt.Errorf("--input is required")
			}
			team := strings.TrimSpace(flagTeam)
			if team == "" {
				team = "team"
			}

			info, err := os.Stat(flagInput)
			if err != nil {
				return fmt.Errorf("input %s: %w", flagInput, err)
			}

			var tables []string
			if info.IsDir() {
				tables, err = store.ListTables(flagInput)
				if err != nil {
					return err
				}
				if len(tables) == 0 {
					return fmt.Errorf("no CSV tables found in %s", flagInput)
				}
			} else {
				tables = []string{flagInput}
			}

			pretty := !flagMinify
			var combined string
			if flagCombine {
				combined = filepath.Join(flagOutput, fmt.Sprintf("%s_all_records.json", team))
			}

			docs, err := transform.ConvertAll(tables, flagOutput, combined, pretty)
			if err != nil {
				return err
			}

			if flagFirebase {
				bundle := filepath.Join(flagOutput, fmt.Sprintf("%s_firebase_import.json", team))
				if err := store.WriteDocumentBundle(docs, bundle, flagCollection); err != nil {
					return err
				}
			}
			if flagNDJSON {
				stream := filepath.Join(flagOutput, fmt.Sprintf("%s_records.ndjson", team))
				if err := store.WriteStreaming(docs, stream); err != nil {
					return err
				}
			}

			fmt.Printf("Transformed %d records from %d tables into %s\n",
				len(docs), len(tables), flagOutput)
			return nil
		},
	}

	defaultTeam := cfg.Team
	if defaultTeam == "" {
		defaultTeam = "team"
	}

	cmd.Flags().StringVarP(&flagInput, "input", "i", "", "CSV file or directory to convert (required)")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", cfg.JSONDir, "Directory for JSON outputs")
	cmd.Flags().StringVarP(&flagTeam, "team", "t", defaultTeam, "Team name used in output file names")
	cmd.Flags().BoolVarP(&flagCombine, "combine", "c", false, "Also combine all records into one array")
	cmd.Flags().BoolVarP(&flagFirebase, "firebase", "f", false, "Also write the Firebase import bundle")
	cmd.Flags().BoolVarP(&flagNDJSON, "ndjson", "n", false, "Also write newline-delimited JSON")
	cmd.Flags().BoolVarP(&flagMinify, "minify", "m", false, "Write compact JSON instead of indented")
	cmd.Flags().StringVar(&flagCollection, "collection", cfg.Collection, "Collection name for the Firebase bundle")

	return cmd
}
