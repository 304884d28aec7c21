package main

import (
	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the outreach pipeline end-to-end",
	Long: `Orchestrates the whole outreach process: ingest -> scrape -> generate -> draft -> report.

Use --stages to run a subset, e.g. --stages scrape,generate. Stages always run in pipeline order.
Configuration can be loaded from a JSON or YAML file using --config. Command-line arguments override config file values.`,
	Args: cobra.NoArgs,
	RunE: runPipelineCmd,
}

var runStageNames []string

func init() {
	runCommand.Flags().StringSliceVar(&runStageNames, "stages", nil, "Stages to run (default: all)")
	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	_, err = runStages(cmd.Context(), cfg, cmd.OutOrStdout(), runStageNames...)
	return err
}
