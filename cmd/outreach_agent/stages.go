package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-outreach/internal/pipeline/steps"
)

// stageCommand runs a single pipeline stage against the job status document.
func stageCommand(stage, short, long string) *cobra.Command {
	return &cobra.Command{
		Use:   stage,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			_, err = runStages(cmd.Context(), cfg, cmd.OutOrStdout(), stage)
			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(
		stageCommand(steps.Ingest, "Add new contacts to the job status document",
			"Reads the contacts CSV and adds one pending job record per job link not yet tracked."),
		stageCommand(steps.Scrape, "Fetch pending job links and extract job details",
			"Scrapes every record with a pending scrape. The first failure is recorded and stops the stage."),
		stageCommand(steps.Generate, "Write cold emails for scraped jobs",
			"Generates an email for every scraped record without one. When the model fails, a template email is used instead."),
		stageCommand(steps.Draft, "Create Gmail drafts for generated emails",
			"Creates one Gmail draft per generated email. Records that already have a draft are never drafted again."),
		stageCommand(steps.Report, "Print job application statistics",
			"Prints status counts for every tracked job and writes the tracking export."),
	)
}
