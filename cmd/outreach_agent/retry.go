package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-outreach/internal/pipeline"
)

var retryCommand = &cobra.Command{
	Use:   "retry",
	Short: "Put failed records back to pending",
	Long: `Resets failed records of one stage so the next run processes them again.

--stage scrape resets failed scrapes; --stage email resets failed generations and drafts.
Existing Gmail drafts are kept.`,
	Args: cobra.NoArgs,
	RunE: runRetryCmd,
}

var (
	retryStage string
	retryJobID string
)

func init() {
	retryCommand.Flags().StringVar(&retryStage, "stage", "", "Stage to reset: scrape or email")
	retryCommand.Flags().StringVar(&retryJobID, "job-id", "", "Reset only this job")
	_ = retryCommand.MarkFlagRequired("stage")
	rootCmd.AddCommand(retryCommand)
}

func runRetryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ids, err := pipeline.Retry(cmd.Context(), a.store, pipeline.RetryOptions{Stage: retryStage, JobID: retryJobID})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		_, _ = fmt.Fprintf(out, "No failed %s records to reset\n", retryStage)
		return nil
	}
	_, _ = fmt.Fprintf(out, "Reset %d record(s) to pending: %s\n", len(ids), strings.Join(ids, ", "))
	return nil
}
