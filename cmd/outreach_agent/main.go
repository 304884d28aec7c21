// Package main provides the entry point for the job outreach CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "outreach_agent",
	Short: "Job outreach pipeline",
	Long: `Outreach Agent turns a contacts sheet of recruiters and job links into Gmail drafts:
ingest -> scrape -> generate -> draft -> report.

Every stage reads and writes one job status document, so stages can be run on their own
and re-running a stage only touches records that still need it.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
