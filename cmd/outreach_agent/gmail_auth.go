package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-outreach/internal/mailbox"
)

var gmailAuthCommand = &cobra.Command{
	Use:   "gmail-auth",
	Short: "Authorize draft creation in Gmail",
	Long: `Runs the OAuth installed-app flow: prints a consent URL, reads the authorization code
from stdin and saves the token file used by the draft stage.`,
	Args: cobra.NoArgs,
	RunE: runGmailAuthCmd,
}

func init() {
	rootCmd.AddCommand(gmailAuthCommand)
}

func runGmailAuthCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	oauthCfg, err := mailbox.LoadOAuthConfig(cfg.Gmail.Credentials)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Open this URL in your browser and authorize access:\n\n%s\n\n", mailbox.AuthCodeURL(oauthCfg, uuid.NewString()))
	_, _ = fmt.Fprint(out, "Paste the authorization code: ")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read authorization code: %w", err)
		}
		return fmt.Errorf("no authorization code entered")
	}
	code := strings.TrimSpace(scanner.Text())
	if code == "" {
		return fmt.Errorf("no authorization code entered")
	}

	tok, err := mailbox.Exchange(cmd.Context(), oauthCfg, code)
	if err != nil {
		return err
	}
	if err := mailbox.SaveToken(cfg.Gmail.Token, tok); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Token saved to %s\n", cfg.Gmail.Token)
	return nil
}
