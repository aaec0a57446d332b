package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/autologin/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate the configuration",
		Long: `Validate the configuration without logging in.

Checks:
  - YAML syntax of the optional config file
  - Target and Telegram API URLs
  - Accounts parse to at least one user:password pair
  - Telegram notification settings (warning only)`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := ""
	if len(args) > 0 {
		configPath = args[0]
	}
	w := cmd.OutOrStdout()

	if configPath != "" {
		fmt.Fprintf(w, "Validating %s...\n", configPath)
	} else {
		fmt.Fprintln(w, "Validating environment configuration...")
	}

	cfg, err := loadConfig(commandContext(cmd), configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	creds, err := parser.ParseCredentials(cfg.Accounts)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Target:    %s\n", cfg.Site.URL)
	fmt.Fprintf(w, "  History:   %s (%d days)\n", cfg.History.Path, cfg.History.RetentionDays)
	fmt.Fprintf(w, "  Accounts:  %d\n", len(creds))

	fmt.Fprintf(w, "\nAccounts:\n")
	for i, c := range creds {
		fmt.Fprintf(w, "  %d. [user%d] %s\n", i+1, i+1, c)
	}

	if cfg.Telegram.Enabled() {
		fmt.Fprintf(w, "\nTelegram notifications: enabled (chat %s)\n", cfg.Telegram.ChatID)
	} else {
		fmt.Fprintf(w, "\nWarning: Telegram notifications disabled (set BOT_TOKEN and CHAT_ID)\n")
	}

	return nil
}
