// Package cli provides the command-line interface for autologin.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/autologin/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx, NewRootCommand(), os.Args[1:])
}

func execute(ctx context.Context, rootCmd *cobra.Command, args []string) int {
	commands.ExitCode = 0
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return 1 // Configuration or usage error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command. Without a subcommand it
// behaves like "run".
func NewRootCommand() *cobra.Command {
	runCmd := commands.NewRunCommand()

	rootCmd := &cobra.Command{
		Use:   "autologin",
		Short: "Log in to a web site with several accounts",
		Long: `autologin logs in to a web site with each configured account in turn.

It keeps a dated login history (pruned to a retention window), and sends a
Telegram summary when BOT_TOKEN and CHAT_ID are set.

ENVIRONMENT:
  ACCOUNTS             user1:pass1,user2:pass2 (required)
  BOT_TOKEN, CHAT_ID   Telegram notification (optional)
  LOG_FILE             history file (default login_history.log)
  LOG_RETENTION_DAYS   history retention (default 90)
  TARGET_URL           site to log in to
  PLAYWRIGHT_ENDPOINT  remote browser websocket (optional)
  HEADFUL              show the browser window

Running without a subcommand is the same as "autologin run".`,
		Args:          cobra.NoArgs,
		RunE:          runCmd.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Flags().AddFlagSet(runCmd.Flags())

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(commands.NewRotateCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewNotifyCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
