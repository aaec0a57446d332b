package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NotifyOptions holds options for the notify command.
type NotifyOptions struct {
	ConfigPath string
}

// NewNotifyCommand creates the notify command.
func NewNotifyCommand() *cobra.Command {
	opts := &NotifyOptions{}

	cmd := &cobra.Command{
		Use:   "notify [message]",
		Short: "Send a test Telegram notification",
		Long: `Send a Telegram notification with the given message, or a default test
message, using the same banner and timestamp as a real run.

Requires BOT_TOKEN and CHAT_ID.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotify(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Optional YAML config file")

	return cmd
}

func runNotify(cmd *cobra.Command, args []string, opts *NotifyOptions) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	sender := newSender(cfg, commandConsole(cmd))
	if !sender.Enabled() {
		return errors.New("telegram is not configured: set BOT_TOKEN and CHAT_ID")
	}

	body := strings.Join(args, " ")
	if body == "" {
		body = "🔔 Test notification"
	}

	resp := sender.Send(ctx, body)
	if !resp.Success() {
		return fmt.Errorf("sending notification: %w", resp.Error)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Delivered in %s\n", resp.Duration.Round(time.Millisecond))
	return nil
}
