package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RotateOptions holds options for the rotate command.
type RotateOptions struct {
	ConfigPath    string
	RetentionDays int
}

// NewRotateCommand creates the rotate command.
func NewRotateCommand() *cobra.Command {
	opts := &RotateOptions{}

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Prune old entries from the history file",
		Long: `Prune history entries older than the retention window without logging in.

Entries are compared by calendar date in UTC+8. Lines without a readable
date are dropped. A missing history file is left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRotate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Optional YAML config file")
	cmd.Flags().IntVar(&opts.RetentionDays, "retention-days", 0, "Override the retention window in days")

	return cmd
}

func runRotate(cmd *cobra.Command, args []string, opts *RotateOptions) error {
	cfg, err := loadConfig(commandContext(cmd), opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.RetentionDays < 0 {
		return fmt.Errorf("invalid retention-days %d: must be positive", opts.RetentionDays)
	}
	if opts.RetentionDays > 0 {
		cfg.History.RetentionDays = opts.RetentionDays
	}

	con := commandConsole(cmd)
	hist := newHistory(cfg, con)

	stats, err := hist.Rotate()
	if err != nil {
		return fmt.Errorf("rotating history: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d kept, %d dropped (cutoff %s)\n",
		hist.Path(), stats.Kept, stats.Dropped, hist.Cutoff().Format("2006-01-02"))
	return nil
}
