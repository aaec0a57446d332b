package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/autologin/pkg/console"
	"github.com/ccollicutt/autologin/pkg/login"
	"github.com/ccollicutt/autologin/pkg/output"
	"github.com/ccollicutt/autologin/pkg/parser"
	"github.com/ccollicutt/autologin/pkg/runner"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	ConfigPath      string
	Output          string
	Verbose         bool
	Quiet           bool
	Headful         bool
	InstallBrowsers bool
	Strict          bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Log in to every configured account",
		Long: `Log in to every configured account, one after another.

Steps:
  1. Prune history entries older than the retention window
  2. Log in to each account with a fresh browser
  3. Send a Telegram summary (when BOT_TOKEN and CHAT_ID are set)
  4. Append a summary line to the history file

Accounts come from ACCOUNTS as user1:pass1,user2:pass2 (',' or ';').
Individual login failures do not change the exit code unless --strict is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Optional YAML config file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Report format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include timings and run metadata in the report")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only report")
	cmd.Flags().BoolVar(&opts.Headful, "headful", false, "Show the browser window")
	cmd.Flags().BoolVar(&opts.InstallBrowsers, "install-browsers", false, "Download the browser driver and Chromium before running")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit with code 1 when any account fails")

	return cmd
}

func runRun(cmd *cobra.Command, args []string, opts *RunOptions) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Headful {
		cfg.Browser.Headful = true
	}
	if opts.InstallBrowsers {
		cfg.Browser.Install = true
	}

	creds, err := parser.ParseCredentials(cfg.Accounts)
	if err != nil {
		return fmt.Errorf("%w: set ACCOUNTS as user1:pass1,user2:pass2", err)
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	// Keep stdout clean for machine-readable reports.
	con := commandConsole(cmd)
	if formatter.Name() == "json" {
		con = console.New(cmd.ErrOrStderr(), cmd.ErrOrStderr())
	}

	launcher, stop := newLauncher(cfg)
	defer func() {
		if err := stop(); err != nil {
			con.Warnf("%v", err)
		}
	}()

	hist := newHistory(cfg, con)
	routine := login.NewRoutine(launcher, cfg.Site,
		login.WithRecorder(hist),
		login.WithConsole(con),
	)

	r := runner.New(routine,
		runner.WithRotator(hist),
		runner.WithRecorder(hist),
		runner.WithNotifier(newSender(cfg, con)),
		runner.WithConsole(con),
		runner.WithAccountDelay(cfg.AccountDelay),
		runner.WithTarget(cfg.Site.URL),
	)

	report, err := r.Run(ctx, creds)
	if err != nil {
		con.Warnf("run did not complete: %v", err)
	}
	if report == nil {
		return nil
	}

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if opts.Strict && !report.AllSucceeded() {
		ExitCode = 1
	}

	return nil
}
