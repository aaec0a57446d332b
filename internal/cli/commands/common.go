package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/autologin/pkg/browser"
	"github.com/ccollicutt/autologin/pkg/config"
	"github.com/ccollicutt/autologin/pkg/console"
	"github.com/ccollicutt/autologin/pkg/history"
	"github.com/ccollicutt/autologin/pkg/login"
	"github.com/ccollicutt/autologin/pkg/notify"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// newLauncher builds the browser launcher and its shutdown func. Tests
// replace it to avoid starting a real browser.
var newLauncher = func(cfg *config.Config) (login.Launcher, func() error) {
	l := browser.NewLauncher(browser.Options{
		Headless: !cfg.Browser.Headful,
		Args:     cfg.Browser.Args,
		Endpoint: cfg.Browser.Endpoint,
		Install:  cfg.Browser.Install,
	})
	return l, l.Stop
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func commandConsole(cmd *cobra.Command) *console.Console {
	return console.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newHistory(cfg *config.Config, con *console.Console) *history.Log {
	return history.New(cfg.History.Path,
		history.WithLocation(config.Location),
		history.WithRetentionDays(cfg.History.RetentionDays),
		history.WithConsole(con),
	)
}

func newSender(cfg *config.Config, con *console.Console) *notify.Sender {
	return notify.NewSender(
		notify.NewClient(cfg.Telegram.APIBaseURL),
		cfg.Telegram.BotToken,
		cfg.Telegram.ChatID,
		notify.WithTimeout(cfg.Telegram.Timeout),
		notify.WithLocation(config.Location),
		notify.WithConsole(con),
	)
}
