package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/autologin/pkg/config"
	"github.com/ccollicutt/autologin/pkg/login"
)

// fakeLauncher serves pages that log in any user whose name starts with
// "good" and fail navigation for everyone else.
type fakeLauncher struct {
	launches int
	stopped  bool
}

func (l *fakeLauncher) Launch(context.Context) (login.Browser, error) {
	l.launches++
	return &fakeBrowser{}, nil
}

type fakeBrowser struct{}

func (b *fakeBrowser) NewPage() (login.Page, error) { return &fakePage{}, nil }
func (b *fakeBrowser) Close() error                 { return nil }

type fakePage struct {
	username string
}

func (p *fakePage) SetDefaultTimeout(time.Duration)   {}
func (p *fakePage) Goto(string) error                 { return nil }
func (p *fakePage) Click(string, time.Duration) error { return nil }
func (p *fakePage) WaitForNetworkIdle() error         { return nil }
func (p *fakePage) Close() error                      { return nil }

func (p *fakePage) Fill(selector, value string) error {
	if strings.Contains(selector, "username") {
		p.username = value
	}
	return nil
}

func (p *fakePage) Content() (string, error) {
	if strings.HasPrefix(p.username, "good") {
		return "<p>You are the exclusive owner</p>", nil
	}
	return "", errors.New("page crashed\nstack trace line")
}

// useFakeLauncher swaps the browser launcher for the duration of the test.
func useFakeLauncher(t *testing.T) *fakeLauncher {
	t.Helper()
	fake := &fakeLauncher{}
	orig := newLauncher
	newLauncher = func(*config.Config) (login.Launcher, func() error) {
		return fake, func() error {
			fake.stopped = true
			return nil
		}
	}
	t.Cleanup(func() {
		newLauncher = orig
		ExitCode = 0
	})
	return fake
}

// clearEnv blanks every supported variable.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvBotToken, config.EnvChatID, config.EnvAccounts, config.EnvHistoryPath,
		config.EnvRetentionDays, config.EnvTargetURL, config.EnvTelegramAPIBaseURL,
		config.EnvBrowserEndpoint, config.EnvHeadful,
	} {
		t.Setenv(key, "")
	}
}

// fastConfig writes a config with every delay disabled and returns its path
// along with the history file path.
func fastConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	historyPath := filepath.Join(dir, "login_history.log")
	content := `history:
  path: ` + historyPath + `
site:
  url: https://example.test/
  delays:
    after_navigate: 0s
    after_login_click: 0s
    after_fill: 0s
    after_submit: 0s
account_delay: 0s
`
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}
	return configPath, historyPath
}

func executeCommand(cmd *cobra.Command, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
