package commands

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ccollicutt/autologin/pkg/config"
)

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate [config-file]" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestNewVersionCommand(t *testing.T) {
	out, _, err := executeCommand(NewVersionCommand())
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if out != "autologin dev\n" {
		t.Errorf("version output = %q", out)
	}
}

func TestRunValidate_Success(t *testing.T) {
	clearEnv(t)
	configPath, _ := fastConfig(t)
	t.Setenv(config.EnvAccounts, "alice:secret,bob:hunter2")

	out, _, err := executeCommand(NewValidateCommand(), configPath)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}

	for _, want := range []string{"Configuration valid!", "Accounts:  2", "[user1] alice:******", "notifications disabled"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "secret") || strings.Contains(out, "hunter2") {
		t.Error("validate output leaks passwords")
	}
}

func TestRunValidate_EnvironmentOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvAccounts, "alice:secret")
	t.Setenv(config.EnvBotToken, "1:x")
	t.Setenv(config.EnvChatID, "9")

	out, _, err := executeCommand(NewValidateCommand())
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "Telegram notifications: enabled (chat 9)") {
		t.Errorf("output = %s", out)
	}
}

func TestRunValidate_Failures(t *testing.T) {
	tests := []struct {
		name     string
		accounts string
		args     []string
	}{
		{"no accounts", "", nil},
		{"malformed accounts", "nocolon", nil},
		{"missing config", "a:b", []string{"/nonexistent/config.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(config.EnvAccounts, tt.accounts)

			_, _, err := executeCommand(NewValidateCommand(), tt.args...)
			if err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRunRotate(t *testing.T) {
	clearEnv(t)
	configPath, historyPath := fastConfig(t)

	today := time.Now().In(config.Location).Format("2006-01-02")
	content := "2000-01-01: ancient\n" + today + ": fresh\ngarbage\n"
	if err := os.WriteFile(historyPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := executeCommand(NewRotateCommand(), "--config", configPath)
	if err != nil {
		t.Fatalf("rotate error = %v", err)
	}
	if !strings.Contains(out, "1 kept, 2 dropped") {
		t.Errorf("output = %q", out)
	}

	data, _ := os.ReadFile(historyPath)
	if string(data) != today+": fresh\n" {
		t.Errorf("history = %q", string(data))
	}
}

func TestRunRotate_MissingFile(t *testing.T) {
	clearEnv(t)
	configPath, historyPath := fastConfig(t)

	if _, _, err := executeCommand(NewRotateCommand(), "--config", configPath); err != nil {
		t.Fatalf("rotate error = %v", err)
	}
	if _, err := os.Stat(historyPath); !os.IsNotExist(err) {
		t.Error("rotate must not create the history file")
	}
}

func TestRunRotate_NegativeRetention(t *testing.T) {
	clearEnv(t)
	configPath, _ := fastConfig(t)

	if _, _, err := executeCommand(NewRotateCommand(), "--config", configPath, "--retention-days", "-1"); err == nil {
		t.Error("expected error for negative retention")
	}
}

func TestRunNotify(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	clearEnv(t)
	t.Setenv(config.EnvBotToken, "1:x")
	t.Setenv(config.EnvChatID, "9")
	t.Setenv(config.EnvTelegramAPIBaseURL, server.URL)

	out, _, err := executeCommand(NewNotifyCommand(), "hello", "world")
	if err != nil {
		t.Fatalf("notify error = %v", err)
	}
	if got != "/bot1:x/sendMessage" {
		t.Errorf("path = %q", got)
	}
	if !strings.Contains(out, "Delivered") {
		t.Errorf("output = %q", out)
	}
}

func TestRunNotify_NotConfigured(t *testing.T) {
	clearEnv(t)

	_, _, err := executeCommand(NewNotifyCommand())
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Errorf("error = %v, want not configured", err)
	}
}

func TestRunNotify_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	clearEnv(t)
	t.Setenv(config.EnvBotToken, "1:x")
	t.Setenv(config.EnvChatID, "9")
	t.Setenv(config.EnvTelegramAPIBaseURL, server.URL)

	if _, _, err := executeCommand(NewNotifyCommand()); err == nil {
		t.Error("expected error for rejected notification")
	}
}
