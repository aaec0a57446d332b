// Package config provides configuration loading for autologin.
package config

import "time"

// Config is the root configuration. It is built once at startup and passed
// to every component that needs it.
type Config struct {
	// Accounts holds "user:password" pairs separated by ',' or ';'.
	Accounts string `yaml:"accounts"`

	Telegram TelegramConfig `yaml:"telegram"`
	History  HistoryConfig  `yaml:"history"`
	Site     SiteConfig     `yaml:"site"`
	Browser  BrowserConfig  `yaml:"browser"`

	// AccountDelay is the pause between two consecutive accounts.
	AccountDelay time.Duration `yaml:"account_delay,omitempty"`
}

// TelegramConfig holds the notification credentials. Both BotToken and ChatID
// are optional; notifications are skipped unless both are set.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token,omitempty"`
	ChatID   string `yaml:"chat_id,omitempty"`

	// APIBaseURL is the Bot API root, without the /bot<token> suffix.
	APIBaseURL string `yaml:"api_base_url,omitempty"`

	// Timeout bounds the sendMessage request.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Enabled reports whether both the bot token and the chat id are configured.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// HistoryConfig controls the persisted login history log.
type HistoryConfig struct {
	Path          string `yaml:"path,omitempty"`
	RetentionDays int    `yaml:"retention_days,omitempty"`
}

// SiteConfig describes the target site and how to drive its login form.
type SiteConfig struct {
	URL string `yaml:"url,omitempty"`

	LoginSelector    string `yaml:"login_selector,omitempty"`
	UsernameSelector string `yaml:"username_selector,omitempty"`
	PasswordSelector string `yaml:"password_selector,omitempty"`
	SubmitSelector   string `yaml:"submit_selector,omitempty"`

	// SuccessMarker is searched for in the page content after submitting.
	// The account's own username is always accepted as a marker too.
	SuccessMarker string `yaml:"success_marker,omitempty"`

	// PageTimeout is the default timeout for every page operation.
	PageTimeout time.Duration `yaml:"page_timeout,omitempty"`

	// LoginClickTimeout bounds the click on the login entry control.
	LoginClickTimeout time.Duration `yaml:"login_click_timeout,omitempty"`

	Delays DelayConfig `yaml:"delays,omitempty"`
}

// DelayConfig holds the fixed settle delays between login steps.
type DelayConfig struct {
	AfterNavigate   time.Duration `yaml:"after_navigate,omitempty"`
	AfterLoginClick time.Duration `yaml:"after_login_click,omitempty"`
	AfterFill       time.Duration `yaml:"after_fill,omitempty"`
	AfterSubmit     time.Duration `yaml:"after_submit,omitempty"`
}

// BrowserConfig controls how browsers are obtained.
type BrowserConfig struct {
	// Endpoint is an optional websocket endpoint of a remote browser server.
	// When empty a local Chromium is launched.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Headful shows the browser window.
	Headful bool `yaml:"headful,omitempty"`

	// Args are extra command-line flags for a locally launched browser.
	Args []string `yaml:"args,omitempty"`

	// Install downloads the browser binaries before the first launch.
	Install bool `yaml:"install,omitempty"`
}
