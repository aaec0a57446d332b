package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for configuration.
const (
	DefaultTargetURL         = "https://www.netlib.re/"
	DefaultLoginSelector     = "text=Login"
	DefaultUsernameSelector  = `input[name="username"], input[type="text"]`
	DefaultPasswordSelector  = `input[name="password"], input[type="password"]`
	DefaultSubmitSelector    = `button:has-text("Validate"), input[type="submit"]`
	DefaultSuccessMarker     = "exclusive owner"
	DefaultPageTimeout       = 30 * time.Second
	DefaultLoginClickTimeout = 5 * time.Second

	DefaultAfterNavigate   = 3 * time.Second
	DefaultAfterLoginClick = 2 * time.Second
	DefaultAfterFill       = 1 * time.Second
	DefaultAfterSubmit     = 5 * time.Second
	DefaultAccountDelay    = 3 * time.Second

	DefaultHistoryPath   = "login_history.log"
	DefaultRetentionDays = 90

	DefaultTelegramAPIBaseURL = "https://api.telegram.org"
	DefaultTelegramTimeout    = 10 * time.Second
)

// Environment variable names.
const (
	EnvBotToken           = "BOT_TOKEN"
	EnvChatID             = "CHAT_ID"
	EnvAccounts           = "ACCOUNTS"
	EnvHistoryPath        = "LOG_FILE"
	EnvRetentionDays      = "LOG_RETENTION_DAYS"
	EnvTargetURL          = "TARGET_URL"
	EnvTelegramAPIBaseURL = "TELEGRAM_API_URL"
	EnvBrowserEndpoint    = "PLAYWRIGHT_ENDPOINT"
	EnvHeadful            = "HEADFUL"
)

// Location is the fixed UTC+8 zone used for log dates and notification
// timestamps.
var Location = time.FixedZone("HKT", 8*60*60)

// DefaultBrowserArgs disable the Chromium sandbox so the browser can start
// inside containers and CI runners.
var DefaultBrowserArgs = []string{"--no-sandbox", "--disable-setuid-sandbox"}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			APIBaseURL: DefaultTelegramAPIBaseURL,
			Timeout:    DefaultTelegramTimeout,
		},
		History: HistoryConfig{
			Path:          DefaultHistoryPath,
			RetentionDays: DefaultRetentionDays,
		},
		Site: SiteConfig{
			URL:               DefaultTargetURL,
			LoginSelector:     DefaultLoginSelector,
			UsernameSelector:  DefaultUsernameSelector,
			PasswordSelector:  DefaultPasswordSelector,
			SubmitSelector:    DefaultSubmitSelector,
			SuccessMarker:     DefaultSuccessMarker,
			PageTimeout:       DefaultPageTimeout,
			LoginClickTimeout: DefaultLoginClickTimeout,
			Delays: DelayConfig{
				AfterNavigate:   DefaultAfterNavigate,
				AfterLoginClick: DefaultAfterLoginClick,
				AfterFill:       DefaultAfterFill,
				AfterSubmit:     DefaultAfterSubmit,
			},
		},
		Browser: BrowserConfig{
			Args: append([]string(nil), DefaultBrowserArgs...),
		},
		AccountDelay: DefaultAccountDelay,
	}
}

// newEnvironment returns a viper instance bound to the supported environment
// variables. Only variables that are set and non-empty count as overrides.
func newEnvironment() *viper.Viper {
	v := viper.New()
	for _, key := range []string{
		EnvBotToken,
		EnvChatID,
		EnvAccounts,
		EnvHistoryPath,
		EnvRetentionDays,
		EnvTargetURL,
		EnvTelegramAPIBaseURL,
		EnvBrowserEndpoint,
		EnvHeadful,
	} {
		_ = v.BindEnv(key, key)
	}
	return v
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides(env *viper.Viper) {
	overrideString(env, EnvBotToken, &c.Telegram.BotToken)
	overrideString(env, EnvChatID, &c.Telegram.ChatID)
	overrideString(env, EnvAccounts, &c.Accounts)
	overrideString(env, EnvHistoryPath, &c.History.Path)
	overrideString(env, EnvTargetURL, &c.Site.URL)
	overrideString(env, EnvTelegramAPIBaseURL, &c.Telegram.APIBaseURL)
	overrideString(env, EnvBrowserEndpoint, &c.Browser.Endpoint)

	if env.IsSet(EnvRetentionDays) {
		if days := env.GetInt(EnvRetentionDays); days > 0 {
			c.History.RetentionDays = days
		}
	}
	if env.IsSet(EnvHeadful) {
		c.Browser.Headful = env.GetBool(EnvHeadful)
	}
}

func overrideString(env *viper.Viper, key string, dst *string) {
	if !env.IsSet(key) {
		return
	}
	if s := env.GetString(key); s != "" {
		*dst = s
	}
}
