package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/autologin/pkg/config"
	"github.com/ccollicutt/autologin/pkg/history"
	"github.com/ccollicutt/autologin/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose [config-file]",
		Short: "Diagnose common configuration issues",
		Long: `Diagnose common configuration issues.

This command checks the configuration for common problems:
- Config file syntax and structure
- Account list format
- History file health and date format
- Telegram notification settings
- Target site and browser settings

Example:
  autologin diagnose
  autologin diagnose -v config.yaml  # verbose output, with connectivity checks`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runDiagnose(commandContext(cmd), path, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, configPath string, opts *DiagnoseOptions, w io.Writer) error {
	results := []DiagnosticResult{}

	// 1. Check config file existence
	if configPath != "" {
		result := checkConfigExists(configPath)
		results = append(results, result)
		if result.Status == "error" {
			printDiagnostics(w, results, opts)
			return nil
		}
	}

	// 2. Load configuration
	cfg, result := checkConfigParseable(ctx, configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 3. Accounts
	results = append(results, checkAccounts(cfg))

	// 4. History file
	results = append(results, checkHistory(cfg, opts)...)

	// 5. Telegram
	results = append(results, checkTelegram(cfg, opts)...)

	// 6. Target site and browser
	results = append(results, checkTarget(cfg, opts)...)
	results = append(results, checkBrowser(cfg))

	printDiagnostics(w, results, opts)
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"The config file is optional; omit it to use environment variables only",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "warning"
		result.Message = "Config file is empty, defaults and environment apply"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Configuration loaded successfully"
	result.Details = []string{
		fmt.Sprintf("Target: %s", cfg.Site.URL),
		fmt.Sprintf("Account delay: %s", cfg.AccountDelay),
		fmt.Sprintf("Page timeout: %s", cfg.Site.PageTimeout),
	}
	return cfg, result
}

func checkAccounts(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Accounts",
	}

	creds, err := parser.ParseCredentials(cfg.Accounts)
	if err != nil {
		result.Status = "error"
		result.Message = err.Error()
		result.Suggests = []string{
			"Set ACCOUNTS as user1:pass1,user2:pass2",
			"Both ',' and ';' separate accounts; the first ':' separates user and password",
		}
		return result
	}

	entries := strings.FieldsFunc(cfg.Accounts, func(r rune) bool { return r == ',' || r == ';' })
	skipped := 0
	for _, e := range entries {
		if strings.TrimSpace(e) != "" {
			skipped++
		}
	}
	skipped -= len(creds)

	for i, c := range creds {
		result.Details = append(result.Details, fmt.Sprintf("user%d: %s", i+1, c))
	}

	if skipped > 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d valid, %d entr(ies) skipped", len(creds), skipped)
		result.Suggests = []string{"Entries without both a username and a password are ignored"}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d account(s)", len(creds))
	return result
}

func checkHistory(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}
	hist := newHistory(cfg, nil)

	result := DiagnosticResult{
		Check: fmt.Sprintf("History: %s", cfg.History.Path),
	}

	info, err := os.Stat(cfg.History.Path)
	if os.IsNotExist(err) {
		dir := filepath.Dir(cfg.History.Path)
		if dinfo, derr := os.Stat(dir); derr != nil || !dinfo.IsDir() {
			result.Status = "error"
			result.Message = fmt.Sprintf("Directory %s does not exist", dir)
			result.Suggests = []string{"Create the directory or set LOG_FILE to a writable path"}
		} else {
			result.Status = "ok"
			result.Message = "No history yet (created on first run)"
		}
		return append(results, result)
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return append(results, result)
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return append(results, result)
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("File exists (%d bytes), retention %d days", info.Size(), cfg.History.RetentionDays)
	results = append(results, result)

	results = append(results, checkHistoryDates(hist, opts))
	return results
}

// checkHistoryDates samples the history entries and reports how many would be
// dropped on the next rotation.
func checkHistoryDates(hist *history.Log, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check: "History Dates",
	}

	entries, err := hist.Read()
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read history: %v", err)
		return result
	}
	if len(entries) == 0 {
		result.Status = "ok"
		result.Message = "History is empty"
		return result
	}

	cutoff := hist.Cutoff()
	valid, expired := 0, 0
	var invalid []string
	var oldest, newest time.Time
	for _, e := range entries {
		if !e.Valid {
			invalid = append(invalid, fmt.Sprintf("line %d: %s", e.LineNum, truncate(e.Raw, 60)))
			continue
		}
		valid++
		if e.Date.Before(cutoff) {
			expired++
		}
		if oldest.IsZero() || e.Date.Before(oldest) {
			oldest = e.Date
		}
		if e.Date.After(newest) {
			newest = e.Date
		}
	}

	if valid > 0 {
		result.Details = append(result.Details,
			fmt.Sprintf("Oldest: %s", oldest.Format(history.DateLayout)),
			fmt.Sprintf("Newest: %s", newest.Format(history.DateLayout)),
		)
	}
	if expired > 0 {
		result.Details = append(result.Details,
			fmt.Sprintf("%d entr(ies) older than %s will be pruned", expired, cutoff.Format(history.DateLayout)))
	}

	if len(invalid) > 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d/%d lines have no readable date and will be dropped on rotation",
			len(invalid), len(entries))
		limit := len(invalid)
		if !opts.Verbose && limit > 3 {
			limit = 3
		}
		result.Details = append(result.Details, invalid[:limit]...)
		result.Suggests = []string{"Entries must start with YYYY-MM-DD followed by ':'"}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d entries, all dated", len(entries))
	return result
}

func checkTelegram(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}
	tg := cfg.Telegram

	result := DiagnosticResult{
		Check: "Telegram",
	}

	switch {
	case tg.BotToken == "" && tg.ChatID == "":
		result.Status = "warning"
		result.Message = "Notifications disabled"
		result.Suggests = []string{"Set BOT_TOKEN and CHAT_ID to receive run summaries"}
		return append(results, result)
	case tg.BotToken == "":
		result.Status = "warning"
		result.Message = "CHAT_ID is set but BOT_TOKEN is missing; notifications disabled"
		return append(results, result)
	case tg.ChatID == "":
		result.Status = "warning"
		result.Message = "BOT_TOKEN is set but CHAT_ID is missing; notifications disabled"
		return append(results, result)
	}

	warnings := []string{}
	if !strings.Contains(tg.BotToken, ":") {
		warnings = append(warnings, "Token does not look like a bot token (<id>:<secret>)")
	}
	if strings.HasPrefix(tg.BotToken, "$") || strings.HasPrefix(tg.ChatID, "$") {
		warnings = append(warnings, "Value appears to be an unresolved env var")
	}

	if len(warnings) > 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d warning(s)", len(warnings))
		result.Details = warnings
	} else {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Enabled for chat %s", tg.ChatID)
		if opts.Verbose {
			result.Details = []string{
				fmt.Sprintf("API: %s", tg.APIBaseURL),
				fmt.Sprintf("Timeout: %s", tg.Timeout),
			}
		}
	}
	results = append(results, result)

	if opts.Verbose {
		conn := checkConnectivity(tg.APIBaseURL)
		conn.Check = "Telegram Connectivity"
		results = append(results, conn)
	}

	return results
}

func checkTarget(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{{
		Check:   "Target Site",
		Status:  "ok",
		Message: cfg.Site.URL,
		Details: []string{
			fmt.Sprintf("Success marker: %q", cfg.Site.SuccessMarker),
			fmt.Sprintf("Login selector: %s", cfg.Site.LoginSelector),
		},
	}}

	if cfg.Site.SuccessMarker == "" {
		results[0].Status = "warning"
		results[0].Message = "No success marker; only the username is matched"
	}

	if opts.Verbose {
		conn := checkConnectivity(cfg.Site.URL)
		conn.Check = "Target Connectivity"
		results = append(results, conn)
	}

	return results
}

func checkBrowser(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Browser",
	}

	if cfg.Browser.Endpoint == "" {
		mode := "headless"
		if cfg.Browser.Headful {
			mode = "headful"
		}
		result.Status = "ok"
		result.Message = fmt.Sprintf("Local Chromium (%s)", mode)
		result.Details = []string{fmt.Sprintf("Args: %s", strings.Join(cfg.Browser.Args, " "))}
		if !cfg.Browser.Install {
			result.Suggests = []string{"Run with --install-browsers once if Chromium is not installed"}
		}
		return result
	}

	u, err := url.Parse(cfg.Browser.Endpoint)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		result.Status = "error"
		result.Message = fmt.Sprintf("Invalid browser endpoint %q", cfg.Browser.Endpoint)
		result.Suggests = []string{"PLAYWRIGHT_ENDPOINT must be a ws:// or wss:// URL"}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Remote browser at %s", u.Host)
	return result
}

func checkConnectivity(rawURL string) DiagnosticResult {
	result := DiagnosticResult{}

	// Just do a HEAD request to check if the endpoint is reachable
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(http.MethodHead, rawURL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check the URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode < 500 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
	}

	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== autologin Configuration Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before running.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nConfiguration is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nConfiguration looks good!")
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
