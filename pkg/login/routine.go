package login

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ccollicutt/autologin/pkg/config"
	"github.com/ccollicutt/autologin/pkg/console"
	"github.com/ccollicutt/autologin/pkg/parser"
)

type nopRecorder struct{}

func (nopRecorder) Write(string) {}

// Routine logs a single account into the configured site.
type Routine struct {
	launcher Launcher
	site     config.SiteConfig
	recorder Recorder
	console  *console.Console

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// Option configures a Routine.
type Option func(*Routine)

// WithRecorder sets where outcome lines are persisted.
func WithRecorder(r Recorder) Option {
	return func(rt *Routine) {
		if r != nil {
			rt.recorder = r
		}
	}
}

// WithConsole sets where step progress is reported.
func WithConsole(c *console.Console) Option {
	return func(rt *Routine) {
		if c != nil {
			rt.console = c
		}
	}
}

// NewRoutine creates a Routine that obtains browsers from launcher.
func NewRoutine(launcher Launcher, site config.SiteConfig, opts ...Option) *Routine {
	r := &Routine{
		launcher: launcher,
		site:     site,
		recorder: nopRecorder{},
		console:  console.Discard(),
		sleep:    Sleep,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Login performs one attempt for cred, the account at zero-based index. It
// never returns an error: every failure becomes an unsuccessful Result and a
// recorded line.
func (r *Routine) Login(ctx context.Context, cred parser.Credential, index int) Result {
	label := AccountLabel(index)
	r.console.Infof("Starting login: %s", label)

	start := r.now()
	ok, err := r.attempt(ctx, label, cred)
	result := Result{
		Account:  label,
		Success:  err == nil && ok,
		Duration: r.now().Sub(start),
		Err:      err,
	}

	switch {
	case err != nil:
		result.Message = fmt.Sprintf("❌ %s login error: %s", label, err)
		r.console.Failuref("%s - login error: %s", label, err)
		r.recorder.Write(fmt.Sprintf("%s login error: %s", label, firstLine(err.Error())))
	case ok:
		result.Message = fmt.Sprintf("✅ %s login succeeded", label)
		r.console.Successf("%s - login succeeded", label)
		r.recorder.Write(label + " login succeeded")
	default:
		result.Message = fmt.Sprintf("❌ %s login failed", label)
		r.console.Failuref("%s - login failed", label)
		r.recorder.Write(label + " login failed")
	}

	return result
}

// attempt runs the scripted steps. The page and browser are closed on every
// return path, page first.
func (r *Routine) attempt(ctx context.Context, label string, cred parser.Credential) (ok bool, err error) {
	browser, err := r.launcher.Launch(ctx)
	if err != nil {
		return false, fmt.Errorf("launching browser: %w", err)
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil {
			r.console.Warnf("%s - closing browser: %v", label, cerr)
		}
	}()

	page, err := browser.NewPage()
	if err != nil {
		return false, fmt.Errorf("opening page: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			r.console.Warnf("%s - closing page: %v", label, cerr)
		}
	}()

	site := r.site
	page.SetDefaultTimeout(site.PageTimeout)

	r.console.Infof("%s - visiting site...", label)
	if err := page.Goto(site.URL); err != nil {
		return false, fmt.Errorf("navigating to %s: %w", site.URL, err)
	}
	if err := r.sleep(ctx, site.Delays.AfterNavigate); err != nil {
		return false, err
	}

	r.console.Infof("%s - clicking login...", label)
	if err := page.Click(site.LoginSelector, site.LoginClickTimeout); err != nil {
		return false, fmt.Errorf("clicking login: %w", err)
	}
	if err := r.sleep(ctx, site.Delays.AfterLoginClick); err != nil {
		return false, err
	}

	r.console.Infof("%s - filling username...", label)
	if err := page.Fill(site.UsernameSelector, cred.Username); err != nil {
		return false, fmt.Errorf("filling username: %w", err)
	}
	if err := r.sleep(ctx, site.Delays.AfterFill); err != nil {
		return false, err
	}

	r.console.Infof("%s - filling password...", label)
	if err := page.Fill(site.PasswordSelector, cred.Password); err != nil {
		return false, fmt.Errorf("filling password: %w", err)
	}
	if err := r.sleep(ctx, site.Delays.AfterFill); err != nil {
		return false, err
	}

	r.console.Infof("%s - submitting...", label)
	if err := page.Click(site.SubmitSelector, 0); err != nil {
		return false, fmt.Errorf("submitting: %w", err)
	}
	if err := page.WaitForNetworkIdle(); err != nil {
		return false, fmt.Errorf("waiting after submit: %w", err)
	}
	if err := r.sleep(ctx, site.Delays.AfterSubmit); err != nil {
		return false, err
	}

	content, err := page.Content()
	if err != nil {
		return false, fmt.Errorf("reading page content: %w", err)
	}

	return Classify(content, cred.Username, site.SuccessMarker), nil
}

// Classify reports whether content looks like a logged-in page: it contains
// marker or the username. Empty needles never match.
func Classify(content, username, marker string) bool {
	if marker != "" && strings.Contains(content, marker) {
		return true
	}
	return username != "" && strings.Contains(content, username)
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
