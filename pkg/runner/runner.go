// Package runner orchestrates a full run: prune history, log every account in
// order, then notify and record the summary.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/autologin/pkg/console"
	"github.com/ccollicutt/autologin/pkg/history"
	"github.com/ccollicutt/autologin/pkg/login"
	"github.com/ccollicutt/autologin/pkg/notify"
	"github.com/ccollicutt/autologin/pkg/output"
	"github.com/ccollicutt/autologin/pkg/parser"
)

// Authenticator performs one login attempt. It reports failures through the
// Result rather than an error.
type Authenticator interface {
	Login(ctx context.Context, cred parser.Credential, index int) login.Result
}

// Rotator prunes old history before a run.
type Rotator interface {
	Rotate() (history.RotateStats, error)
}

// Notifier delivers the run summary.
type Notifier interface {
	Send(ctx context.Context, body string) *notify.Response
}

// Runner processes accounts strictly one after another.
type Runner struct {
	auth     Authenticator
	rotator  Rotator
	recorder login.Recorder
	notifier Notifier
	console  *console.Console

	accountDelay time.Duration
	target       string
	now          func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithRotator sets the history pruner run before the first account.
func WithRotator(r Rotator) Option {
	return func(rn *Runner) { rn.rotator = r }
}

// WithRecorder sets where the summary line is persisted.
func WithRecorder(r login.Recorder) Option {
	return func(rn *Runner) { rn.recorder = r }
}

// WithNotifier sets the summary notifier.
func WithNotifier(n Notifier) Option {
	return func(rn *Runner) { rn.notifier = n }
}

// WithConsole sets where progress is reported.
func WithConsole(c *console.Console) Option {
	return func(rn *Runner) {
		if c != nil {
			rn.console = c
		}
	}
}

// WithAccountDelay sets the pause between consecutive accounts.
func WithAccountDelay(d time.Duration) Option {
	return func(rn *Runner) { rn.accountDelay = d }
}

// WithTarget records the target site in the report metadata.
func WithTarget(url string) Option {
	return func(rn *Runner) { rn.target = url }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(rn *Runner) {
		if now != nil {
			rn.now = now
		}
	}
}

// New creates a Runner around auth. Rotation, recording and notification
// are skipped when not configured.
func New(auth Authenticator, opts ...Option) *Runner {
	r := &Runner{
		auth:    auth,
		console: console.Discard(),
		now:     time.Now,
		sleep:   login.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes creds in order and returns the report. Individual account
// failures never stop the run. A cancelled context stops before the next
// account; the summary is still built, sent and recorded for the accounts
// already processed, and the context error is returned with the report.
func (r *Runner) Run(ctx context.Context, creds []parser.Credential) (report *output.Report, err error) {
	start := r.now()
	meta := output.Metadata{
		RunID:     uuid.NewString(),
		Target:    r.target,
		StartedAt: start,
	}
	results := make([]login.Result, 0, len(creds))

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("run aborted: %v", p)
			r.console.Errorf("%v", err)
			meta.Duration = r.now().Sub(start)
			report = output.NewReport(results, meta)
		}
	}()

	if r.rotator != nil {
		if _, rerr := r.rotator.Rotate(); rerr != nil {
			r.console.Warnf("history rotation failed: %v", rerr)
		}
	}

	r.console.Infof("Found %d accounts to log in", len(creds))

	for i, cred := range creds {
		if err = ctx.Err(); err != nil {
			r.console.Warnf("run interrupted before %s: %v", login.AccountLabel(i), err)
			break
		}

		r.console.Infof("Processing account %d/%d", i+1, len(creds))
		results = append(results, r.auth.Login(ctx, cred, i))

		if i < len(creds)-1 && r.accountDelay > 0 {
			r.console.Infof("Waiting %s before the next account...", r.accountDelay)
			if serr := r.sleep(ctx, r.accountDelay); serr != nil {
				err = serr
				r.console.Warnf("run interrupted: %v", serr)
				break
			}
		}
	}

	meta.Duration = r.now().Sub(start)
	report = output.NewReport(results, meta)

	if r.notifier != nil {
		// The summary goes out even when the run was interrupted.
		r.notifier.Send(context.WithoutCancel(ctx), report.SummaryMessage())
	}
	if r.recorder != nil {
		r.recorder.Write(report.SummaryLine())
	}

	if err != nil {
		r.console.Warnf("Run stopped after %d/%d accounts: %d succeeded",
			report.Summary.Total, len(creds), report.Summary.Succeeded)
	} else {
		r.console.Successf("All accounts processed: %d/%d succeeded",
			report.Summary.Succeeded, report.Summary.Total)
	}

	return report, err
}
