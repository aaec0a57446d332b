// Package browser adapts playwright-go to the login package's browser ports.
package browser

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/ccollicutt/autologin/pkg/login"
)

// Options controls how browsers are obtained.
type Options struct {
	// Headless hides the browser window.
	Headless bool

	// Args are extra Chromium flags for local launches.
	Args []string

	// Endpoint connects to a remote browser server instead of launching a
	// local Chromium.
	Endpoint string

	// Install downloads the driver and Chromium before the first launch.
	Install bool
}

// Launcher starts one Chromium per Launch call. The playwright driver is
// started lazily on the first call and shared until Stop.
type Launcher struct {
	mu   sync.Mutex
	opts Options
	pw   *playwright.Playwright
}

var _ login.Launcher = (*Launcher)(nil)

// NewLauncher creates a Launcher. No driver is started yet.
func NewLauncher(opts Options) *Launcher {
	return &Launcher{opts: opts}
}

// runOptions keeps driver output off the console.
func runOptions() *playwright.RunOptions {
	return &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
}

// Install downloads the driver and Chromium.
func Install() error {
	if err := playwright.Install(runOptions()); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	return nil
}

func (l *Launcher) start() (*playwright.Playwright, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pw != nil {
		return l.pw, nil
	}

	if l.opts.Install {
		if err := Install(); err != nil {
			return nil, err
		}
	}

	pw, err := playwright.Run(runOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	l.pw = pw
	return pw, nil
}

// Launch starts or connects to a browser.
func (l *Launcher) Launch(ctx context.Context) (login.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := l.start()
	if err != nil {
		return nil, err
	}

	var b playwright.Browser
	if l.opts.Endpoint != "" {
		b, err = pw.Chromium.Connect(l.opts.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to browser at %s: %w", l.opts.Endpoint, err)
		}
	} else {
		b, err = pw.Chromium.Launch(launchOptions(l.opts))
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
	}

	return &browserHandle{browser: b}, nil
}

// Stop shuts the driver down. It is safe to call when nothing was started.
func (l *Launcher) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pw == nil {
		return nil
	}
	err := l.pw.Stop()
	l.pw = nil
	if err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

func launchOptions(opts Options) playwright.BrowserTypeLaunchOptions {
	return playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     append([]string(nil), opts.Args...),
	}
}

type browserHandle struct {
	browser playwright.Browser
}

func (b *browserHandle) NewPage() (login.Page, error) {
	p, err := b.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return &pageHandle{page: p}, nil
}

func (b *browserHandle) Close() error {
	return b.browser.Close()
}

type pageHandle struct {
	page playwright.Page
}

func (p *pageHandle) SetDefaultTimeout(d time.Duration) {
	p.page.SetDefaultTimeout(milliseconds(d))
}

func (p *pageHandle) Goto(url string) error {
	waitUntil := playwright.WaitUntilState("networkidle")
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{WaitUntil: &waitUntil}); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *pageHandle) Click(selector string, timeout time.Duration) error {
	opts := playwright.PageClickOptions{}
	if timeout > 0 {
		opts.Timeout = playwright.Float(milliseconds(timeout))
	}
	if err := p.page.Click(selector, opts); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (p *pageHandle) Fill(selector, value string) error {
	if err := p.page.Fill(selector, value); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (p *pageHandle) WaitForNetworkIdle() error {
	state := playwright.LoadState("networkidle")
	if err := p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{State: &state}); err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}
	return nil
}

func (p *pageHandle) Content() (string, error) {
	return p.page.Content()
}

func (p *pageHandle) Close() error {
	return p.page.Close()
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
