// Package login drives one scripted browser login per account and classifies
// the outcome from the resulting page content.
package login

import (
	"context"
	"time"
)

// Launcher starts an isolated browser for a single login attempt.
type Launcher interface {
	Launch(ctx context.Context) (Browser, error)
}

// Browser is a running browser instance.
type Browser interface {
	NewPage() (Page, error)
	Close() error
}

// Page is the subset of page operations a login needs.
type Page interface {
	// SetDefaultTimeout bounds every following operation.
	SetDefaultTimeout(d time.Duration)

	// Goto navigates to url and waits for network idle.
	Goto(url string) error

	// Click clicks the first element matching selector. A zero timeout uses
	// the default timeout.
	Click(selector string, timeout time.Duration) error

	// Fill types value into the element matching selector.
	Fill(selector, value string) error

	// WaitForNetworkIdle waits until there are no network connections.
	WaitForNetworkIdle() error

	// Content returns the full HTML of the page.
	Content() (string, error)

	Close() error
}

// Recorder persists a one-line outcome message. Implementations handle their
// own failures.
type Recorder interface {
	Write(message string)
}
