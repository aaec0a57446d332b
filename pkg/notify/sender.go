package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/ccollicutt/autologin/pkg/console"
)

// TimeLayout formats the login time in the message header.
const TimeLayout = "2006-01-02 15:04:05"

// FormatMessage wraps body in the notification banner and the login time.
func FormatMessage(at time.Time, body string) string {
	return fmt.Sprintf("🎉 Netlib login notification\n\nLogin time: %s HKT\n\n%s",
		at.Format(TimeLayout), body)
}

// Sender delivers run summaries. It is a no-op unless both the bot token and
// the chat id are set.
type Sender struct {
	client  *Client
	token   string
	chatID  string
	timeout time.Duration
	loc     *time.Location
	now     func() time.Time
	console *console.Console
}

// SenderOption configures a Sender.
type SenderOption func(*Sender)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) SenderOption {
	return func(s *Sender) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLocation sets the zone of the login time in the header.
func WithLocation(loc *time.Location) SenderOption {
	return func(s *Sender) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) SenderOption {
	return func(s *Sender) {
		if now != nil {
			s.now = now
		}
	}
}

// WithConsole sets where delivery outcomes are reported.
func WithConsole(c *console.Console) SenderOption {
	return func(s *Sender) {
		if c != nil {
			s.console = c
		}
	}
}

// NewSender creates a Sender. A nil client uses the public Bot API.
func NewSender(client *Client, token, chatID string, opts ...SenderOption) *Sender {
	if client == nil {
		client = NewClient("")
	}
	s := &Sender{
		client:  client,
		token:   token,
		chatID:  chatID,
		timeout: DefaultTimeout,
		loc:     time.UTC,
		now:     time.Now,
		console: console.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enabled reports whether notifications will be sent.
func (s *Sender) Enabled() bool {
	return s.token != "" && s.chatID != ""
}

// Send formats body and posts it. Delivery failures are reported to the
// console and returned in the Response, never as a panic or error. Returns nil
// when the sender is disabled.
func (s *Sender) Send(ctx context.Context, body string) *Response {
	if !s.Enabled() {
		return nil
	}

	text := FormatMessage(s.now().In(s.loc), body)
	resp := s.client.SendMessage(ctx, text, SendOptions{
		Token:   s.token,
		ChatID:  s.chatID,
		Timeout: s.timeout,
	})

	if resp.Success() {
		s.console.Successf("Telegram notification sent")
	} else {
		s.console.Warnf("Telegram notification failed: %v", resp.Error)
	}

	return resp
}
