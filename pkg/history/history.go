// Package history manages the dated login history file: appending entries
// and pruning entries older than the retention window.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ccollicutt/autologin/pkg/console"
	"github.com/ccollicutt/autologin/pkg/parser"
)

// DateLayout is the layout of the leading date token of every entry.
const DateLayout = "2006-01-02"

// Log is a plain-text history file with one "YYYY-MM-DD: message" entry per
// line.
type Log struct {
	path          string
	retentionDays int
	loc           *time.Location
	now           func() time.Time
	console       *console.Console
}

// Option configures a Log.
type Option func(*Log)

// WithLocation sets the zone used for entry dates.
func WithLocation(loc *time.Location) Option {
	return func(l *Log) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// WithRetentionDays sets how many calendar days of entries Rotate keeps.
func WithRetentionDays(days int) Option {
	return func(l *Log) {
		if days > 0 {
			l.retentionDays = days
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// WithConsole sets where progress and errors are reported.
func WithConsole(c *console.Console) Option {
	return func(l *Log) {
		if c != nil {
			l.console = c
		}
	}
}

// New creates a Log for path. The file is not touched until Rotate or Write
// is called.
func New(path string, opts ...Option) *Log {
	l := &Log{
		path:          path,
		retentionDays: 90,
		loc:           time.UTC,
		now:           time.Now,
		console:       console.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the file path.
func (l *Log) Path() string {
	return l.path
}

// RetentionDays returns the retention window in days.
func (l *Log) RetentionDays() int {
	return l.retentionDays
}

// Entry is a single line of the history file.
type Entry struct {
	// Raw is the original line content.
	Raw string

	// Date is the parsed leading date. Zero when Valid is false.
	Date time.Time

	// Valid reports whether the date token parsed.
	Valid bool

	// LineNum is the 1-based line number in the file.
	LineNum int
}

// Read returns every non-blank line of the file. A missing file yields no
// entries and no error.
func (l *Log) Read() ([]Entry, error) {
	f, err := os.Open(l.path) // #nosec G304 -- user-provided log path is expected
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening history file %s: %w", l.path, err)
	}
	defer f.Close()

	extractor := parser.NewDateExtractor(DateLayout, l.loc)

	// No line length limit: an overlong line is just an undated entry.
	var entries []Entry
	reader := bufio.NewReader(f)
	lineNum := 0
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lineNum++
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if strings.TrimSpace(line) != "" {
				entry := Entry{Raw: line, LineNum: lineNum}
				if date, err := extractor.Extract(line); err == nil {
					entry.Date = date
					entry.Valid = true
				}
				entries = append(entries, entry)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading history file %s: %w", l.path, err)
		}
	}

	return entries, nil
}

// RotateStats reports what Rotate did.
type RotateStats struct {
	Kept    int
	Dropped int
}

// Cutoff returns the oldest calendar date that Rotate keeps. The window is
// retentionDays dates long, today included.
func (l *Log) Cutoff() time.Time {
	now := l.now().In(l.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, l.loc)
	return today.AddDate(0, 0, -(l.retentionDays - 1))
}

// Rotate drops entries dated before Cutoff and rewrites the file with the
// rest. Blank lines and lines without a parsable date are dropped too. A
// missing file is left alone; an emptied file is truncated, not removed.
func (l *Log) Rotate() (RotateStats, error) {
	if _, err := os.Stat(l.path); errors.Is(err, fs.ErrNotExist) {
		return RotateStats{}, nil
	}

	l.console.Infof("Pruning history entries older than %d days...", l.retentionDays)

	entries, err := l.Read()
	if err != nil {
		l.console.Errorf("pruning history failed: %v", err)
		return RotateStats{}, err
	}

	cutoff := l.Cutoff()
	var b strings.Builder
	var stats RotateStats
	for _, e := range entries {
		if !e.Valid || e.Date.Before(cutoff) {
			stats.Dropped++
			continue
		}
		b.WriteString(e.Raw)
		b.WriteByte('\n')
		stats.Kept++
	}

	if err := os.WriteFile(l.path, []byte(b.String()), 0644); err != nil { // #nosec G306 -- history is not secret
		err = fmt.Errorf("rewriting history file %s: %w", l.path, err)
		l.console.Errorf("pruning history failed: %v", err)
		return stats, err
	}

	l.console.Successf("History pruned: %d kept, %d dropped", stats.Kept, stats.Dropped)
	return stats, nil
}

// Write appends "YYYY-MM-DD: message" dated in the log's zone. Failures are
// reported to the console and never returned.
func (l *Log) Write(message string) {
	line := l.now().In(l.loc).Format(DateLayout) + ": " + message + "\n"

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) // #nosec G302,G304 -- history is not secret
	if err != nil {
		l.console.Errorf("writing history failed: %v", err)
		return
	}

	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		l.console.Errorf("writing history failed: %v", err)
		return
	}
	if err := f.Close(); err != nil {
		l.console.Errorf("writing history failed: %v", err)
		return
	}

	l.console.Infof("log written: %s", message)
}
