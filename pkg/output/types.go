// Package output provides formatting and output generation for run reports.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/ccollicutt/autologin/pkg/login"
)

// Report is the complete outcome of a run.
type Report struct {
	// Summary provides aggregate counts.
	Summary Summary

	// Results holds one entry per account, in processing order.
	Results []login.Result

	// Metadata provides context about the run.
	Metadata Metadata
}

// Summary provides aggregate counts.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Metadata provides context about the run.
type Metadata struct {
	// RunID uniquely identifies the run.
	RunID string

	// Target is the site that was logged into.
	Target string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Duration is how long the run took.
	Duration time.Duration
}

// NewReport creates a Report from per-account results.
func NewReport(results []login.Result, meta Metadata) *Report {
	report := &Report{
		Results:  results,
		Metadata: meta,
		Summary:  Summary{Total: len(results)},
	}
	for _, r := range results {
		if r.Success {
			report.Summary.Succeeded++
		}
	}
	report.Summary.Failed = report.Summary.Total - report.Summary.Succeeded
	return report
}

// AllSucceeded returns true if every account logged in.
func (r *Report) AllSucceeded() bool {
	return r.Summary.Failed == 0
}

// SummaryMessage is the notification body: a count header followed by every
// account's message on its own line.
func (r *Report) SummaryMessage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Login summary: %d/%d accounts succeeded\n\n",
		r.Summary.Succeeded, r.Summary.Total)
	for _, res := range r.Results {
		b.WriteString(res.Message)
		b.WriteByte('\n')
	}
	return b.String()
}

// SummaryLine is the history entry written at the end of a run.
func (r *Report) SummaryLine() string {
	return fmt.Sprintf("Summary: %d/%d succeeded", r.Summary.Succeeded, r.Summary.Total)
}
