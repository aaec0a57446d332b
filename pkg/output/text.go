package output

import (
	"context"
	"fmt"
	"io"
	"time"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		fmt.Fprintf(w, "autologin: %d/%d accounts succeeded\n",
			report.Summary.Succeeded, report.Summary.Total)
		return nil
	}

	fmt.Fprintln(w, "=== Login Report ===")
	fmt.Fprintln(w)

	for _, res := range report.Results {
		status := "OK"
		if !res.Success {
			status = "FAIL"
		}
		fmt.Fprintf(w, "[%s] %s\n", status, res.Account)
		fmt.Fprintf(w, "  %s\n", res.Message)
		if f.opts.Verbose {
			fmt.Fprintf(w, "  Duration: %s\n", res.Duration.Round(time.Millisecond))
		}
	}
	if len(report.Results) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d accounts, %d succeeded, %d failed\n",
		report.Summary.Total,
		report.Summary.Succeeded,
		report.Summary.Failed)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Target: %s\n", report.Metadata.Target)
		fmt.Fprintf(w, "Run ID: %s\n", report.Metadata.RunID)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	}

	return nil
}
