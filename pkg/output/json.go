package output

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

type jsonSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type jsonResult struct {
	Account    string `json:"account"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

type jsonReport struct {
	RunID      string       `json:"run_id"`
	Target     string       `json:"target"`
	StartedAt  time.Time    `json:"started_at"`
	DurationMS int64        `json:"duration_ms"`
	Summary    jsonSummary  `json:"summary"`
	Results    []jsonResult `json:"results"`
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	summary := jsonSummary(report.Summary)
	if f.opts.Quiet {
		return encoder.Encode(summary)
	}

	out := jsonReport{
		RunID:      report.Metadata.RunID,
		Target:     report.Metadata.Target,
		StartedAt:  report.Metadata.StartedAt,
		DurationMS: report.Metadata.Duration.Milliseconds(),
		Summary:    summary,
		Results:    make([]jsonResult, 0, len(report.Results)),
	}
	for _, res := range report.Results {
		jr := jsonResult{
			Account:    res.Account,
			Success:    res.Success,
			Message:    res.Message,
			DurationMS: res.Duration.Milliseconds(),
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		out.Results = append(out.Results, jr)
	}

	return encoder.Encode(out)
}
