package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ccollicutt/autologin/pkg/login"
)

func createTestReport() *Report {
	return NewReport([]login.Result{
		{Account: "user1", Success: true, Message: "✅ user1 login succeeded", Duration: 12 * time.Second},
		{
			Account:  "user2",
			Message:  "❌ user2 login error: click failed: timeout",
			Duration: 5 * time.Second,
			Err:      errors.New("click failed: timeout"),
		},
	}, Metadata{
		RunID:     "6f1c2c3e-0000-4000-8000-000000000000",
		Target:    "https://www.netlib.re/",
		StartedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		Duration:  20 * time.Second,
	})
}

func TestNewReport(t *testing.T) {
	report := createTestReport()

	if report.Summary.Total != 2 {
		t.Errorf("Total = %d, want 2", report.Summary.Total)
	}
	if report.Summary.Succeeded != 1 {
		t.Errorf("Succeeded = %d, want 1", report.Summary.Succeeded)
	}
	if report.Summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", report.Summary.Failed)
	}
	if report.AllSucceeded() {
		t.Error("AllSucceeded() = true, want false")
	}
}

func TestNewReport_Empty(t *testing.T) {
	report := NewReport(nil, Metadata{})
	if report.Summary != (Summary{}) {
		t.Errorf("Summary = %+v, want zero", report.Summary)
	}
	if !report.AllSucceeded() {
		t.Error("AllSucceeded() = false for empty report")
	}
}

func TestReport_SummaryMessage(t *testing.T) {
	got := createTestReport().SummaryMessage()
	want := "📊 Login summary: 1/2 accounts succeeded\n\n" +
		"✅ user1 login succeeded\n" +
		"❌ user2 login error: click failed: timeout\n"
	if got != want {
		t.Errorf("SummaryMessage() = %q, want %q", got, want)
	}
}

func TestReport_SummaryLine(t *testing.T) {
	if got := createTestReport().SummaryLine(); got != "Summary: 1/2 succeeded" {
		t.Errorf("SummaryLine() = %q", got)
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{"", "text", false},
		{"text", "text", false},
		{"json", "json", false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		f, err := NewFormatter(tt.name, FormatOptions{})
		if (err != nil) != tt.wantErr {
			t.Errorf("NewFormatter(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && f.Name() != tt.wantName {
			t.Errorf("NewFormatter(%q).Name() = %q, want %q", tt.name, f.Name(), tt.wantName)
		}
	}
}

func TestTextFormatter_Format(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"=== Login Report ===",
		"[OK] user1",
		"[FAIL] user2",
		"❌ user2 login error: click failed: timeout",
		"Summary: 2 accounts, 1 succeeded, 1 failed",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Run ID") {
		t.Error("Non-verbose output should not include metadata")
	}
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Duration: 12s") {
		t.Error("Verbose output missing per-account duration")
	}
	if !strings.Contains(output, "Run ID: 6f1c2c3e") {
		t.Error("Verbose output missing run id")
	}
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if got := buf.String(); got != "autologin: 1/2 accounts succeeded\n" {
		t.Errorf("Quiet output = %q", got)
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed jsonReport
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if parsed.Summary.Succeeded != 1 || parsed.Summary.Total != 2 {
		t.Errorf("Summary = %+v", parsed.Summary)
	}
	if len(parsed.Results) != 2 {
		t.Fatalf("Results = %d, want 2", len(parsed.Results))
	}
	if parsed.Results[1].Error != "click failed: timeout" {
		t.Errorf("Results[1].Error = %q", parsed.Results[1].Error)
	}
	if parsed.Results[0].Error != "" {
		t.Errorf("Results[0].Error = %q, want empty", parsed.Results[0].Error)
	}
	if parsed.DurationMS != 20000 {
		t.Errorf("DurationMS = %d, want 20000", parsed.DurationMS)
	}
	if parsed.RunID == "" {
		t.Error("RunID missing")
	}
}

func TestJSONFormatter_Format_Quiet(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Quiet: true})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed map[string]int
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if parsed["total"] != 2 || parsed["failed"] != 1 {
		t.Errorf("Quiet output = %v", parsed)
	}
}
