// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batchquery

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSummaryPath(t *testing.T) {
	tests := []struct {
		checkpoint string
		want       string
	}{
		{"data/papers.json", "data/papers-run.yaml"},
		{"data/authors.json", "data/authors-run.yaml"},
		{"checkpoint", "checkpoint-run.yaml"},
	}
	for _, tt := range tests {
		if got := SummaryPath(tt.checkpoint); got != tt.want {
			t.Errorf("SummaryPath(%q) = %q, want %q", tt.checkpoint, got, tt.want)
		}
	}
}

func TestRunSummaryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.json")
	res := RunResult{
		Requested:       100,
		AlreadyResolved: 40,
		Resolved:        55,
		Absent:          5,
		Requests:        7,
		FinalDelay:      144 * time.Millisecond,
		Duration:        3 * time.Second,
	}

	if err := WriteRunSummary(path, "https://api.example.org/batch", res); err != nil {
		t.Fatalf("WriteRunSummary: %v", err)
	}

	summary, err := ReadRunSummary(path)
	if err != nil {
		t.Fatalf("ReadRunSummary: %v", err)
	}
	if summary.Endpoint != "https://api.example.org/batch" {
		t.Errorf("Endpoint = %q", summary.Endpoint)
	}
	if summary.Requested != 100 || summary.AlreadyResolved != 40 {
		t.Errorf("Requested/AlreadyResolved = %d/%d", summary.Requested, summary.AlreadyResolved)
	}
	if summary.Resolved != 55 || summary.Absent != 5 || summary.Requests != 7 {
		t.Errorf("Resolved/Absent/Requests = %d/%d/%d", summary.Resolved, summary.Absent, summary.Requests)
	}
	if summary.FinalDelay != 144*time.Millisecond {
		t.Errorf("FinalDelay = %v", summary.FinalDelay)
	}
	if summary.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestReadRunSummaryMissing(t *testing.T) {
	if _, err := ReadRunSummary(filepath.Join(t.TempDir(), "papers.json")); err == nil {
		t.Error("expected error for missing summary file")
	}
}
