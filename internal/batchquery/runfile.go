// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batchquery

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// RunSummary is the on-disk record of one engine run, written next to the
// checkpoint. It lets the operator inspect progress and pacing without
// parsing the checkpoint itself; it is not part of the durable contract.
type RunSummary struct {
	Endpoint        string        `yaml:"endpoint"`
	Requested       int           `yaml:"requested"`
	AlreadyResolved int           `yaml:"already_resolved"`
	Resolved        int           `yaml:"resolved"`
	Absent          int           `yaml:"absent"`
	Requests        int           `yaml:"requests"`
	FinalDelay      time.Duration `yaml:"final_delay"`
	Duration        time.Duration `yaml:"duration"`
	Timestamp       time.Time     `yaml:"timestamp"`
}

// SummaryPath derives the run summary location from the checkpoint location
// (e.g. "data/papers.json" -> "data/papers-run.yaml").
func SummaryPath(checkpointPath string) string {
	base := strings.TrimSuffix(checkpointPath, ".json")
	return base + "-run.yaml"
}

// WriteRunSummary saves the outcome of a run to the summary file for the
// given checkpoint.
func WriteRunSummary(checkpointPath, endpoint string, res RunResult) error {
	summary := RunSummary{
		Endpoint:        endpoint,
		Requested:       res.Requested,
		AlreadyResolved: res.AlreadyResolved,
		Resolved:        res.Resolved,
		Absent:          res.Absent,
		Requests:        res.Requests,
		FinalDelay:      res.FinalDelay,
		Duration:        res.Duration,
		Timestamp:       time.Now(),
	}

	data, err := yaml.Marshal(&summary)
	if err != nil {
		return fmt.Errorf("marshaling run summary: %w", err)
	}
	return os.WriteFile(SummaryPath(checkpointPath), data, 0o644)
}

// ReadRunSummary loads the summary of the last run for the given checkpoint.
func ReadRunSummary(checkpointPath string) (*RunSummary, error) {
	data, err := os.ReadFile(SummaryPath(checkpointPath))
	if err != nil {
		return nil, fmt.Errorf("reading run summary: %w", err)
	}
	var summary RunSummary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("parsing run summary: %w", err)
	}
	return &summary, nil
}
