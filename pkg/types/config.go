package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citegraph/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// BatchQueryConfig holds settings for the checkpointed batch-query engine.
type BatchQueryConfig struct {
	HTTPConfig `yaml:",inline"`

	// BatchSize is the number of identifiers sent per request.
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// DumpInterval is the number of batches between periodic checkpoint
	// dumps (default 10). The checkpoint is always dumped once at the end.
	DumpInterval int `json:"dump_interval" yaml:"dump_interval"`

	// BaseDelay is the floor for the adaptive inter-batch delay (default 100ms).
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay"`

	// DelayMultiplier scales the delay up on throttling and back down on
	// success (default 1.2, must be > 1).
	DelayMultiplier float64 `json:"delay_multiplier" yaml:"delay_multiplier"`

	// ErrorMarker is the substring that distinguishes a fatal remote error
	// body from a retry-worthy throttling response (default "error").
	ErrorMarker string `json:"error_marker" yaml:"error_marker"`

	// APIKey is an optional Semantic Scholar API key for higher rate limits,
	// sent as the x-api-key header.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// DatasetConfig holds settings for the snapshot dataset store.
type DatasetConfig struct {
	// SnapshotPath is the arXiv Kaggle metadata snapshot (JSON lines).
	SnapshotPath string `json:"snapshot_path" yaml:"snapshot_path"`

	// DataDir is the base directory for the dataset store and checkpoints.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PapersConfig holds settings for the paper fetch stage.
type PapersConfig struct {
	// StartYear is the inclusive lower bound on the snapshot update year.
	StartYear int `json:"start_year" yaml:"start_year"`

	// EndYear is the exclusive upper bound on the snapshot update year.
	EndYear int `json:"end_year" yaml:"end_year"`

	// SampleSize caps the number of papers queried (0 means all).
	SampleSize int `json:"sample_size" yaml:"sample_size"`

	// SampleSeed seeds the deterministic sample shuffle.
	SampleSeed int64 `json:"sample_seed" yaml:"sample_seed"`

	// CitationYears is the window after publication within which a citation
	// counts toward the citing-author set (default 3).
	CitationYears int `json:"citation_years" yaml:"citation_years"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Dataset    DatasetConfig    `json:"dataset" yaml:"dataset"`
	Papers     PapersConfig     `json:"papers" yaml:"papers"`
	BatchQuery BatchQueryConfig `json:"batch_query" yaml:"batch_query"`
}
