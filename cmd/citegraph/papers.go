package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citegraph/internal/batchquery"
	"github.com/pdiddy/citegraph/internal/dataset"
	"github.com/pdiddy/citegraph/internal/httputil"
	"github.com/pdiddy/citegraph/internal/scholar"
	"github.com/pdiddy/citegraph/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "citegraph/0.1"

	papersCheckpoint  = "papers.json"
	authorsCheckpoint = "authors.json"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Bulk-fetch paper records from Semantic Scholar",
	Long: `Papers selects a deterministic sample of arXiv ids from the dataset store
and fetches their records from the Semantic Scholar paper batch endpoint.
Results accumulate in the papers checkpoint; identifiers already resolved
there are never queried again, so the command can be re-run after an
interruption or a rate-limit abort and picks up where it left off.`,
	RunE: runPapers,
}

func init() {
	papersCmd.Flags().String("data-dir", "data", "base directory for the dataset store and checkpoints")
	papersCmd.Flags().Int("start-year", 2011, "inclusive lower bound on the snapshot update year")
	papersCmd.Flags().Int("end-year", 2021, "exclusive upper bound on the snapshot update year")
	papersCmd.Flags().Int("sample", 20, "number of papers to query (0 = all)")
	papersCmd.Flags().Int64("seed", 0, "seed for the deterministic sample shuffle")
	papersCmd.Flags().Int("citation-years", 3, "citation window for the citing-author set")
	papersCmd.Flags().Int("batch-size", 20, "identifiers per batch request")
	addBatchQueryFlags(papersCmd)

	rootCmd.AddCommand(papersCmd)
}

// addBatchQueryFlags registers the engine tuning flags shared by the fetch
// commands.
func addBatchQueryFlags(cmd *cobra.Command) {
	cmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	cmd.Flags().Duration("base-delay", batchquery.DefaultBaseDelay, "floor for the adaptive inter-batch delay")
	cmd.Flags().Float64("delay-multiplier", batchquery.DefaultDelayMultiplier, "backoff multiplier applied on throttling")
	cmd.Flags().Int("dump-interval", batchquery.DefaultDumpInterval, "batches between periodic checkpoint dumps")
	cmd.Flags().String("error-marker", "error", "body substring marking a fatal remote error")
}

// batchQueryConfig assembles the engine config from flags, viper, and secrets.
func batchQueryConfig(cmd *cobra.Command, batchSize int) types.BatchQueryConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	baseDelay, _ := cmd.Flags().GetDuration("base-delay")
	multiplier, _ := cmd.Flags().GetFloat64("delay-multiplier")
	dumpInterval, _ := cmd.Flags().GetInt("dump-interval")
	errorMarker, _ := cmd.Flags().GetString("error-marker")

	return types.BatchQueryConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		BatchSize:       batchSize,
		DumpInterval:    dumpInterval,
		BaseDelay:       baseDelay,
		DelayMultiplier: multiplier,
		ErrorMarker:     errorMarker,
		APIKey:          secretDefault("semantic-scholar-api-key", viper.GetString("semantic_scholar_api_key")),
	}
}

func runPapers(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	startYear, _ := cmd.Flags().GetInt("start-year")
	endYear, _ := cmd.Flags().GetInt("end-year")
	sample, _ := cmd.Flags().GetInt("sample")
	seed, _ := cmd.Flags().GetInt64("seed")
	citationYears, _ := cmd.Flags().GetInt("citation-years")
	batchSize, _ := cmd.Flags().GetInt("batch-size")

	papersCfg := types.PapersConfig{
		StartYear:     startYear,
		EndYear:       endYear,
		SampleSize:    sample,
		SampleSeed:    seed,
		CitationYears: citationYears,
	}

	store, err := dataset.Open(types.DatasetConfig{DataDir: dataDir})
	if err != nil {
		return err
	}
	defer store.Close()

	arxivIDs, err := store.Select(cmd.Context(), papersCfg)
	if err != nil {
		return err
	}
	if len(arxivIDs) == 0 {
		return fmt.Errorf("dataset store has no papers in [%d, %d); run prepare first", startYear, endYear)
	}

	ids := make([]string, len(arxivIDs))
	for i, id := range arxivIDs {
		ids[i] = scholar.ArxivID(id)
	}

	cfg := batchQueryConfig(cmd, batchSize)
	checkpointPath := filepath.Join(dataDir, papersCheckpoint)
	endpoint := scholar.PaperBatchURL()

	result, err := batchquery.Run(cmd.Context(), httputil.NewClient(cfg.HTTPConfig),
		checkpointPath, ids, scholar.PaperFields, endpoint,
		scholar.PaperTransform(papersCfg.CitationYears), cfg, os.Stdout)
	if err != nil {
		return err
	}
	return batchquery.WriteRunSummary(checkpointPath, endpoint, result)
}
