package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citegraph/internal/batchquery"
	"github.com/pdiddy/citegraph/internal/httputil"
	"github.com/pdiddy/citegraph/internal/scholar"
)

var authorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "Bulk-fetch citing-author records from Semantic Scholar",
	Long: `Authors derives the set of citing authors from the papers checkpoint and
fetches their publication records from the Semantic Scholar author batch
endpoint. Like papers, it checkpoints as it goes and resumes on re-run.`,
	RunE: runAuthors,
}

func init() {
	authorsCmd.Flags().String("data-dir", "data", "base directory for the dataset store and checkpoints")
	authorsCmd.Flags().Int("batch-size", 100, "identifiers per batch request")
	addBatchQueryFlags(authorsCmd)

	rootCmd.AddCommand(authorsCmd)
}

func runAuthors(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	batchSize, _ := cmd.Flags().GetInt("batch-size")

	papersPath := filepath.Join(dataDir, papersCheckpoint)
	ids, err := scholar.CitingAuthors(papersPath)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("papers checkpoint %s has no citing authors; run papers first", papersPath)
	}
	fmt.Fprintf(os.Stdout, "papers checkpoint yields %d citing authors\n", len(ids))

	cfg := batchQueryConfig(cmd, batchSize)
	checkpointPath := filepath.Join(dataDir, authorsCheckpoint)
	endpoint := scholar.AuthorBatchURL()

	result, err := batchquery.Run(cmd.Context(), httputil.NewClient(cfg.HTTPConfig),
		checkpointPath, ids, scholar.AuthorFields, endpoint,
		scholar.AuthorTransform, cfg, os.Stdout)
	if err != nil {
		return err
	}
	return batchquery.WriteRunSummary(checkpointPath, endpoint, result)
}
