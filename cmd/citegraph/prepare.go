package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citegraph/internal/dataset"
	"github.com/pdiddy/citegraph/pkg/types"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Filter the arXiv metadata snapshot into the dataset store",
	Long: `Prepare streams the arXiv Kaggle metadata snapshot (JSON lines), keeps
papers carrying at least one cs.* category, and stores them in the local
SQLite dataset store. Re-running replaces existing entries, so an updated
snapshot can be ingested in place.`,
	RunE: runPrepare,
}

func init() {
	prepareCmd.Flags().String("snapshot", "", "path to arxiv-metadata-oai-snapshot.json (required)")
	prepareCmd.Flags().String("data-dir", "data", "base directory for the dataset store and checkpoints")

	rootCmd.AddCommand(prepareCmd)
}

func runPrepare(cmd *cobra.Command, args []string) error {
	snapshot, _ := cmd.Flags().GetString("snapshot")
	if snapshot == "" {
		return fmt.Errorf("provide the snapshot path via --snapshot")
	}
	dataDir, _ := cmd.Flags().GetString("data-dir")
	cfg := types.DatasetConfig{SnapshotPath: snapshot, DataDir: dataDir}

	f, err := os.Open(cfg.SnapshotPath)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	store, err := dataset.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), f, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Kept == 0 {
		return fmt.Errorf("snapshot yielded no CS papers")
	}
	return nil
}
