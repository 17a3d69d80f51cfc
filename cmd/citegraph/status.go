package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citegraph/internal/batchquery"
	"github.com/pdiddy/citegraph/internal/dataset"
	"github.com/pdiddy/citegraph/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report dataset store and checkpoint progress",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().String("data-dir", "data", "base directory for the dataset store and checkpoints")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")

	store, err := dataset.Open(types.DatasetConfig{DataDir: dataDir})
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Count(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("dataset store: %d papers\n", count)

	for _, name := range []string{papersCheckpoint, authorsCheckpoint} {
		printCheckpointStatus(filepath.Join(dataDir, name), name)
	}
	return nil
}

// printCheckpointStatus reports one checkpoint's resolved/absent counts and
// the summary of its last run, when either exists.
func printCheckpointStatus(path, name string) {
	ck, err := batchquery.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s: %v\n", name, err)
		return
	}
	if ck.Len() == 0 {
		fmt.Printf("%s: no checkpoint\n", name)
		return
	}

	resolved, absent := ck.Counts()
	fmt.Printf("%s: %d entries (%d resolved, %d absent)\n", name, ck.Len(), resolved, absent)

	summary, err := batchquery.ReadRunSummary(path)
	if err != nil {
		return
	}
	fmt.Printf("  last run: %s, %d requests, final delay %v, took %v\n",
		summary.Timestamp.Format("2006-01-02 15:04:05"), summary.Requests,
		summary.FinalDelay, summary.Duration)
}
