package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bordenet/bloginator-sub001/internal/backend"
	"github.com/bordenet/bloginator-sub001/internal/batch"
	"github.com/bordenet/bloginator-sub001/internal/draft"
	"github.com/bordenet/bloginator-sub001/internal/outline"
	"github.com/bordenet/bloginator-sub001/internal/search"
)

var pollCommand = &cobra.Command{
	Use:   "poll",
	Short: "Resume collection of an in-flight deferred batch",
	Long: `Re-attaches to an existing batch directory and continues waiting for
response artifacts. Collection state lives entirely in the batch directory, so
polling after a crash or restart picks up exactly where the interrupted
generate run left off without re-issuing any requests.`,
	RunE: runPollCmd,
}

var (
	pollConfigPath  string
	pollBatchDir    string
	pollOutlinePath string
	pollCorpusDir   string
	pollOut         string
	pollTimeout     int
	pollMinFraction float64
	pollVerbose     bool
)

func init() {
	pollCommand.Flags().StringVar(&pollConfigPath, "config", "", "Path to config.json file")
	pollCommand.Flags().StringVar(&pollBatchDir, "batch-dir", "", "Batch directory to resume (required)")
	pollCommand.Flags().StringVar(&pollOutlinePath, "outline", "outline.json", "Path to the outline artifact the batch was generated from")
	pollCommand.Flags().StringVar(&pollCorpusDir, "corpus", "", "Directory of corpus documents (.txt/.md)")
	pollCommand.Flags().StringVarP(&pollOut, "out", "o", "draft.json", "Output path for the draft artifact")
	pollCommand.Flags().IntVar(&pollTimeout, "timeout", 0, "Batch collection timeout in seconds")
	pollCommand.Flags().Float64Var(&pollMinFraction, "min-fraction", 0, "Minimum fraction of responses for batch success")
	pollCommand.Flags().BoolVarP(&pollVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = pollCommand.MarkFlagRequired("batch-dir")

	rootCmd.AddCommand(pollCommand)
}

func runPollCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(pollConfigPath)
	if err != nil {
		return err
	}
	cfg.Backend = string(backend.StrategyDeferred)
	if cmd.Flags().Changed("timeout") {
		cfg.BatchTimeoutSeconds = pollTimeout
	}
	if cmd.Flags().Changed("min-fraction") {
		cfg.MinResponseFraction = pollMinFraction
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = pollVerbose
	}

	loaded, err := outline.ReadFile(pollOutlinePath)
	if err != nil {
		return err
	}

	store, err := batch.OpenStore(pollBatchDir)
	if err != nil {
		return err
	}
	requests, err := store.ListRequests()
	if err != nil {
		return err
	}

	gen, err := backend.OpenDeferred(pollBatchDir)
	if err != nil {
		return err
	}

	var searcher search.Searcher
	if pollCorpusDir != "" {
		mem, err := loadCorpus(pollCorpusDir)
		if err != nil {
			return err
		}
		searcher = mem
	}

	opts, err := draftOptions(cfg, gen, searcher)
	if err != nil {
		return err
	}

	fmt.Printf("Resuming batch %s (%d requests)...\n", store.BatchID(), len(requests))
	result, err := draft.Resume(ctx, loaded, requests, opts)
	if err != nil {
		return fmt.Errorf("batch collection failed: %w", err)
	}

	if err := draft.WriteFile(pollOut, result); err != nil {
		return err
	}
	fmt.Printf("Draft written to %s (%d completed, %d placeholder, %d failed)\n",
		pollOut, result.Stats.CompletedCount, result.Stats.PlaceholderCount, result.Stats.FailedCount)
	return nil
}
