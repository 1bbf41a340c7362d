package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bordenet/bloginator-sub001/internal/draft"
	"github.com/bordenet/bloginator-sub001/internal/outline"
	"github.com/bordenet/bloginator-sub001/internal/search"
)

var generateCommand = &cobra.Command{
	Use:   "generate",
	Short: "Generate a draft from an outline",
	Long: `Dispatches one generation request per outline section through the configured
backend, validates every response for relevance and quality with bounded
retries, and assembles the draft.

With --backend deferred, requests are written to a batch directory for an
external responder and this command blocks until responses arrive or the
collection window closes. Use the poll command to resume an interrupted
collection.`,
	RunE: runGenerateCmd,
}

var (
	generateConfigPath  string
	generateOutlinePath string
	generateCorpusDir   string
	generateOut         string
	generateBackend     string
	generateBatchDir    string
	generateTimeout     int
	generateMinFraction float64
	generateRetries     int
	generateAPIKey      string
	generateVerbose     bool
)

func init() {
	generateCommand.Flags().StringVar(&generateConfigPath, "config", "", "Path to config.json file")
	generateCommand.Flags().StringVar(&generateOutlinePath, "outline", "outline.json", "Path to the outline artifact")
	generateCommand.Flags().StringVar(&generateCorpusDir, "corpus", "", "Directory of corpus documents (.txt/.md)")
	generateCommand.Flags().StringVarP(&generateOut, "out", "o", "draft.json", "Output path for the draft artifact")
	generateCommand.Flags().StringVarP(&generateBackend, "backend", "b", "", "Generation backend: immediate or deferred")
	generateCommand.Flags().StringVar(&generateBatchDir, "batch-dir", "", "Root directory for deferred batch artifacts")
	generateCommand.Flags().IntVar(&generateTimeout, "timeout", 0, "Batch collection timeout in seconds")
	generateCommand.Flags().Float64Var(&generateMinFraction, "min-fraction", 0, "Minimum fraction of responses for batch success")
	generateCommand.Flags().IntVar(&generateRetries, "max-retries", 0, "Maximum generation attempts per section")
	generateCommand.Flags().StringVar(&generateAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	generateCommand.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(generateCommand)
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(generateConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("backend") {
		cfg.Backend = generateBackend
	}
	if cmd.Flags().Changed("batch-dir") {
		cfg.BatchDir = generateBatchDir
	}
	if cmd.Flags().Changed("timeout") {
		cfg.BatchTimeoutSeconds = generateTimeout
	}
	if cmd.Flags().Changed("min-fraction") {
		cfg.MinResponseFraction = generateMinFraction
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.MaxQualityRetries = generateRetries
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = generateAPIKey
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = generateVerbose
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	loaded, err := outline.ReadFile(generateOutlinePath)
	if err != nil {
		return err
	}

	var searcher search.Searcher
	if generateCorpusDir != "" {
		mem, err := loadCorpus(generateCorpusDir)
		if err != nil {
			return err
		}
		searcher = mem
	}

	gen, closeGen, err := buildGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeGen()

	opts, err := draftOptions(cfg, gen, searcher)
	if err != nil {
		return err
	}

	result, err := draft.Run(ctx, loaded, opts)
	if err != nil {
		return fmt.Errorf("draft generation failed: %w", err)
	}

	if err := draft.WriteFile(generateOut, result); err != nil {
		return err
	}
	fmt.Printf("Draft written to %s (%d completed, %d placeholder, %d failed, avg quality %.2f)\n",
		generateOut, result.Stats.CompletedCount, result.Stats.PlaceholderCount,
		result.Stats.FailedCount, result.Stats.AvgQualityScore)
	return nil
}
