package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bordenet/bloginator-sub001/internal/llm"
	"github.com/bordenet/bloginator-sub001/internal/observability"
	"github.com/bordenet/bloginator-sub001/internal/outline"
	"github.com/bordenet/bloginator-sub001/internal/search"
)

var outlineCommand = &cobra.Command{
	Use:   "outline",
	Short: "Generate a validated outline for a topic",
	Long: `Retrieves corpus context for the topic, filters it for relevance, asks the
model for a structured outline, and gates the result on keyword coverage
before writing it to disk.`,
	RunE: runOutlineCmd,
}

var (
	outlineConfigPath string
	outlineTopic      string
	outlineAudience   string
	outlineKeywords   string
	outlineCorpusDir  string
	outlineOut        string
	outlineAPIKey     string
	outlineVerbose    bool
)

func init() {
	outlineCommand.Flags().StringVar(&outlineConfigPath, "config", "", "Path to config.json file")
	outlineCommand.Flags().StringVarP(&outlineTopic, "topic", "t", "", "Topic to outline (required)")
	outlineCommand.Flags().StringVar(&outlineAudience, "audience", "a technical audience", "Intended audience")
	outlineCommand.Flags().StringVarP(&outlineKeywords, "keywords", "k", "", "Comma-separated required keywords")
	outlineCommand.Flags().StringVar(&outlineCorpusDir, "corpus", "", "Directory of corpus documents (.txt/.md)")
	outlineCommand.Flags().StringVarP(&outlineOut, "out", "o", "outline.json", "Output path for the outline artifact")
	outlineCommand.Flags().StringVar(&outlineAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	outlineCommand.Flags().BoolVarP(&outlineVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = outlineCommand.MarkFlagRequired("topic")

	rootCmd.AddCommand(outlineCommand)
}

func runOutlineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(outlineConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = outlineAPIKey
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = outlineVerbose
	}

	apiKey, err := resolveAPIKey(cfg)
	if err != nil {
		return err
	}
	client, err := llm.NewGeminiClient(ctx, nil, apiKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	var searcher search.Searcher
	if outlineCorpusDir != "" {
		mem, err := loadCorpus(outlineCorpusDir)
		if err != nil {
			return err
		}
		searcher = mem
	}

	keywords := splitKeywords(outlineKeywords)
	fmt.Printf("Generating outline for %q...\n", outlineTopic)

	generated, warnings, err := outline.NewGenerator(client, searcher).Generate(ctx, outline.Options{
		Topic:           outlineTopic,
		Audience:        outlineAudience,
		Keywords:        keywords,
		ContextResults:  cfg.ContextResults,
		SimilarityFloor: cfg.SimilarityFloor,
		MinKeywordHits:  cfg.MinKeywordHits,
		Majority:        cfg.OutlineMajority,
	})
	for _, warning := range warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
	if err != nil {
		return fmt.Errorf("outline generation failed: %w", err)
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintOutline(generated)
	}

	if err := outline.WriteFile(outlineOut, generated); err != nil {
		return err
	}
	fmt.Printf("Outline with %d sections written to %s\n", len(generated.Sections), outlineOut)
	return nil
}
