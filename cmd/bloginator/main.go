// Package main provides the bloginator CLI: outline generation, draft
// generation, and deferred-batch polling.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bloginator",
	Short: "Corpus-grounded draft generator",
	Long:  "Bloginator turns a topic into a validated outline and a multi-section draft, grounding every section in corpus search results and gating generated content on keyword relevance and quality.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
