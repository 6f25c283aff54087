package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benefik-labs/benefik-cli/internal/adapters/driven/index/flat"
	"github.com/benefik-labs/benefik-cli/internal/core/domain"
	"github.com/benefik-labs/benefik-cli/internal/core/services"
)

var (
	searchTopK int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the index directly",
	Long: `Runs a similarity search against the built index and prints the
matching chunks with their scores. Useful for debugging retrieval
quality without going through the chat pipeline.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := configStore.Config()
	k := cfg.Retrieval.TopK
	if searchTopK > 0 {
		k = searchTopK
	}

	embedding, err := newEmbeddingService()
	if err != nil {
		return err
	}
	defer embedding.Close()

	retrieval := services.NewRetrievalService(embedding, flat.NewStore(cfg.KnowledgeBase.IndexDir))
	if err := retrieval.Reload(cmd.Context()); err != nil {
		return fmt.Errorf("load index (run 'benefik ingest' first): %w", err)
	}

	results, err := retrieval.Retrieve(cmd.Context(), args[0], k)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchText(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.RetrievedChunk) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, results []domain.RetrievedChunk) error {
	if len(results) == 0 {
		cmd.Println("No results.")
		return nil
	}
	for i, r := range results {
		cmd.Printf("%d. %.4f %s (chunk %d)\n", i+1, r.Score, r.Chunk.Source, r.Chunk.Position)
		cmd.Printf("   %s\n", r.Chunk.Content)
	}
	return nil
}
