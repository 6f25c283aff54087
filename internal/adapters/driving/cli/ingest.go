package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benefik-labs/benefik-cli/internal/adapters/driven/index/flat"
	"github.com/benefik-labs/benefik-cli/internal/core/services"
	"github.com/benefik-labs/benefik-cli/internal/normalisers/html"
	"github.com/benefik-labs/benefik-cli/internal/postprocessors/chunker"
)

var (
	ingestSourceDir string
	ingestIndexDir  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the knowledge-base index",
	Long: `Chunks, embeds and indexes every HTML document in the source
directory. On success the previous index is replaced atomically;
a failed run leaves it untouched.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSourceDir, "source", "", "source directory (overrides config)")
	ingestCmd.Flags().StringVar(&ingestIndexDir, "index", "", "index directory (overrides config)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfg := configStore.Config()
	sourceDir := cfg.KnowledgeBase.SourceDir
	if ingestSourceDir != "" {
		sourceDir = ingestSourceDir
	}
	indexDir := cfg.KnowledgeBase.IndexDir
	if ingestIndexDir != "" {
		indexDir = ingestIndexDir
	}

	embedding, err := newEmbeddingService()
	if err != nil {
		return err
	}
	defer embedding.Close()

	chunkProcessor, err := chunker.New(
		chunker.WithMaxSize(cfg.Chunking.MaxSize),
		chunker.WithStride(cfg.Chunking.Stride),
	)
	if err != nil {
		return err
	}

	ingestor := services.NewIngestService(
		sourceDir,
		html.New(),
		chunkProcessor,
		embedding,
		flat.NewStore(indexDir),
		cfg.Provider.EmbedRate,
	)

	stats, err := ingestor.Ingest(cmd.Context())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Indexed %d chunks from %d documents (%d skipped)\n",
		stats.Chunks, stats.Documents, stats.Skipped)
	return nil
}
