// Package cli implements the benefik command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benefik-labs/benefik-cli/internal/adapters/driven/ai"
	"github.com/benefik-labs/benefik-cli/internal/adapters/driven/config/file"
	"github.com/benefik-labs/benefik-cli/internal/adapters/driven/storage/memory"
	"github.com/benefik-labs/benefik-cli/internal/adapters/driven/storage/sqlite"
	"github.com/benefik-labs/benefik-cli/internal/core/ports/driven"
	"github.com/benefik-labs/benefik-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	configDir   string

	configStore *file.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "benefik",
	Short: "HMO benefits chatbot over a local knowledge base",
	Long: `benefik answers questions about Israeli HMO benefits (Maccabi,
Meuhedet, Clalit), grounded on a locally indexed knowledge base.

Run 'benefik ingest' to build the index from HTML documents, then
'benefik serve' for the HTTP API or 'benefik chat' for the terminal client.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)

		store, err := file.NewConfigStore(configDir)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		configStore = store
		logger.Debug("Configuration: %s", store.Path())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.benefik)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newEmbeddingService builds the configured embedding adapter.
func newEmbeddingService() (driven.EmbeddingService, error) {
	return ai.CreateEmbeddingService(configStore.Config().Provider)
}

// newLLMService builds the configured chat completion adapter.
func newLLMService() (driven.LLMService, error) {
	return ai.CreateLLMService(configStore.Config().Provider)
}

// newSessionStore builds the configured session store.
func newSessionStore() (driven.SessionStore, error) {
	cfg := configStore.Config().Sessions
	switch cfg.Backend {
	case "sqlite":
		return sqlite.NewSessionStore(cfg.Path)
	default:
		return memory.NewSessionStore(), nil
	}
}
