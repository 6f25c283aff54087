package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/benefik-labs/benefik-cli/internal/adapters/driven/index/flat"
	"github.com/benefik-labs/benefik-cli/internal/adapters/driving/httpapi"
	"github.com/benefik-labs/benefik-cli/internal/core/domain"
	"github.com/benefik-labs/benefik-cli/internal/core/services"
	"github.com/benefik-labs/benefik-cli/internal/logger"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over HTTP",
	Long: `Loads the index artifacts and serves POST /chat and GET /health.

With --watch the artifact directory is observed and a re-ingested
index is picked up without restarting; in-flight requests keep the
snapshot they started with.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the index when artifacts change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := configStore.Config()
	addr := cfg.Server.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	embedding, err := newEmbeddingService()
	if err != nil {
		return err
	}
	defer embedding.Close()

	llm, err := newLLMService()
	if err != nil {
		return err
	}
	defer llm.Close()

	sessions, err := newSessionStore()
	if err != nil {
		return err
	}
	defer sessions.Close()

	retrieval := services.NewRetrievalService(embedding, flat.NewStore(cfg.KnowledgeBase.IndexDir))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Serving before ingestion is allowed; /health reports the index
	// as not loaded and /chat QA turns fail until artifacts appear.
	if err := retrieval.Reload(ctx); err != nil {
		if !errors.Is(err, domain.ErrIndexNotLoaded) {
			return err
		}
		logger.Warn("No index artifacts in %s, run 'benefik ingest'", cfg.KnowledgeBase.IndexDir)
	}

	if serveWatch {
		go func() {
			err := flat.Watch(ctx, cfg.KnowledgeBase.IndexDir, func() {
				if err := retrieval.Reload(context.WithoutCancel(ctx)); err != nil {
					logger.Warn("Index reload failed: %v", err)
				}
			})
			if err != nil {
				logger.Warn("Index watch stopped: %v", err)
			}
		}()
	}

	chat := services.NewChatOrchestrator(sessions, llm, retrieval,
		cfg.Retrieval.TopK, cfg.Retrieval.MaxHistory)

	handler := httpapi.NewHandler(chat, retrieval)
	server := httpapi.NewServer(addr, httpapi.NewRouter(handler))
	return server.ListenAndServe(ctx)
}
