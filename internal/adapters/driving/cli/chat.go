package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/benefik-labs/benefik-cli/internal/adapters/driven/index/flat"
	"github.com/benefik-labs/benefik-cli/internal/adapters/driving/tui"
	"github.com/benefik-labs/benefik-cli/internal/core/services"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat in the terminal",
	Long: `Starts an interactive chat session against the local index,
without going through the HTTP API. Intake runs first; once your
details are collected, questions are answered from the knowledge base.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg := configStore.Config()

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
	if err := retrieval.Reload(cmd.Context()); err != nil {
		return fmt.Errorf("load index (run 'benefik ingest' first): %w", err)
	}

	chat := services.NewChatOrchestrator(sessions, llm, retrieval,
		cfg.Retrieval.TopK, cfg.Retrieval.MaxHistory)

	program := tea.NewProgram(tui.New(chat), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
