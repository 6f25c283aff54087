package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/benefik-labs/benefik-cli/internal/core/domain"
)

// Default configuration values.
const (
	DefaultChunkMaxSize   = 700
	DefaultChunkStride    = 100
	DefaultTopK           = 4
	DefaultMaxHistory     = 10
	DefaultListenAddr     = ":8080"
	DefaultProvider       = "openai"
	DefaultSessionBackend = "memory"
	DefaultEmbedRate      = 8
)

// Environment variables consulted for secrets and endpoint overrides.
const (
	EnvAPIKey  = "BENEFIK_OPENAI_API_KEY"
	EnvBaseURL = "BENEFIK_OPENAI_BASE_URL"
)

// Config is the resolved application configuration.
type Config struct {
	KnowledgeBase KnowledgeBaseConfig `toml:"knowledge_base"`
	Chunking      ChunkingConfig      `toml:"chunking"`
	Retrieval     RetrievalConfig     `toml:"retrieval"`
	Provider      ProviderConfig      `toml:"provider"`
	Server        ServerConfig        `toml:"server"`
	Sessions      SessionConfig       `toml:"sessions"`
}

// KnowledgeBaseConfig locates the source documents and built artifacts.
type KnowledgeBaseConfig struct {
	// SourceDir holds the raw HTML documents to ingest.
	SourceDir string `toml:"source_dir"`

	// IndexDir holds the built index artifacts.
	IndexDir string `toml:"index_dir"`
}

// ChunkingConfig controls how documents are split before embedding.
type ChunkingConfig struct {
	MaxSize int `toml:"max_size"`
	Stride  int `toml:"stride"`
}

// RetrievalConfig controls answer grounding.
type RetrievalConfig struct {
	// TopK is how many chunks are retrieved per question.
	TopK int `toml:"top_k"`

	// MaxHistory is how many prior turns are replayed to the model.
	MaxHistory int `toml:"max_history"`
}

// ProviderConfig selects and configures the AI backend.
type ProviderConfig struct {
	// Name is the provider to use: "openai" or "ollama".
	Name string `toml:"name"`

	// BaseURL overrides the provider endpoint. For Azure-hosted
	// deployments set this to the resource endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey is resolved from BENEFIK_OPENAI_API_KEY when empty.
	APIKey string `toml:"-"`

	// EmbeddingModel is the embedding model name.
	EmbeddingModel string `toml:"embedding_model"`

	// ChatModel is the chat completion model name.
	ChatModel string `toml:"chat_model"`

	// EmbedRate caps embedding requests per second during ingestion.
	EmbedRate int `toml:"embed_rate"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `toml:"timeout"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// SessionConfig configures conversation persistence.
type SessionConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `toml:"backend"`

	// Path is the SQLite database file, used when Backend is "sqlite".
	Path string `toml:"path"`
}

// ConfigStore loads configuration from a TOML file and the environment.
type ConfigStore struct {
	filePath string
	config   Config
}

// NewConfigStore loads configuration from configDir/config.toml,
// falling back to ~/.benefik/config.toml. A missing file yields the
// defaults. A .env file in the working directory, if present, is
// loaded before secrets are resolved.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".benefik")
	}

	// Absent .env is fine, the environment may already be set.
	_ = godotenv.Load()

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		config:   defaults(),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Config returns the resolved configuration.
func (s *ConfigStore) Config() Config {
	return s.config
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Load reads the TOML file, applies environment overrides, and
// validates the result.
func (s *ConfigStore) Load() error {
	cfg := defaults()

	data, err := os.ReadFile(s.filePath)
	switch {
	case os.IsNotExist(err):
		// No config file yet, run on defaults.
	case err != nil:
		return err
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("%w: parse %s: %v", domain.ErrConfiguration, s.filePath, err)
		}
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.Provider.APIKey = key
	}
	if url := os.Getenv(EnvBaseURL); url != "" {
		cfg.Provider.BaseURL = url
	}

	if err := validate(cfg); err != nil {
		return err
	}

	s.config = cfg
	return nil
}

func defaults() Config {
	return Config{
		KnowledgeBase: KnowledgeBaseConfig{
			SourceDir: "knowledge_base",
			IndexDir:  "index",
		},
		Chunking: ChunkingConfig{
			MaxSize: DefaultChunkMaxSize,
			Stride:  DefaultChunkStride,
		},
		Retrieval: RetrievalConfig{
			TopK:       DefaultTopK,
			MaxHistory: DefaultMaxHistory,
		},
		Provider: ProviderConfig{
			Name:      DefaultProvider,
			EmbedRate: DefaultEmbedRate,
		},
		Server: ServerConfig{
			ListenAddr: DefaultListenAddr,
		},
		Sessions: SessionConfig{
			Backend: DefaultSessionBackend,
		},
	}
}

func validate(cfg Config) error {
	if cfg.Chunking.MaxSize <= 0 {
		return fmt.Errorf("%w: chunking.max_size must be positive", domain.ErrConfiguration)
	}
	if cfg.Chunking.Stride < 0 || cfg.Chunking.Stride >= cfg.Chunking.MaxSize {
		return fmt.Errorf("%w: chunking.stride must be in [0, max_size)", domain.ErrConfiguration)
	}
	if cfg.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval.top_k must be positive", domain.ErrConfiguration)
	}
	if cfg.Retrieval.MaxHistory < 0 {
		return fmt.Errorf("%w: retrieval.max_history must not be negative", domain.ErrConfiguration)
	}
	switch cfg.Provider.Name {
	case "openai", "ollama":
	default:
		return fmt.Errorf("%w: unknown provider %q", domain.ErrConfiguration, cfg.Provider.Name)
	}
	switch cfg.Sessions.Backend {
	case "memory":
	case "sqlite":
		if cfg.Sessions.Path == "" {
			return fmt.Errorf("%w: sessions.path is required for the sqlite backend", domain.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown session backend %q", domain.ErrConfiguration, cfg.Sessions.Backend)
	}
	return nil
}
