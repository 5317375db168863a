package model

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"pdfchat/config"
)

// Embedder converts text into fixed-length vectors. Documents and
// queries must go through the same implementation: retrieval quality
// silently degrades when the question is embedded by a different model
// than the chunks it is compared against.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder builds the embedder for the configured provider. The
// client is created on demand so missing credentials surface on the
// first external call instead of killing the process at startup.
func NewEmbedder(cfg *config.Config) (Embedder, error) {
	switch cfg.Provider {
	case "googleai":
		client, err := newGoogleAI(&cfg.GoogleAI)
		if err != nil {
			return nil, err
		}
		return embeddings.NewEmbedder(client)
	case "openai":
		opts := []openai.Option{
			openai.WithToken(os.Getenv(cfg.OpenAI.APIKeyEnv)),
			openai.WithModel(cfg.OpenAI.Model),
			openai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
		}
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		client, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize openai client: %w", err)
		}
		return embeddings.NewEmbedder(client)
	case "ollama":
		client, err := ollama.New(
			ollama.WithServerURL(cfg.Ollama.ServerURL),
			ollama.WithModel(cfg.Ollama.EmbeddingModel),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ollama client: %w", err)
		}
		return embeddings.NewEmbedder(client)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

func newGoogleAI(cfg *config.GoogleAIConfig) (*googleai.GoogleAI, error) {
	opts := []googleai.Option{
		googleai.WithDefaultModel(cfg.Model),
		googleai.WithDefaultEmbeddingModel(cfg.EmbeddingModel),
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, googleai.WithCredentialsFile(cfg.CredentialsFile))
	}
	if key := os.Getenv(cfg.APIKeyEnv); key != "" {
		opts = append(opts, googleai.WithAPIKey(key))
	}
	client, err := googleai.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize googleai client: %w", err)
	}
	return client, nil
}
