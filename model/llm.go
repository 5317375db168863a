package model

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"pdfchat/config"
)

// Generator produces a single answer from a system instruction and a
// user prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// ChatGenerator wraps a langchaingo chat model. Generation runs at
// temperature 0 to keep answers factual and low-variance.
type ChatGenerator struct {
	llm llms.Model
}

func NewGenerator(cfg *config.Config) (*ChatGenerator, error) {
	llm, err := newChatModel(cfg)
	if err != nil {
		return nil, err
	}
	return &ChatGenerator{llm: llm}, nil
}

func (g *ChatGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	resp, err := g.llm.GenerateContent(ctx, messages, llms.WithTemperature(0))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

func newChatModel(cfg *config.Config) (llms.Model, error) {
	switch cfg.Provider {
	case "googleai":
		return newGoogleAI(&cfg.GoogleAI)
	case "openai":
		opts := []openai.Option{
			openai.WithToken(os.Getenv(cfg.OpenAI.APIKeyEnv)),
			openai.WithModel(cfg.OpenAI.Model),
		}
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize openai client: %w", err)
		}
		return llm, nil
	case "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.Ollama.ServerURL),
			ollama.WithModel(cfg.Ollama.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ollama client: %w", err)
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
