package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog/log"

	"pdfchat/model"
	"pdfchat/store"
)

// FallbackAnswer is returned when the model produces no answer text.
const FallbackAnswer = "No answer found."

const systemPrompt = `You are an assistant for question-answering tasks.
Use the following pieces of retrieved context to answer the question.
If you don't know the answer, just say that you don't know.
Keep the answer concise and based *only* on the provided context.

<context>
%s
</context>`

// Pipeline answers questions over one indexed document. It is immutable
// after construction; Ask never mutates it, so a Pipeline may be shared
// between concurrent readers.
type Pipeline struct {
	index     store.VectorIndex
	embedder  model.Embedder
	generator model.Generator
	topK      int
}

func NewPipeline(index store.VectorIndex, embedder model.Embedder, generator model.Generator, topK int) *Pipeline {
	return &Pipeline{
		index:     index,
		embedder:  embedder,
		generator: generator,
		topK:      topK,
	}
}

// Ask embeds the question with the same embedder used at ingestion,
// retrieves the top-k most similar chunks and asks the model to answer
// strictly from them.
func (p *Pipeline) Ask(ctx context.Context, question string) (string, error) {
	start := time.Now()
	defer func() {
		log.Debug().Dur("took", time.Since(start)).Msg("ask completed")
	}()

	queryEmbedding, err := p.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return "", fmt.Errorf("failed to embed question: %w", err)
	}

	results, err := p.index.Query(ctx, queryEmbedding, p.topK)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve context: %w", err)
	}

	var contextText strings.Builder
	for _, r := range results {
		contextText.WriteString(r.Content)
		contextText.WriteString("\n\n")
	}

	system := fmt.Sprintf(systemPrompt, contextText.String())
	if count, err := countTokens(system + question); err == nil {
		log.Debug().Int("prompt_tokens", count).Int("chunks", len(results)).Msg("submitting prompt")
	}

	answer, err := p.generator.Generate(ctx, system, question)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	if strings.TrimSpace(answer) == "" {
		return FallbackAnswer, nil
	}
	return answer, nil
}

func countTokens(text string) (int, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}
