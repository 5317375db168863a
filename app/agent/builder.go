package agent

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pdfchat/config"
	"pdfchat/loader"
	"pdfchat/model"
	"pdfchat/store"
	"pdfchat/types"
)

// PipelineBuilder turns a saved PDF into a ready-to-ask Pipeline.
type PipelineBuilder interface {
	Build(ctx context.Context, path, filename string) (*Pipeline, error)
}

// Builder runs the upload pipeline: load the PDF, split it into chunks,
// embed the chunks and populate a fresh vector index. It touches no
// shared state; the caller decides when (and whether) to publish the
// resulting Pipeline.
type Builder struct {
	cfg *config.Config
}

func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{cfg: cfg}
}

func (b *Builder) Build(ctx context.Context, path, filename string) (*Pipeline, error) {
	start := time.Now()

	if err := loader.ValidateFile(path); err != nil {
		return nil, err
	}

	pages, err := loader.LoadPDF(ctx, path)
	if err != nil {
		return nil, err
	}

	chunks, err := loader.Split(pages, b.cfg.Chunking.Size, b.cfg.Chunking.Overlap)
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", filename).Int("pages", len(pages)).Int("chunks", len(chunks)).Msg("document split")

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.PageContent
	}

	embedder, err := model.NewEmbedder(b.cfg)
	if err != nil {
		return nil, err
	}

	var embeddings [][]float32
	if len(texts) > 0 {
		embeddings, err = embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunks: %w", err)
		}
	}
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d vectors for %d chunks", len(embeddings), len(texts))
	}

	index, err := store.NewChromemIndex(uuid.NewString())
	if err != nil {
		return nil, err
	}

	entries := make([]types.Entry, len(chunks))
	for i, chunk := range chunks {
		entries[i] = types.Entry{
			ID:      uuid.NewString(),
			Content: chunk.PageContent,
			Metadata: map[string]string{
				"source": filename,
				"page":   strconv.Itoa(loader.PageNumber(chunk)),
			},
			Embedding: embeddings[i],
		}
	}
	if err := index.Add(ctx, entries); err != nil {
		return nil, err
	}

	generator, err := model.NewGenerator(b.cfg)
	if err != nil {
		return nil, err
	}

	log.Info().Str("file", filename).Dur("took", time.Since(start)).Msg("pipeline ready")
	return NewPipeline(index, embedder, generator, b.cfg.TopK), nil
}
