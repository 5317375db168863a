package store

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"

	"pdfchat/types"
)

// VectorIndex holds the embeddings of exactly one document and answers
// nearest-neighbour queries over them. Add is the only write operation;
// a new upload gets a new index instead of mutating an existing one.
type VectorIndex interface {
	Add(ctx context.Context, entries []types.Entry) error
	Query(ctx context.Context, embedding []float32, k int) ([]types.SearchResult, error)
	Count() int
}

// ChromemIndex is an in-memory VectorIndex backed by a chromem-go
// collection. Similarity is cosine: chromem normalizes vectors on insert
// and ranks by dot product. Nothing is persisted to disk.
type ChromemIndex struct {
	collection *chromem.Collection
}

// NewChromemIndex allocates a fresh, empty, isolated collection.
// collectionID must be unique per index; callers generate a random one
// per upload so successive or concurrent uploads never collide.
func NewChromemIndex(collectionID string) (*ChromemIndex, error) {
	db := chromem.NewDB()
	collection, err := db.CreateCollection("pdf_chat_"+collectionID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return &ChromemIndex{collection: collection}, nil
}

func (idx *ChromemIndex) Add(ctx context.Context, entries []types.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]chromem.Document, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("entry %d has an empty id", i)
		}
		if len(e.Embedding) == 0 {
			return fmt.Errorf("entry %q has an empty embedding", e.ID)
		}
		docs[i] = chromem.Document{
			ID:        e.ID,
			Content:   e.Content,
			Metadata:  e.Metadata,
			Embedding: e.Embedding,
		}
	}
	if err := idx.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

func (idx *ChromemIndex) Query(ctx context.Context, embedding []float32, k int) ([]types.SearchResult, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("empty query embedding")
	}
	// chromem rejects nResults greater than the collection size
	if count := idx.collection.Count(); k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}
	results, err := idx.collection.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}
	out := make([]types.SearchResult, len(results))
	for i, r := range results {
		out[i] = types.SearchResult{
			ID:         r.ID,
			Content:    r.Content,
			Metadata:   r.Metadata,
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

func (idx *ChromemIndex) Count() int {
	return idx.collection.Count()
}
