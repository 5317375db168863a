package loader

import (
	"fmt"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// Split cuts the extracted pages into overlapping windows of roughly
// chunkSize characters with chunkOverlap characters shared between
// neighbours. The splitter prefers paragraph and sentence boundaries and
// falls back to hard character cuts; page metadata is carried over to
// every chunk cut from that page. Splitting is deterministic and an
// empty page sequence yields an empty chunk sequence.
func Split(pages []schema.Document, chunkSize, chunkOverlap int) ([]schema.Document, error) {
	if len(pages) == 0 {
		return nil, nil
	}
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)
	chunks, err := textsplitter.SplitDocuments(splitter, pages)
	if err != nil {
		return nil, fmt.Errorf("failed to split document: %w", err)
	}
	return chunks, nil
}

// PageNumber reads the page number a chunk was cut from, 0 when the
// loader attached none.
func PageNumber(doc schema.Document) int {
	switch v := doc.Metadata["page"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
