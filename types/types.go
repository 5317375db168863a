package types

// Chunk is one bounded text segment cut from an uploaded document,
// together with the metadata it inherits from its source page.
type Chunk struct {
	ID      string
	Content string
	Source  string
	Page    int
}

// Entry is what the vector index stores for a single chunk.
type Entry struct {
	ID        string
	Content   string
	Metadata  map[string]string
	Embedding []float32
}

// SearchResult is a retrieved chunk with its similarity score.
type SearchResult struct {
	ID         string
	Content    string
	Metadata   map[string]string
	Similarity float32
}
