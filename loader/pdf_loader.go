package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
)

// ValidateFile runs a structural validation of the saved PDF before any
// text extraction. Content sniffing at the HTTP layer only checks the
// declared type; this catches non-PDF bytes behind a spoofed header.
func ValidateFile(path string) error {
	if err := api.ValidateFile(path, nil); err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	return nil
}

// LoadPDF extracts the text of every page of the PDF at path, in order.
// Each returned document is one page; its metadata carries the page
// number so chunks can be traced back to their source.
func LoadPDF(ctx context.Context, path string) ([]schema.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pages, err := documentloaders.NewPDF(f, stat.Size()).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}
	return pages, nil
}
