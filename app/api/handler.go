package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"pdfchat/app/agent"
	"pdfchat/types"
)

type DocumentHandler struct {
	builder agent.PipelineBuilder
	session *agent.Session
	tempDir string
}

func NewDocumentHandler(builder agent.PipelineBuilder, session *agent.Session, tempDir string) *DocumentHandler {
	return &DocumentHandler{
		builder: builder,
		session: session,
		tempDir: tempDir,
	}
}

// HandleUpload accepts one PDF, runs the full ingestion pipeline
// synchronously and, on success, replaces the process session. The
// temporary file is removed before the response goes out, success or
// failure. Session state is untouched on any failure.
func (h *DocumentHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ErrBadRequest()
	}

	if fileHeader.Header.Get("Content-Type") != "application/pdf" {
		return ErrInvalidFileType()
	}
	if fileHeader.Size == 0 {
		return ErrEmptyFile()
	}

	path := filepath.Join(h.tempDir, sanitizeFilename(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, path); err != nil {
		return fmt.Errorf("failed to save uploaded file: %w", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to remove temporary file")
		}
	}()

	pipeline, err := h.builder.Build(context.Background(), path, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Str("file", fileHeader.Filename).Msg("upload pipeline failed")
		return FromPipelineError(err)
	}

	h.session.Replace(pipeline)

	return c.JSON(types.UploadResponse{
		Message: fmt.Sprintf("Successfully processed '%s'. Ready to answer questions.", fileHeader.Filename),
	})
}

// HandleAsk answers a question over the currently indexed document.
// Asking is a pure read: the session is unchanged whether the call
// succeeds or fails.
func (h *DocumentHandler) HandleAsk(c *fiber.Ctx) error {
	var params types.AskParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	pipeline := h.session.Current()
	if pipeline == nil {
		return ErrNoDocument()
	}

	answer, err := pipeline.Ask(context.Background(), params.Question)
	if err != nil {
		log.Error().Err(err).Msg("ask failed")
		return FromPipelineError(err)
	}

	return c.JSON(types.AskResponse{Answer: answer})
}

// sanitizeFilename keeps uploads from escaping the temp directory.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "..", "_")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	return filepath.Base(name)
}
