package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestIsQuotaError(t *testing.T) {
	cases := []struct {
		err   error
		quota bool
	}{
		{nil, false},
		{errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"), true},
		{errors.New("Quota exceeded for quota metric"), true},
		{errors.New("rate limit reached for requests"), true},
		{errors.New("Too Many Requests"), true},
		{fmt.Errorf("failed to embed chunks: %w", errors.New("resource exhausted")), true},
		{errors.New("connection refused"), false},
		{errors.New("invalid PDF file"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.quota, IsQuotaError(tc.err), "err: %v", tc.err)
	}
}

func TestFromPipelineError(t *testing.T) {
	quota := FromPipelineError(errors.New("429 too many requests"))
	assert.Equal(t, fiber.StatusBadRequest, quota.Code)
	assert.Contains(t, quota.Message, "quota")

	generic := FromPipelineError(errors.New("network down"))
	assert.Equal(t, fiber.StatusInternalServerError, generic.Code)
	assert.Contains(t, generic.Message, "unexpected error")
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, ErrInvalidFileType().Message, "Only PDFs are allowed")
	assert.Contains(t, ErrEmptyFile().Message, "empty")
	assert.Contains(t, ErrNoDocument().Message, "upload a PDF to /upload first")
	assert.Equal(t, fiber.StatusBadRequest, ErrNoDocument().Code)
}
