package api

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the single recovery boundary of the HTTP service: every
// error escaping a handler is classified here and turned into a
// structured JSON response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if apiErr, ok := err.(Error); ok {
		return c.Status(apiErr.Code).JSON(apiErr)
	}
	if valErr, ok := err.(ValidationError); ok {
		return c.Status(valErr.Status).JSON(valErr)
	}
	if fiberErr, ok := err.(*fiber.Error); ok {
		return c.Status(fiberErr.Code).JSON(Error{Code: fiberErr.Code, Message: fiberErr.Message})
	}

	log.Error().Err(err).Msg("request failed")
	apiErr := ErrInternal(err)
	return c.Status(apiErr.Code).JSON(apiErr)
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"detail"`
}

// Error implements the error interface
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, msg string) Error {
	return Error{
		Code:    code,
		Message: msg,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errors,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid request",
	}
}

func ErrInvalidFileType() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "Invalid file type. Only PDFs are allowed.",
	}
}

func ErrEmptyFile() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "The uploaded PDF file is empty.",
	}
}

func ErrNoDocument() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "No document has been processed. Please upload a PDF to /upload first.",
	}
}

func ErrQuotaExceeded(err error) Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: fmt.Sprintf("API quota exceeded. Please check your plan. Error: %v", err),
	}
}

func ErrInternal(err error) Error {
	return Error{
		Code:    fiber.StatusInternalServerError,
		Message: fmt.Sprintf("An unexpected error occurred: %v", err),
	}
}

// FromPipelineError maps a pipeline failure to its API error. Quota and
// rate-limit failures of the external AI provider are a client-facing
// condition; everything else is a server error.
func FromPipelineError(err error) Error {
	if IsQuotaError(err) {
		return ErrQuotaExceeded(err)
	}
	return ErrInternal(err)
}

var quotaMarkers = []string{
	"quota",
	"rate limit",
	"ratelimit",
	"resource_exhausted",
	"resource exhausted",
	"too many requests",
	"429",
}

// IsQuotaError reports whether err looks like a quota or rate-limit
// rejection from the external AI provider. The providers behind
// langchaingo expose this only through the error text, so matching is
// by substring.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
