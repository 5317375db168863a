package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/app/agent"
	"pdfchat/store"
	"pdfchat/types"
)

type fakeEmbedder struct{ vector []float32 }

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return f.vector, nil
}

type fakeGenerator struct {
	answer string
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return f.answer, f.err
}

type fakeBuilder struct {
	pipeline *agent.Pipeline
	err      error
	calls    int
	sawFile  bool
}

func (f *fakeBuilder) Build(_ context.Context, path, _ string) (*agent.Pipeline, error) {
	f.calls++
	if _, statErr := os.Stat(path); statErr == nil {
		f.sawFile = true
	}
	return f.pipeline, f.err
}

func testPipeline(t *testing.T, generator *fakeGenerator) *agent.Pipeline {
	t.Helper()
	idx, err := store.NewChromemIndex("handler-test")
	require.NoError(t, err)
	require.NoError(t, idx.Add(context.Background(), []types.Entry{
		{ID: "1", Content: "some indexed text", Embedding: []float32{1, 0}},
	}))
	return agent.NewPipeline(idx, &fakeEmbedder{vector: []float32{1, 0}}, generator, 4)
}

func newTestApp(t *testing.T, builder agent.PipelineBuilder) (*fiber.App, *agent.Session, string) {
	t.Helper()
	tempDir := t.TempDir()
	session := agent.NewSession()
	handler := NewDocumentHandler(builder, session, tempDir)
	check := NewCheckHandler()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/", check.HandleRoot)
	app.Post("/upload", handler.HandleUpload)
	app.Post("/ask", handler.HandleAsk)
	return app, session, tempDir
}

func pdfUploadRequest(t *testing.T, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func askRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestRootEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t, &fakeBuilder{})

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Welcome to the Chat with your PDF API!", body["message"])
	assert.Equal(t, "/docs", body["docs_url"])
	assert.Equal(t, "/redoc", body["redoc_url"])
}

func TestUploadRejectsNonPDFContentType(t *testing.T) {
	builder := &fakeBuilder{}
	app, session, _ := newTestApp(t, builder)

	resp, err := app.Test(pdfUploadRequest(t, "notes.txt", "text/plain", []byte("plain text")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["detail"], "Only PDFs")
	// ingestion never ran and the session is untouched
	assert.Zero(t, builder.calls)
	assert.Nil(t, session.Current())
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	builder := &fakeBuilder{}
	app, session, _ := newTestApp(t, builder)

	resp, err := app.Test(pdfUploadRequest(t, "empty.pdf", "application/pdf", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["detail"], "empty")
	assert.Zero(t, builder.calls)
	assert.Nil(t, session.Current())
}

func TestUploadMissingFile(t *testing.T) {
	app, _, _ := newTestApp(t, &fakeBuilder{})

	req, err := http.NewRequest(http.MethodPost, "/upload", nil)
	require.NoError(t, err)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadSuccessReplacesSession(t *testing.T) {
	pipeline := testPipeline(t, &fakeGenerator{answer: "hi"})
	builder := &fakeBuilder{pipeline: pipeline}
	app, session, tempDir := newTestApp(t, builder)

	resp, err := app.Test(pdfUploadRequest(t, "report.pdf", "application/pdf", []byte("%PDF-1.4 fake")), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Successfully processed 'report.pdf'. Ready to answer questions.", body["message"])
	assert.Same(t, pipeline, session.Current())
	assert.True(t, builder.sawFile)

	// the temporary file is gone after the request
	files, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestUploadPipelineFailureKeepsSessionAndCleansUp(t *testing.T) {
	builder := &fakeBuilder{err: errors.New("parse failed")}
	app, session, tempDir := newTestApp(t, builder)

	resp, err := app.Test(pdfUploadRequest(t, "bad.pdf", "application/pdf", []byte("not a pdf")), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Nil(t, session.Current())

	files, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestUploadQuotaErrorIsClientError(t *testing.T) {
	builder := &fakeBuilder{err: errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")}
	app, _, _ := newTestApp(t, builder)

	resp, err := app.Test(pdfUploadRequest(t, "doc.pdf", "application/pdf", []byte("%PDF-1.4")), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["detail"], "quota")
}

func TestAskBeforeUpload(t *testing.T) {
	app, _, _ := newTestApp(t, &fakeBuilder{})

	resp, err := app.Test(askRequest(t, `{"question":"anything?"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["detail"], "No document has been processed")
}

func TestAskMissingQuestion(t *testing.T) {
	app, _, _ := newTestApp(t, &fakeBuilder{})

	resp, err := app.Test(askRequest(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAskReturnsAnswer(t *testing.T) {
	app, session, _ := newTestApp(t, &fakeBuilder{})
	session.Replace(testPipeline(t, &fakeGenerator{answer: "the answer"}))

	resp, err := app.Test(askRequest(t, `{"question":"what is it?"}`), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "the answer", body["answer"])
}

func TestAskQuotaErrorIsClientError(t *testing.T) {
	app, session, _ := newTestApp(t, &fakeBuilder{})
	session.Replace(testPipeline(t, &fakeGenerator{err: errors.New("rate limit exceeded")}))

	resp, err := app.Test(askRequest(t, `{"question":"what?"}`), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["detail"], "quota")
}

func TestAskGenericErrorIsServerError(t *testing.T) {
	app, session, _ := newTestApp(t, &fakeBuilder{})
	session.Replace(testPipeline(t, &fakeGenerator{err: errors.New("connection reset")}))

	resp, err := app.Test(askRequest(t, `{"question":"what?"}`), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
