package server

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KaramelBytes/edaloom/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, charts bool, limit int64) http.Handler {
	t.Helper()
	s, err := New(Config{
		MaxUploadBytes: limit,
		Ingest:         dataset.DefaultOptions(),
		Charts:         charts,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return s.Handler()
}

func upload(t *testing.T, h http.Handler, filename, content string, pairplot bool) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	if pairplot {
		require.NoError(t, mw.WriteField("pairplot", "1"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const sample = "a,b,label\n1,10,x\n1,10,x\n2,,y\n3,30,\n100,50,z\n"

func TestIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, false, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Show Pairplot (may take time)")
	assert.Contains(t, rec.Body.String(), "Files up to 32 MB")
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t, false, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAnalyzeRendersReport(t *testing.T) {
	rec := upload(t, newTestServer(t, true, 0), "sample.csv", sample, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "Duplicate Rows")
	assert.Contains(t, body, "Total Duplicate Rows: 1")
	assert.Contains(t, body, "data:image/png;base64,")
	assert.Contains(t, body, `alt="Pairplot"`)
	assert.NotContains(t, body, "Pairplot not requested")
}

func TestAnalyzeWithoutPairplot(t *testing.T) {
	rec := upload(t, newTestServer(t, false, 0), "sample.csv", sample, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pairplot not requested")
	assert.NotContains(t, rec.Body.String(), "data:image/png")
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	h := newTestServer(t, false, 0)

	rec := upload(t, h, "bad.csv", "a,b\n1,2,3\n", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "malformed")

	rec = upload(t, h, "notes.pdf", "a\n1\n", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported")

	rec = upload(t, h, "empty.csv", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalyzeEnforcesUploadLimit(t *testing.T) {
	rec := upload(t, newTestServer(t, false, 256), "big.csv", "a\n"+strings.Repeat("1\n", 1000), false)
	assert.Contains(t, []int{http.StatusRequestEntityTooLarge, http.StatusBadRequest}, rec.Code)
}

func TestRenderHTML(t *testing.T) {
	out := string(RenderHTML("## Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"))
	assert.Contains(t, out, `<h2 id="title">Title</h2>`)
	assert.Contains(t, out, "<td>1</td>")
}
