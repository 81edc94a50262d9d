package liveview

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, oldHTML, newHTML string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.html")
	newPath := filepath.Join(dir, "new.html")
	require.NoError(t, os.WriteFile(oldPath, []byte(oldHTML), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte(newHTML), 0o644))
	return oldPath, newPath
}

func TestHandler_GETRendersDiff(t *testing.T) {
	oldPath, newPath := writeFiles(t, "<p>Foo bar baz</p>", "<p>Foo blah baz</p>")
	h := &Handler{OldPath: oldPath, NewPath: newPath}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `<div class="diff">`)
	assert.Contains(t, body, "<del")
	assert.Contains(t, body, "<ins")
}

func TestHandler_MissingFileIs500(t *testing.T) {
	h := &Handler{OldPath: filepath.Join(t.TempDir(), "absent.html"), NewPath: filepath.Join(t.TempDir(), "absent.html")}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_RerendersOnEveryRequest(t *testing.T) {
	oldPath, newPath := writeFiles(t, "<p>one</p>", "<p>one</p>")
	h := &Handler{OldPath: oldPath, NewPath: newPath}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotContains(t, rec.Body.String(), "<ins")

	require.NoError(t, os.WriteFile(newPath, []byte("<p>one more</p>"), 0o644))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), "<ins")
}
