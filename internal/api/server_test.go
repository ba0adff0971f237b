package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	convopdf "github.com/porticus-lab/convo-pdf"
	"github.com/porticus-lab/convo-pdf/internal/prefs"
)

const chat = `<mat-card class="from-user-message-card-content">
  <div class="message-text-content">hello there</div>
</mat-card>
<mat-card class="to-user-message-card-content">
  <div class="paragraph"><span>general Kenobi</span></div>
</mat-card>`

// fakePrinter stands in for Chrome.
type fakePrinter struct {
	err  error
	size convopdf.PageSize
}

func (p *fakePrinter) PrintHTML(_ context.Context, _ string, size convopdf.PageSize) ([]byte, error) {
	p.size = size
	if p.err != nil {
		return nil, p.err
	}
	return []byte("%PDF-1.7 test"), nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestServer(t *testing.T, p *fakePrinter) (*Server, *prefs.MemoryStore) {
	t.Helper()
	store := &prefs.MemoryStore{}
	e := convopdf.NewExporter(p, convopdf.WithPreferences(store))
	return NewServer(e, store, quietLogger(), []string{"chrome-extension://*"}), store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, &fakePrinter{})
	w := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestExtract(t *testing.T) {
	s, _ := newTestServer(t, &fakePrinter{})
	w := do(t, s, http.MethodPost, "/api/extract", map[string]any{
		"action":  "downloadPdf",
		"options": map[string]any{"type": "conversation", "addToc": true},
		"html":    chat,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp convopdf.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "User: hello there\n\n\n\n\n\nAssistant: general Kenobi", resp.Text)
	require.Len(t, resp.Blocks, 3)
	require.Len(t, resp.Toc, 1)
	assert.Equal(t, "hello there...", resp.Toc[0].Title)
	assert.Contains(t, w.Body.String(), `"style":"userMessage"`)
}

func TestExtract_Failures(t *testing.T) {
	s, _ := newTestServer(t, &fakePrinter{})

	w := do(t, s, http.MethodPost, "/api/extract", map[string]any{"action": "logMessage", "html": chat})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/api/extract", map[string]any{"options": map[string]any{"type": "notes"}, "html": chat})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "notes")

	w = do(t, s, http.MethodPost, "/api/extract", map[string]any{"options": map[string]any{"type": "conversation"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No active tab found")

	w = do(t, s, http.MethodPost, "/api/extract", `{"html": 12}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	p := &fakePrinter{}
	s, _ := newTestServer(t, p)
	w := do(t, s, http.MethodPost, "/api/export", map[string]any{
		"options": map[string]any{"type": "conversation", "landscapeMode": true},
		"html":    chat,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="conversation.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", w.Header().Get("X-Pdf-Pages"))
	assert.Equal(t, "%PDF-1.7 test", w.Body.String())
	assert.Equal(t, 297.0, p.size.Width)
}

func TestExport_StoredPreferences(t *testing.T) {
	p := &fakePrinter{}
	s, store := newTestServer(t, p)
	require.NoError(t, store.Set(context.Background(), prefs.Preferences{AddToc: true}))

	w := do(t, s, http.MethodPost, "/api/export", map[string]any{"type": "conversation", "html": chat})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "2", w.Header().Get("X-Pdf-Pages"))
	assert.Equal(t, convopdf.A4, p.size)
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name    string
		printer *fakePrinter
		body    any
		status  int
		message string
	}{
		{"no page", &fakePrinter{}, map[string]any{"type": "conversation"}, http.StatusBadRequest, "No active tab found"},
		{"bad type", &fakePrinter{}, map[string]any{"type": "slides", "html": chat}, http.StatusBadRequest, "unsupported download type"},
		{"empty", &fakePrinter{}, map[string]any{"type": "conversation", "html": "<p>nothing</p>"}, http.StatusUnprocessableEntity,
			"No conversation text found to convert to PDF"},
		{"print", &fakePrinter{err: errors.New("chrome crashed")}, map[string]any{"html": chat}, http.StatusInternalServerError,
			"Error generating PDF: chrome crashed"},
		{"unknown field", &fakePrinter{}, map[string]any{"colour": "red"}, http.StatusBadRequest, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, tt.printer)
			w := do(t, s, http.MethodPost, "/api/export", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp convopdf.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, tt.message)
		})
	}
}

func TestPreferences(t *testing.T) {
	s, store := newTestServer(t, &fakePrinter{})

	w := do(t, s, http.MethodGet, "/api/preferences", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removeLogo":false,"landscapeMode":false,"addToc":false,"gptOnly":false}`, w.Body.String())

	w = do(t, s, http.MethodPut, "/api/preferences", `{"gptOnly":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, s, http.MethodPut, "/api/preferences", `{"addToc":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	got, err := store.Get(context.Background(), prefs.Defaults())
	require.NoError(t, err)
	assert.Equal(t, prefs.Preferences{GptOnly: true, AddToc: true}, got)

	w = do(t, s, http.MethodPut, "/api/preferences", `{"darkMode":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, &fakePrinter{})

	req := httptest.NewRequest(http.MethodOptions, "/api/export", nil)
	req.Header.Set("Origin", "chrome-extension://abcdef")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	assert.Equal(t, "chrome-extension://abcdef", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	s.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
