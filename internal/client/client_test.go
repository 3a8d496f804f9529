package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gennadis/formfillui/internal/config"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(config.Config{BaseURL: srv.URL + "/api"})
}

func TestUploadDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/upload", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "form.docx", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "docx bytes", string(content))

		fmt.Fprint(w, `{"session_id":"abc123","message":"Document uploaded successfully. Starting conversation..."}`)
	}))
	defer srv.Close()

	api := newTestClient(srv)
	resp, err := api.UploadDocument(context.Background(), "form.docx", strings.NewReader("docx bytes"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.SessionID)
	assert.NotEmpty(t, resp.Message)
}

func TestUploadErrorSurfacesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail":"Only .docx files are accepted"}`)
	}))
	defer srv.Close()

	api := newTestClient(srv)
	_, err := api.UploadDocument(context.Background(), "notes.txt", strings.NewReader("x"))
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
	assert.Equal(t, "Only .docx files are accepted", reqErr.Error())
}

func TestErrorFallbackWithoutDetailBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "<html>gateway error</html>")
	}))
	defer srv.Close()

	api := newTestClient(srv)
	err := api.SendMessage(context.Background(), "abc123", "hi")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "request failed with status 500", reqErr.Detail)
}

func TestSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat/abc123", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "I live in Berlin", body["message"])

		fmt.Fprint(w, `{"status":"processing"}`)
	}))
	defer srv.Close()

	api := newTestClient(srv)
	require.NoError(t, api.SendMessage(context.Background(), "abc123", "I live in Berlin"))
}

func TestGetStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/status/abc123", r.URL.Path)
		fmt.Fprint(w, `{
			"is_complete": true,
			"form_data": {
				"name": "Jane Doe",
				"street": "Main St 1",
				"postal_code_city": "10115 Berlin",
				"country": "Germany",
				"movies": [{"title": "Alien", "language": "English"}]
			}
		}`)
	}))
	defer srv.Close()

	api := newTestClient(srv)
	status, err := api.GetStatus(context.Background(), "abc123")
	require.NoError(t, err)
	assert.True(t, status.IsComplete)
	assert.Equal(t, "Jane Doe", status.FormData.Name)
	assert.Equal(t, "Germany", status.FormData.Country)
	require.Len(t, status.FormData.Movies, 1)
	assert.Equal(t, "Alien", status.FormData.Movies[0].Title)
}

func TestDownloadURL(t *testing.T) {
	api := NewClient(config.Config{BaseURL: "http://localhost:8000/api"})
	assert.Equal(t, "http://localhost:8000/api/download/abc123", api.DownloadURL("abc123"))
}

func TestSaveDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/download/abc123", r.URL.Path)
		w.Write([]byte("filled docx bytes"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "filled_form.docx")
	api := newTestClient(srv)
	require.NoError(t, api.SaveDocument(context.Background(), "abc123", path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "filled docx bytes", string(content))
}

func TestOpenEventStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat/stream/abc123", r.URL.Path)
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"type\":\"message\",\"content\":\"Hello!\"}\n\n")
		flusher.Flush()
		fmt.Fprint(w, ": keepalive\n\n")
		flusher.Flush()
	}))
	defer srv.Close()

	api := newTestClient(srv)
	es, err := api.OpenEventStream(context.Background(), "abc123")
	require.NoError(t, err)
	defer es.Close()

	line, err := es.Next()
	require.NoError(t, err)
	assert.Equal(t, `data: {"type":"message","content":"Hello!"}`, line)

	line, err = es.Next()
	require.NoError(t, err)
	assert.Equal(t, ": keepalive", line)

	_, err = es.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpenEventStreamRejectsUnknownSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"detail":"Session not found or expired"}`)
	}))
	defer srv.Close()

	api := newTestClient(srv)
	_, err := api.OpenEventStream(context.Background(), "gone")
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Session not found or expired", reqErr.Detail)
}
