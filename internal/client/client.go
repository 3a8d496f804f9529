package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/gennadis/formfillui/internal/chat"
	"github.com/gennadis/formfillui/internal/config"
)

const JSONContentType = "application/json"

const requestTimeout = time.Second * 30

// ErrorResponse is the backend's error body shape.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// RequestError is returned for any non-2xx response. Detail carries
// the server-provided message when the body had one.
type RequestError struct {
	StatusCode int
	Detail     string
}

func (e *RequestError) Error() string {
	return e.Detail
}

// UploadResponse is the body returned by a successful upload.
type UploadResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Client wraps the form-filler backend's HTTP API. All calls share the
// uniform error policy of handleAPIError; the chat stream uses a
// separate timeout-free http.Client since it stays open across turns.
type Client struct {
	httpClient   *http.Client
	streamClient *http.Client
	Config       *config.Config
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		streamClient: &http.Client{},
		Config:       &cfg,
	}
}

// UploadDocument sends the template as a multipart POST and returns
// the new session. File-type validation happens in the upload view
// before this is called; the backend re-checks regardless.
func (c *Client) UploadDocument(ctx context.Context, filename string, file io.Reader) (*UploadResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		slog.Error("Failed to build multipart body", "error", err)
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		slog.Error("Failed to read upload file", "error", err)
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	uploadPath := c.Config.BaseURL + "/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadPath, &buf)
	if err != nil {
		slog.Error("Failed to build upload request", "error", err)
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := c.do(req)
	if err != nil {
		slog.Error("Failed to upload document", "error", err)
		return nil, err
	}

	uploadResp := UploadResponse{}
	if err := json.Unmarshal(body, &uploadResp); err != nil {
		slog.Error("Failed to unmarshal upload response body", "error", err)
		return nil, err
	}
	return &uploadResp, nil
}

// SendMessage posts one user message. The agent's reply arrives over
// the chat stream, not in this response; the ack body is discarded.
func (c *Client) SendMessage(ctx context.Context, sessionID, text string) error {
	reqBytes, _ := json.Marshal(map[string]string{"message": text})
	chatPath := fmt.Sprintf("%s/chat/%s", c.Config.BaseURL, sessionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatPath, bytes.NewBuffer(reqBytes))
	if err != nil {
		slog.Error("Failed to build send request", "error", err)
		return err
	}
	req.Header.Set("Content-Type", JSONContentType)

	if _, err := c.do(req); err != nil {
		slog.Error("Failed to send message", "error", err)
		return err
	}
	return nil
}

// GetStatus fetches the completion flag and collected form fields.
func (c *Client) GetStatus(ctx context.Context, sessionID string) (*chat.Status, error) {
	statusPath := fmt.Sprintf("%s/status/%s", c.Config.BaseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusPath, nil)
	if err != nil {
		slog.Error("Failed to build status request", "error", err)
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		slog.Error("Failed to get session status", "error", err)
		return nil, err
	}

	status := chat.Status{}
	if err := json.Unmarshal(body, &status); err != nil {
		slog.Error("Failed to unmarshal status response body", "error", err)
		return nil, err
	}
	return &status, nil
}

// DownloadURL returns the download endpoint for a session. Pure string
// construction, no network call.
func (c *Client) DownloadURL(sessionID string) string {
	return fmt.Sprintf("%s/download/%s", c.Config.BaseURL, sessionID)
}

// SaveDocument fetches the filled document and writes it to path.
func (c *Client) SaveDocument(ctx context.Context, sessionID, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(sessionID), nil)
	if err != nil {
		slog.Error("Failed to build download request", "error", err)
		return err
	}

	body, err := c.do(req)
	if err != nil {
		slog.Error("Failed to download document", "error", err)
		return err
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		slog.Error("Failed to write downloaded document", "error", err, "path", path)
		return err
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if err := handleAPIError(res, body); err != nil {
		return nil, err
	}
	return body, nil
}

// handleAPIError turns a non-2xx response into a RequestError carrying
// the server's detail message, with a generic fallback when the body
// is not the expected shape.
func handleAPIError(res *http.Response, body []byte) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	apiErr := ErrorResponse{}
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Detail == "" {
		apiErr.Detail = fmt.Sprintf("request failed with status %d", res.StatusCode)
	}
	return &RequestError{StatusCode: res.StatusCode, Detail: apiErr.Detail}
}
