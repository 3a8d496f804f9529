package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// streamScanBufferSize bounds a single SSE line; agent replies are
// short text, so 1 MiB is generous.
const streamScanBufferSize = 1 << 20

// EventStream is one open chat stream. Next returns raw non-blank
// lines as the server sends them; interpretation (SSE data prefix,
// JSON payload, keepalives) is the consumer's job. Close aborts a
// blocked Next with an error.
type EventStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

// OpenEventStream opens the server-push channel for a session. The
// stream stays open until the server ends a turn or Close is called;
// the passed context cancels the initial request only.
func (c *Client) OpenEventStream(ctx context.Context, sessionID string) (*EventStream, error) {
	streamPath := fmt.Sprintf("%s/chat/stream/%s", c.Config.BaseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamPath, nil)
	if err != nil {
		slog.Error("Failed to build stream request", "error", err)
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	res, err := c.streamClient.Do(req)
	if err != nil {
		slog.Error("Failed to open event stream", "error", err)
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		err := handleAPIError(res, body)
		slog.Error("Failed to open event stream", "error", err)
		return nil, err
	}

	scanner := bufio.NewScanner(res.Body)
	scanner.Buffer(make([]byte, 0, 4096), streamScanBufferSize)
	return &EventStream{body: res.Body, scanner: scanner}, nil
}

// Next blocks until the server pushes the next non-blank line. It
// returns io.EOF when the server closes the stream cleanly and the
// underlying transport error otherwise.
func (s *EventStream) Next() (string, error) {
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if line == "" {
			continue
		}
		return line, nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Close shuts the underlying connection. Safe to call more than once.
func (s *EventStream) Close() error {
	return s.body.Close()
}
