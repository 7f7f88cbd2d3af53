package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPBridge forwards suggestion requests to the external LLM service over
// plain request/response HTTP. No retries here; the engine falls back to the
// deterministic tables on any error.
type HTTPBridge struct {
	baseURL string
	client  *http.Client
}

func NewHTTPBridge(baseURL string, timeout time.Duration) *HTTPBridge {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HTTPBridge{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type connectorRequest struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

type connectorResponse struct {
	Connector string `json:"connector"`
}

func (b *HTTPBridge) SuggestConnector(ctx context.Context, previous, current string) (string, error) {
	var res connectorResponse
	err := b.post(ctx, "/v1/connector", connectorRequest{Previous: previous, Current: current}, &res)
	if err != nil {
		return "", err
	}
	conn := strings.TrimSpace(res.Connector)
	if conn == "" {
		return "", fmt.Errorf("connector service returned empty connector")
	}
	return conn, nil
}

type questionRequest struct {
	Stage int `json:"stage"`
}

type questionResponse struct {
	Question string `json:"question"`
}

func (b *HTTPBridge) SuggestQuestion(ctx context.Context, stage int) (string, error) {
	var res questionResponse
	err := b.post(ctx, "/v1/question", questionRequest{Stage: stage}, &res)
	if err != nil {
		return "", err
	}
	q := strings.TrimSpace(res.Question)
	if q == "" {
		return "", fmt.Errorf("connector service returned empty question")
	}
	return q, nil
}

func (b *HTTPBridge) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return fmt.Errorf("connector service status %d: %s", res.StatusCode, string(body))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
