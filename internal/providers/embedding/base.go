package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/conv"
)

// upstream error pages end up in client-facing error tokens
const maxErrorBody = 200

type baseClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func newBaseClient(baseURL, apiKey, model string) baseClient {
	return baseClient{
		client:  &http.Client{},
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

// postJSON sends body and decodes a 200 response into out.
func (b *baseClient) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", core.BotUserAgent)
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d: %s", resp.StatusCode, conv.Snippet(string(payload), maxErrorBody))
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
