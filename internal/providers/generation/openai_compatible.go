package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
)

// OpenAICompatible sends the rendered prompt as a single user turn to any
// /v1/chat/completions server (vLLM, Ollama, LocalAI, OpenAI).
type OpenAICompatible struct {
	baseProvider
	maxTokens int
}

func NewOpenAICompatible(baseURL, apiKey, model string, timeout time.Duration, maxTokens int) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(strings.TrimSuffix(baseURL, "/"), apiKey, model, timeout),
		maxTokens:    maxTokens,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (o *OpenAICompatible) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":    o.model,
		"messages": []chatMessage{{Role: "user", Content: prompt}},
	}
	if o.maxTokens > 0 {
		payload["max_tokens"] = o.maxTokens
	}

	data, err := o.postJSON(ctx, "/v1/chat/completions", payload)
	if err != nil {
		return "", err
	}
	return parseChatCompletion(data)
}

func parseChatCompletion(data []byte) (string, error) {
	var result struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrMalformedGeneration, err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", core.ErrMalformedGeneration)
	}

	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return "", core.ErrMalformedGeneration
	}
	return text, nil
}
