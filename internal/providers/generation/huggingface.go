package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
)

// Params are the decoding options sent with every text2text request.
type Params struct {
	MaxLength     int
	NumBeams      int
	EarlyStopping bool
}

// HuggingFace calls a text2text-generation model on the Inference API or a
// self-hosted text-generation endpoint with the same contract.
type HuggingFace struct {
	baseProvider
	params Params
}

func NewHuggingFace(baseURL, apiKey, model string, timeout time.Duration, params Params) *HuggingFace {
	return &HuggingFace{
		baseProvider: newBaseProvider(strings.TrimSuffix(baseURL, "/"), apiKey, model, timeout),
		params:       params,
	}
}

func (h *HuggingFace) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"inputs": prompt,
		"parameters": map[string]any{
			"max_length":           h.params.MaxLength,
			"num_beams":            h.params.NumBeams,
			"early_stopping":       h.params.EarlyStopping,
			"num_return_sequences": 1,
		},
		"options": map[string]any{
			"wait_for_model": true,
		},
	}

	data, err := h.postJSON(ctx, "/models/"+h.model, payload)
	if err != nil {
		return "", err
	}
	return parseHuggingFaceResponse(data)
}

func parseHuggingFaceResponse(data []byte) (string, error) {
	var result []struct {
		GeneratedText *string `json:"generated_text"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrMalformedGeneration, err)
	}
	if len(result) == 0 || result[0].GeneratedText == nil {
		return "", core.ErrMalformedGeneration
	}

	text := strings.TrimSpace(*result[0].GeneratedText)
	if text == "" {
		return "", core.ErrMalformedGeneration
	}
	return text, nil
}
