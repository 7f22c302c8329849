package embedding

import (
	"context"
	"fmt"
)

// OpenAI talks to any server exposing the OpenAI embeddings endpoint
// (OpenAI, vLLM, text-embeddings-inference, LocalAI).
type OpenAI struct {
	baseClient
}

func NewOpenAI(baseURL, apiKey, model string) *OpenAI {
	return &OpenAI{baseClient: newBaseClient(baseURL, apiKey, model)}
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	var result struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}

	payload := map[string]any{
		"model": o.model,
		"input": []string{text},
	}
	if err := o.postJSON(ctx, "/v1/embeddings", payload, &result); err != nil {
		return nil, err
	}

	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embeddings endpoint returned no data for model %s", o.model)
	}
	return result.Data[0].Embedding, nil
}
