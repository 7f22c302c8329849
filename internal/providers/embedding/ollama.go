package embedding

import (
	"context"
	"fmt"
)

type Ollama struct {
	baseClient
}

func NewOllama(baseURL, apiKey, model string) *Ollama {
	return &Ollama{baseClient: newBaseClient(baseURL, apiKey, model)}
}

func (o *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	var result struct {
		Embeddings [][]float32 `json:"embeddings"`
	}

	payload := map[string]any{
		"model": o.model,
		"input": text,
	}
	if err := o.postJSON(ctx, "/api/embed", payload, &result); err != nil {
		return nil, err
	}

	if len(result.Embeddings) == 0 || len(result.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("ollama returned no embedding for model %s", o.model)
	}
	return result.Embeddings[0], nil
}
