package embedding

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const tokenizerEncoding = "cl100k_base"

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

func getTokenizer() (*tiktoken.Tiktoken, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding(tokenizerEncoding)
	})
	return tk, tkErr
}

// truncateTokens cuts text to at most maxTokens tokens, mirroring the input
// window of BERT-style encoders. A token spans at least one byte, so texts
// no longer than maxTokens bytes are returned without tokenizing.
func truncateTokens(text string, maxTokens int) (string, error) {
	if maxTokens <= 0 || len(text) <= maxTokens {
		return text, nil
	}

	enc, err := getTokenizer()
	if err != nil {
		return "", fmt.Errorf("failed to load tokenizer: %w", err)
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text, nil
	}
	return enc.Decode(tokens[:maxTokens]), nil
}
