package config

import (
	"context"
	"fmt"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/pkg/log"
	"github.com/caarlos0/env/v11"
)

// MaxTopK bounds the number of contexts a single answer is generated from.
const MaxTopK = 3

// RetrievalConfig holds the ranking thresholds. The defaults are the tuned
// values the knowledge base was curated against.
type RetrievalConfig struct {
	TopK               int     `env:"LEXBOT_RETRIEVAL_TOP_K" envDefault:"3"`
	TopicThreshold     int     `env:"LEXBOT_TOPIC_THRESHOLD" envDefault:"60"`
	RelevanceThreshold int     `env:"LEXBOT_RELEVANCE_THRESHOLD" envDefault:"75"`
	MinScore           float64 `env:"LEXBOT_MIN_COMBINED_SCORE" envDefault:"0.5"`
	QuestionWeight     float64 `env:"LEXBOT_QUESTION_WEIGHT" envDefault:"0.7"`
	ContextWeight      float64 `env:"LEXBOT_CONTEXT_WEIGHT" envDefault:"0.3"`
}

func DefaultRetrievalConfig() *RetrievalConfig {
	return &RetrievalConfig{
		TopK:               3,
		TopicThreshold:     60,
		RelevanceThreshold: 75,
		MinScore:           0.5,
		QuestionWeight:     0.7,
		ContextWeight:      0.3,
	}
}

func NewRetrievalConfig(ctx context.Context) *RetrievalConfig {
	c := &RetrievalConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Retrieval config")
	}
	if err := c.Validate(); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("invalid Retrieval config")
	}
	return c
}

func (c RetrievalConfig) Validate() error {
	switch {
	case c.TopK < 1 || c.TopK > MaxTopK:
		return fmt.Errorf("LEXBOT_RETRIEVAL_TOP_K must be between 1 and %d, got %d", MaxTopK, c.TopK)
	case c.TopicThreshold < 0 || c.TopicThreshold > 100:
		return fmt.Errorf("LEXBOT_TOPIC_THRESHOLD must be between 0 and 100, got %d", c.TopicThreshold)
	case c.RelevanceThreshold < 0 || c.RelevanceThreshold > 100:
		return fmt.Errorf("LEXBOT_RELEVANCE_THRESHOLD must be between 0 and 100, got %d", c.RelevanceThreshold)
	case c.MinScore < -1 || c.MinScore > 1:
		return fmt.Errorf("LEXBOT_MIN_COMBINED_SCORE must be between -1 and 1, got %g", c.MinScore)
	case c.QuestionWeight < 0 || c.QuestionWeight > 1:
		return fmt.Errorf("LEXBOT_QUESTION_WEIGHT must be between 0 and 1, got %g", c.QuestionWeight)
	case c.ContextWeight < 0 || c.ContextWeight > 1:
		return fmt.Errorf("LEXBOT_CONTEXT_WEIGHT must be between 0 and 1, got %g", c.ContextWeight)
	case c.QuestionWeight+c.ContextWeight == 0:
		return fmt.Errorf("LEXBOT_QUESTION_WEIGHT and LEXBOT_CONTEXT_WEIGHT cannot both be 0")
	}
	return nil
}
