package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrievalConfig_DefaultsMatchEnvDefaults(t *testing.T) {
	c := &RetrievalConfig{}
	require.NoError(t, env.Parse(c))
	assert.Equal(t, DefaultRetrievalConfig(), c)
}

func TestRetrievalConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultRetrievalConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *RetrievalConfig)
		field  string
	}{
		{name: "negative top k", mutate: func(c *RetrievalConfig) { c.TopK = -1 }, field: "LEXBOT_RETRIEVAL_TOP_K"},
		{name: "zero top k", mutate: func(c *RetrievalConfig) { c.TopK = 0 }, field: "LEXBOT_RETRIEVAL_TOP_K"},
		{name: "top k above three", mutate: func(c *RetrievalConfig) { c.TopK = 4 }, field: "LEXBOT_RETRIEVAL_TOP_K"},
		{name: "topic threshold", mutate: func(c *RetrievalConfig) { c.TopicThreshold = 101 }, field: "LEXBOT_TOPIC_THRESHOLD"},
		{name: "relevance threshold", mutate: func(c *RetrievalConfig) { c.RelevanceThreshold = -5 }, field: "LEXBOT_RELEVANCE_THRESHOLD"},
		{name: "min score", mutate: func(c *RetrievalConfig) { c.MinScore = 1.5 }, field: "LEXBOT_MIN_COMBINED_SCORE"},
		{name: "question weight", mutate: func(c *RetrievalConfig) { c.QuestionWeight = -0.1 }, field: "LEXBOT_QUESTION_WEIGHT"},
		{name: "context weight", mutate: func(c *RetrievalConfig) { c.ContextWeight = 2 }, field: "LEXBOT_CONTEXT_WEIGHT"},
		{name: "both weights zero", mutate: func(c *RetrievalConfig) { c.QuestionWeight, c.ContextWeight = 0, 0 }, field: "cannot both be 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultRetrievalConfig()
			tt.mutate(c)
			assert.ErrorContains(t, c.Validate(), tt.field)
		})
	}

	c := DefaultRetrievalConfig()
	c.TopK = 1
	assert.NoError(t, c.Validate())
}

func TestNewRetrievalConfig_Overrides(t *testing.T) {
	t.Setenv("LEXBOT_RETRIEVAL_TOP_K", "2")
	assert.Equal(t, 2, NewRetrievalConfig(context.Background()).TopK)
}

func TestStreamConfig_DefaultsMatchEnvDefaults(t *testing.T) {
	c := &StreamConfig{}
	require.NoError(t, env.Parse(c))
	assert.Equal(t, DefaultStreamConfig(), c)
}

func TestStreamConfig_Overrides(t *testing.T) {
	t.Setenv("LEXBOT_TOKEN_DELAY", "10ms")
	t.Setenv("LEXBOT_END_SENTINEL", "[END]")

	c := NewStreamConfig(context.Background())
	assert.Equal(t, 10*time.Millisecond, c.TokenDelay)
	assert.True(t, c.IsSentinel("[END]"))
	assert.False(t, c.IsSentinel("[FINE]"))
}

func TestStreamConfig_IsError(t *testing.T) {
	c := DefaultStreamConfig()
	assert.True(t, c.IsError("⚠️ Error generating the answer."))
	assert.True(t, c.IsError("⚠️ Server error: timeout"))
	assert.False(t, c.IsError("Article"))
	assert.False(t, c.IsError("[FINE]"))

	c.ErrorPrefix = ""
	assert.False(t, c.IsError("⚠️ Server error: timeout"))
}

func TestTelegramConfig_AllowedUsers(t *testing.T) {
	t.Setenv("LEXBOT_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("LEXBOT_TELEGRAM_ALLOWED_USERS", "11,22")

	c := NewTelegramConfig(context.Background())
	assert.Equal(t, []int64{11, 22}, c.AllowedUsers)
	assert.True(t, c.IsAllowed(22))
	assert.False(t, c.IsAllowed(33))
}

func TestAppConfig_Paths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LEXBOT_RUNTIME_PATH", dir)

	c := NewAppConfig(context.Background())
	assert.Equal(t, dir, c.GetRuntimePath())
	assert.Equal(t, filepath.Join(dir, "lexbot.db"), c.GetDatabasePath())
	assert.Equal(t, filepath.Join(dir, "build"), c.GetStaticPath())
	assert.Equal(t, filepath.Join(dir, "input_history"), c.GetInputHistoryPath())
	assert.True(t, c.EnableHTTP)
	assert.False(t, c.IsTelegramSelected())
}

func TestGetRuntimePath_RelativeGoesUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LEXBOT_RUNTIME_PATH", "")

	assert.Equal(t, filepath.Join(home, ".lexbot"), GetRuntimePath())
}
