package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Provider string        `env:"LEXBOT_GENERATOR_PROVIDER,required"`
	Prompt   string        `env:"LEXBOT_PROMPT"`
	Delay    time.Duration `env:"LEXBOT_TOKEN_DELAY"`
	Beams    int           `env:"LEXBOT_BEAMS"`
	Telegram bool          `env:"LEXBOT_ENABLE_TELEGRAM"`
	Skipped  string
	hidden   string `env:"HIDDEN"`
}

func TestMarshalEnv(t *testing.T) {
	out, err := MarshalEnv(&sample{
		Provider: "huggingface",
		Prompt:   "answer # briefly",
		Delay:    300 * time.Millisecond,
		Beams:    5,
		Skipped:  "x",
		hidden:   "y",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"LEXBOT_GENERATOR_PROVIDER=huggingface\n"+
			"LEXBOT_PROMPT=\"answer # briefly\"\n"+
			"LEXBOT_TOKEN_DELAY=300ms\n"+
			"LEXBOT_BEAMS=5\n",
		out)
}

func TestMarshalEnv_RejectsNonStruct(t *testing.T) {
	_, err := MarshalEnv(sample{})
	assert.Error(t, err)

	s := "x"
	_, err = MarshalEnv(&s)
	assert.Error(t, err)
}
