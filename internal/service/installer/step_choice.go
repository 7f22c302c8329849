package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type option struct {
	label string
	value string
}

// ChoiceStep lets the user pick one option from a fixed list.
type ChoiceStep struct {
	title   string
	options []option
	cursor  int
	apply   func(state *InstallState, value string)
}

func NewGeneratorProviderStep() Step {
	return &ChoiceStep{
		title: "Select the answer generator:",
		options: []option{
			{label: "Hugging Face Inference API", value: "huggingface"},
			{label: "OpenAI-compatible server", value: "openai"},
		},
		apply: func(state *InstallState, v string) { state.GeneratorProvider = v },
	}
}

func NewEmbeddingProviderStep() Step {
	return &ChoiceStep{
		title: "Select the embedding service:",
		options: []option{
			{label: "Ollama", value: "ollama"},
			{label: "OpenAI-compatible server", value: "openai"},
		},
		apply: func(state *InstallState, v string) { state.EmbeddingProvider = v },
	}
}

func NewChannelStep() Step {
	return &ChoiceStep{
		title: "Select the chat channels:",
		options: []option{
			{label: "Web (HTTP + WebSocket)", value: "web"},
			{label: "Telegram", value: "telegram"},
			{label: "Web and Telegram", value: "both"},
		},
		apply: func(state *InstallState, v string) {
			state.EnableHTTP = fmt.Sprint(v == "web" || v == "both")
			state.EnableTelegram = fmt.Sprint(v == "telegram" || v == "both")
		},
	}
}

func (s *ChoiceStep) Init() tea.Cmd {
	return nil
}

func (s *ChoiceStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.options)-1 {
				s.cursor++
			}
		case "enter":
			s.apply(state, s.options[s.cursor].value)
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChoiceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, opt := range s.options {
		if s.cursor == i {
			b.WriteString(selStyle.Render("❯ "+opt.label) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+opt.label) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
