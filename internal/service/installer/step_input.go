package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputStep collects one free-text value. An empty answer takes the
// suggested default, if any.
type InputStep struct {
	input    textinput.Model
	title    string
	secret   bool
	ready    bool
	skip     func(state *InstallState) bool
	suggest  func(state *InstallState) string
	apply    func(state *InstallState, value string)
	optional bool
}

func newInputStep(title string, apply func(*InstallState, string)) *InputStep {
	return &InputStep{
		title:   title,
		apply:   apply,
		skip:    func(*InstallState) bool { return false },
		suggest: func(*InstallState) string { return "" },
	}
}

func NewGeneratorURLStep() Step {
	s := newInputStep("Enter the generator base URL", func(st *InstallState, v string) { st.GeneratorURL = v })
	s.suggest = func(st *InstallState) string {
		if st.GeneratorProvider == "openai" {
			return "http://localhost:8000"
		}
		return "https://api-inference.huggingface.co"
	}
	return s
}

func NewGeneratorModelStep() Step {
	s := newInputStep("Enter the generator model", func(st *InstallState, v string) { st.GeneratorModel = v })
	s.suggest = func(*InstallState) string { return "tatore22/legal_bert_chatbot" }
	return s
}

func NewGeneratorKeyStep() Step {
	s := newInputStep("Enter the generator API key", func(st *InstallState, v string) { st.GeneratorAPIKey = v })
	s.secret = true
	s.optional = true
	return s
}

func NewEmbeddingURLStep() Step {
	s := newInputStep("Enter the embedding base URL", func(st *InstallState, v string) { st.EmbeddingURL = v })
	s.suggest = func(st *InstallState) string {
		if st.EmbeddingProvider == "openai" {
			return "https://api.openai.com"
		}
		return "http://localhost:11434"
	}
	return s
}

func NewEmbeddingModelStep() Step {
	s := newInputStep("Enter the embedding model", func(st *InstallState, v string) { st.EmbeddingModel = v })
	s.suggest = func(st *InstallState) string {
		if st.EmbeddingProvider == "openai" {
			return "text-embedding-3-small"
		}
		return "nlpaueb/legal-bert-base-uncased"
	}
	return s
}

func NewEmbeddingKeyStep() Step {
	s := newInputStep("Enter the embedding API key", func(st *InstallState, v string) { st.EmbeddingAPIKey = v })
	s.secret = true
	s.optional = true
	s.skip = func(st *InstallState) bool { return st.EmbeddingProvider == "ollama" }
	return s
}

func NewHTTPAddrStep() Step {
	s := newInputStep("Enter the HTTP listen address", func(st *InstallState, v string) { st.HTTPAddr = v })
	s.suggest = func(*InstallState) string { return ":5000" }
	s.skip = func(st *InstallState) bool { return !st.httpEnabled() }
	return s
}

func NewTelegramTokenStep() Step {
	s := newInputStep("Enter your Telegram Bot Token", func(st *InstallState, v string) { st.TelegramToken = v })
	s.secret = true
	s.skip = func(st *InstallState) bool { return !st.telegramEnabled() }
	return s
}

func NewTelegramUsersStep() Step {
	s := newInputStep("Enter the Telegram user IDs allowed to chat, comma separated",
		func(st *InstallState, v string) { st.TelegramAllowedUsers = v })
	s.optional = true
	s.skip = func(st *InstallState) bool { return !st.telegramEnabled() }
	return s
}

func (s *InputStep) prepare(state *InstallState) {
	if s.ready {
		return
	}
	s.ready = true

	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 50
	s.input.Placeholder = s.suggest(state)
	if s.secret {
		s.input.EchoMode = textinput.EchoPassword
		s.input.EchoCharacter = '•'
	}
	if s.optional && s.input.Placeholder == "" {
		s.input.Placeholder = "Optional - press Enter to skip"
	}
}

// Init fires a message right away so skipped steps advance without input.
func (s *InputStep) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return nextMsg{} })
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.skip(state) {
		return nil, nil
	}
	s.prepare(state)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" {
			val = s.suggest(state)
		}
		if val == "" && !s.optional {
			return s, nil
		}
		s.apply(state, val)
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	s.prepare(state)
	return s.title + ":\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}
