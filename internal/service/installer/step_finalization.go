package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep fixes up values that depend on several answers
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	// Telegram cannot start without a token
	if state.TelegramToken == "" {
		state.EnableTelegram = "false"
		state.TelegramAllowedUsers = ""
	}
	if !state.httpEnabled() {
		state.HTTPAddr = ""
	}

	// Signal completion
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}
