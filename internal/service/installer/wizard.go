package installer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Step is one screen of the setup wizard. Returning a nil Step from Update
// marks it as answered.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

// setupSteps asks for the generation backend, then the embedding backend,
// then the chat channels, and finally writes runtimePath/.env.
// Steps that do not apply to earlier answers skip themselves.
func setupSteps(runtimePath string) []Step {
	return []Step{
		NewGeneratorProviderStep(),
		NewGeneratorURLStep(),
		NewGeneratorModelStep(),
		NewGeneratorKeyStep(),
		NewEmbeddingProviderStep(),
		NewEmbeddingURLStep(),
		NewEmbeddingModelStep(),
		NewEmbeddingKeyStep(),
		NewChannelStep(),
		NewHTTPAddrStep(),
		NewTelegramTokenStep(),
		NewTelegramUsersStep(),
		NewFinalizationStep(),
		NewSaveEnvStep(runtimePath),
	}
}

type errMsg error
type nextMsg struct{}

// wizard collects an InstallState by walking setupSteps in order.
type wizard struct {
	steps     []Step
	pos       int
	state     *InstallState
	cancelled bool
	err       error
	width     int
	height    int
}

func newWizard(runtimePath string) wizard {
	return wizard{
		steps: setupSteps(runtimePath),
		state: NewInstallState(),
	}
}

func (w wizard) finished() bool {
	return w.pos >= len(w.steps)
}

func (w wizard) Init() tea.Cmd {
	if w.finished() {
		return nil
	}
	return w.steps[w.pos].Init()
}

func (w wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if w.cancelled {
		return w, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	case errMsg:
		// a failed save stays on screen until ctrl+c
		w.err = msg
		return w, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			w.cancelled = true
			return w, tea.Quit
		}
	}

	if w.finished() {
		return w, tea.Quit
	}

	next, cmd := w.steps[w.pos].Update(msg, w.state, w.width, w.height)
	if next == nil {
		w.pos++
		if w.finished() {
			return w, tea.Quit
		}
		return w, w.steps[w.pos].Init()
	}

	w.steps[w.pos] = next
	return w, cmd
}

func (w wizard) View() string {
	if w.cancelled {
		return "Installation cancelled.\n"
	}

	if w.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", w.err)) + "\n\n(press ctrl+c to quit)\n"
	}

	if w.finished() {
		return "Configuration complete!\n"
	}

	progress := mutedStyle.Render(fmt.Sprintf("step %d of %d", w.pos+1, len(w.steps)))
	return titleStyle.Render("Installing LexBot ⚖️") + "  " + progress + "\n\n" + w.steps[w.pos].View(w.state)
}

// RunWizard runs the setup TUI and returns the answers once they have been
// saved to runtimePath/.env.
func RunWizard(runtimePath string) (*InstallState, error) {
	m, err := tea.NewProgram(newWizard(runtimePath), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}

	w := m.(wizard)
	if w.cancelled {
		return nil, fmt.Errorf("lexbot installation interrupted")
	}
	if w.err != nil {
		return nil, w.err
	}

	return w.state, nil
}
