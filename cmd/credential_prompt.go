package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var errPromptCancelled = errors.New("api key prompt cancelled")

type apiKeyPromptModel struct {
	input     textinput.Model
	submitted bool
	cancelled bool
}

func newAPIKeyPromptModel() apiKeyPromptModel {
	input := textinput.New()
	input.Prompt = "API key: "
	input.Placeholder = "paste your key"
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.Focus()

	return apiKeyPromptModel{input: input}
}

func (m apiKeyPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m apiKeyPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m apiKeyPromptModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}

	return "Enter your API key to start chatting.\n" + m.input.View() + "\n"
}

func (m apiKeyPromptModel) value() string {
	return strings.TrimSpace(m.input.Value())
}

func promptAPIKey(cmd *cobra.Command) (string, error) {
	p := tea.NewProgram(
		newAPIKeyPromptModel(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()),
		tea.WithContext(cmd.Context()),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("read api key: %w", err)
	}

	result, ok := finalModel.(apiKeyPromptModel)
	if !ok {
		return "", fmt.Errorf("unexpected final prompt model type %T", finalModel)
	}
	if result.cancelled {
		return "", errPromptCancelled
	}

	return result.value(), nil
}
