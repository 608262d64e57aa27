package console

import (
	"fmt"
	"strings"

	constants "github.com/ImGajeed76/charmglob/internal"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
)

// ErrCancelled is returned when the user leaves a prompt with esc or ctrl+c.
var ErrCancelled = errors.New("input cancelled")

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.PrimaryColor))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.ErrorColor)).
			Italic(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.TertiaryColor)).
			Italic(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(constants.Theme.TertiaryColor))
)

// InputOptions allows customization of the input behavior
type InputOptions struct {
	Prompt      string
	Default     string
	Placeholder string
	CharLimit   int
	Width       int
	Required    bool // If true, empty input is not allowed
	Secret      bool // Mask the typed characters
	// Validate rejects a value by returning an error; its message is shown
	// below the input.
	Validate func(string) error
}

// DefaultInputOptions returns the default options
func DefaultInputOptions() InputOptions {
	return InputOptions{
		Prompt:    "Enter value:",
		CharLimit: 156,
		Width:     20,
		Required:  false,
	}
}

// Input takes a prompt and optional options, returns the validated user input
func Input(opts ...InputOptions) (string, error) {
	fmt.Print("\033[H\033[2J")
	options := DefaultInputOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	p := tea.NewProgram(initialModel(options))
	m, err := p.Run()
	if err != nil {
		return "", err
	}
	fmt.Print("\033[H\033[2J")

	finalModel := m.(inputModel)
	if finalModel.quitted {
		return "", ErrCancelled
	}
	return finalModel.textInput.Value(), nil
}

type inputModel struct {
	textInput textinput.Model
	options   InputOptions
	quitted   bool
}

func initialModel(options InputOptions) inputModel {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = options.CharLimit
	ti.Width = options.Width

	ti.Prompt = ""
	ti.TextStyle = inputStyle
	ti.PlaceholderStyle = placeholderStyle
	if options.Secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	if options.Default != "" {
		ti.SetValue(options.Default)
	}
	if options.Placeholder != "" {
		ti.Placeholder = options.Placeholder
	}

	return inputModel{
		textInput: ti,
		options:   options,
	}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) validateInput(input string) (bool, string) {
	if m.options.Required && strings.TrimSpace(input) == "" {
		return false, "Input is required"
	}
	if m.options.Validate != nil && input != "" {
		if err := m.options.Validate(input); err != nil {
			return false, err.Error()
		}
	}
	return true, ""
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if valid, _ := m.validateInput(m.textInput.Value()); valid {
				return m, tea.Quit
			}
			return m, nil
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitted = true
			return m, tea.Quit
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	var builder strings.Builder

	builder.WriteString(promptStyle.Render(m.options.Prompt))
	builder.WriteString("\n\n")

	builder.WriteString(m.textInput.View())
	builder.WriteString("\n\n")

	if valid, errMsg := m.validateInput(m.textInput.Value()); !valid && m.textInput.Value() != "" {
		builder.WriteString(errorStyle.Render(errMsg))
		builder.WriteString("\n")
	}

	builder.WriteString(hintStyle.Render("(esc to cancel)"))
	builder.WriteString("\n")

	return builder.String()
}
