package console

import (
	"fmt"
	"strings"

	constants "github.com/ImGajeed76/charmglob/internal"
	"github.com/ImGajeed76/charmglob/pkg/charmglob/glob"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).
			Bold(true)

	unselectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.TertiaryColor))
)

type toggle struct {
	label string
	value *bool
}

// PromptOptions lets the user flip the boolean compiler options and cycle the
// platform. The given options are the starting state.
func PromptOptions(initial glob.Options) (glob.Options, error) {
	fmt.Print("\033[H\033[2J")

	p := tea.NewProgram(newOptionsModel(initial))
	m, err := p.Run()
	if err != nil {
		return initial, err
	}
	fmt.Print("\033[H\033[2J")

	finalModel := m.(*optionsModel)
	if finalModel.quitted {
		return initial, ErrCancelled
	}
	return finalModel.options, nil
}

type optionsModel struct {
	options glob.Options
	toggles []toggle
	cursor  int
	quitted bool
}

func newOptionsModel(initial glob.Options) *optionsModel {
	m := &optionsModel{options: initial}
	m.toggles = []toggle{
		{label: "Extended groups  ?(..) *(..) +(..) @(..) !(..)", value: &m.options.Extended},
		{label: "Globstar  ** spans directories", value: &m.options.Globstar},
		{label: "Case insensitive", value: &m.options.CaseInsensitive},
	}
	return m
}

// platformRow is the index of the platform line, right after the toggles.
func (m *optionsModel) platformRow() int { return len(m.toggles) }

func (m *optionsModel) Init() tea.Cmd {
	return nil
}

func (m *optionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.platformRow() {
			m.cursor++
		}
	case " ", "left", "right", "h", "l":
		m.flip()
	case "enter":
		return m, tea.Quit
	case "ctrl+c", "esc":
		m.quitted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *optionsModel) flip() {
	if m.cursor < len(m.toggles) {
		v := m.toggles[m.cursor].value
		*v = !*v
		return
	}
	m.options.Platform = (m.options.Platform + 1) % (glob.Windows + 1)
}

func (m *optionsModel) View() string {
	var builder strings.Builder

	builder.WriteString(promptStyle.Render("Glob options"))
	builder.WriteString("\n\n")

	for i, t := range m.toggles {
		mark := "[ ]"
		if *t.value {
			mark = "[x]"
		}
		m.writeRow(&builder, i, mark+" "+t.label)
	}
	m.writeRow(&builder, m.platformRow(), "Platform: "+platformName(m.options.Platform))

	builder.WriteString("\n")
	builder.WriteString(hintStyle.Render("(↑/↓ to move, space to toggle, enter to accept, esc to cancel)"))
	builder.WriteString("\n")

	return builder.String()
}

func (m *optionsModel) writeRow(builder *strings.Builder, row int, text string) {
	if row == m.cursor {
		builder.WriteString(selectedStyle.Render("▸ " + text))
	} else {
		builder.WriteString(unselectedStyle.Render("  " + text))
	}
	builder.WriteString("\n")
}

func platformName(p glob.Platform) string {
	if p == glob.Host {
		return "host (" + p.String() + ")"
	}
	return p.String()
}
