package console

import (
	"fmt"
	"strings"

	constants "github.com/ImGajeed76/charmglob/internal"
	"github.com/ImGajeed76/charmglob/pkg/charmglob/glob"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.SecondaryColor))

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).
				Bold(true)
)

// ListSelectOptions allows customization of the list select behavior
type ListSelectOptions struct {
	Title string
	// GlobOptions compile the filter when it contains glob syntax
	GlobOptions glob.Options
}

// DefaultListSelectOptions returns the default options
func DefaultListSelectOptions() ListSelectOptions {
	return ListSelectOptions{
		Title:       "Select an option:",
		GlobOptions: glob.DefaultOptions(),
	}
}

// ListSelect shows items and returns the index of the chosen one. Typing
// filters the list: a filter with glob syntax must match the whole item,
// anything else is a case-insensitive substring search.
func ListSelect(items []string, opts ...ListSelectOptions) (int, error) {
	if len(items) == 0 {
		return -1, errors.New("no items provided")
	}

	fmt.Print("\033[H\033[2J")
	options := DefaultListSelectOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	p := tea.NewProgram(initialListModel(items, options))
	m, err := p.Run()
	if err != nil {
		return -1, err
	}
	fmt.Print("\033[H\033[2J")

	finalModel := m.(listModel)
	if finalModel.quitted {
		return -1, ErrCancelled
	}
	return finalModel.selected()
}

type listModel struct {
	items    []string
	visible  []int // indexes into items passing the filter
	filter   string
	cursor   int
	options  ListSelectOptions
	quitted  bool
	maxItems int
	offset   int
}

func initialListModel(items []string, options ListSelectOptions) listModel {
	m := listModel{
		items:    items,
		options:  options,
		maxItems: 10,
	}
	m.applyFilter()
	return m
}

// FilterItems returns the indexes of items that pass filter.
func FilterItems(items []string, filter string, opts glob.Options) []int {
	visible := make([]int, 0, len(items))
	if filter != "" && glob.IsGlob(filter) {
		pattern := glob.Compile(filter, opts)
		for i, item := range items {
			if pattern.Match(item) {
				visible = append(visible, i)
			}
		}
		return visible
	}

	needle := strings.ToLower(filter)
	for i, item := range items {
		if strings.Contains(strings.ToLower(item), needle) {
			visible = append(visible, i)
		}
	}
	return visible
}

func (m *listModel) applyFilter() {
	m.visible = FilterItems(m.items, m.filter, m.options.GlobOptions)
	m.cursor = 0
	m.offset = 0
}

func (m listModel) selected() (int, error) {
	i := m.cursor + m.offset
	if i >= len(m.visible) {
		return -1, errors.New("nothing matches the filter")
	}
	return m.visible[i], nil
}

func (m listModel) Init() tea.Cmd {
	return nil
}

func (m listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.maxItems = msg.Height - 6
		if m.maxItems < 1 {
			m.maxItems = 1
		}
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitted = true
			return m, tea.Quit
		case tea.KeyEnter:
			if len(m.visible) > 0 {
				return m, tea.Quit
			}
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			} else if m.offset > 0 {
				m.offset--
			}
		case tea.KeyDown:
			if m.cursor+m.offset >= len(m.visible)-1 {
				break
			}
			if m.cursor < m.maxItems-1 {
				m.cursor++
			} else {
				m.offset++
			}
		case tea.KeyBackspace:
			if m.filter != "" {
				runes := []rune(m.filter)
				m.filter = string(runes[:len(runes)-1])
				m.applyFilter()
			}
		case tea.KeyRunes, tea.KeySpace:
			m.filter += string(msg.Runes)
			m.applyFilter()
		}
	}

	return m, nil
}

func (m listModel) View() string {
	var builder strings.Builder

	builder.WriteString(titleStyle.Render(m.options.Title))
	builder.WriteString("\n")
	if m.filter != "" {
		kind := "search"
		if glob.IsGlob(m.filter) {
			kind = "glob"
		}
		builder.WriteString(hintStyle.Render(fmt.Sprintf("%s: %s (%d/%d)", kind, m.filter, len(m.visible), len(m.items))))
	}
	builder.WriteString("\n\n")

	end := m.offset + m.maxItems
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for row, idx := range m.visible[m.offset:end] {
		if row == m.cursor {
			builder.WriteString(selectedItemStyle.Render("▸ " + m.items[idx]))
		} else {
			builder.WriteString(itemStyle.Render("  " + m.items[idx]))
		}
		builder.WriteString("\n")
	}
	if len(m.visible) == 0 {
		builder.WriteString(errorStyle.Render("  no matches"))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	builder.WriteString(hintStyle.Render("type to filter • ↑/↓ to move • enter to select • esc to cancel"))

	return builder.String()
}
