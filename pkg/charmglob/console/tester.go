package console

import (
	"fmt"
	"strings"

	"github.com/76creates/stickers/flexbox"
	constants "github.com/ImGajeed76/charmglob/internal"
	"github.com/ImGajeed76/charmglob/pkg/charmglob/glob"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
)

// UI Styles configuration
var styles = struct {
	card      lipgloss.Style
	rightCard lipgloss.Style
	topBar    lipgloss.Style
	title     lipgloss.Style
	section   lipgloss.Style
	match     lipgloss.Style
	miss      lipgloss.Style
	source    lipgloss.Style
	flag      lipgloss.Style
}{
	card: lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")),
	rightCard: lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(constants.Theme.PrimaryColor)),
	topBar: lipgloss.NewStyle().
		Padding(1).
		Foreground(lipgloss.Color(constants.Theme.SecondaryColor)).
		Align(lipgloss.Center),
	title: lipgloss.NewStyle().
		Foreground(lipgloss.Color(constants.Theme.SecondaryColor)).
		Bold(true),
	section: lipgloss.NewStyle().
		PaddingBottom(1),
	match: lipgloss.NewStyle().
		Foreground(lipgloss.Color(constants.Theme.MatchColor)).
		Bold(true),
	miss: lipgloss.NewStyle().
		Foreground(lipgloss.Color(constants.Theme.TertiaryColor)),
	source: lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")),
	flag: lipgloss.NewStyle().
		Foreground(lipgloss.Color("202")),
}

// ValidateGlob rejects globs that cannot be normalized.
func ValidateGlob(pattern string) error {
	_, err := glob.NormalizeGlob(pattern, glob.Options{Platform: glob.Posix})
	return err
}

// TesterResult is what the tester returns once the user presses enter.
type TesterResult struct {
	Glob    string
	Options glob.Options
}

// RunTester opens an interactive screen that recompiles the typed glob on
// every key and marks which candidates it matches.
func RunTester(candidates []string, initial string, opts glob.Options) (TesterResult, error) {
	m := NewTesterModel(candidates, initial, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return TesterResult{}, errors.Wrap(err, "run tester")
	}

	tm := final.(*TesterModel)
	if tm.quitted {
		return TesterResult{}, ErrCancelled
	}
	return TesterResult{Glob: tm.input.Value(), Options: tm.options}, nil
}

// TesterModel holds the tester state.
type TesterModel struct {
	candidates []string
	options    glob.Options
	input      textinput.Model
	pattern    *glob.Pattern
	matches    []bool
	matched    int
	offset     int
	maxEntries int
	quitted    bool

	flexbox   *flexbox.FlexBox
	topBar    *flexbox.Cell
	leftCard  *flexbox.Cell
	rightCard *flexbox.Cell

	help       []string
	helpWidth  int
	helpOffset int
	helpHeight int
}

// NewTesterModel builds the model without starting a program.
func NewTesterModel(candidates []string, initial string, opts glob.Options) *TesterModel {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = "glob> "
	ti.CharLimit = 512
	ti.Width = 40
	ti.TextStyle = inputStyle
	ti.PlaceholderStyle = placeholderStyle
	ti.Placeholder = "**/*.go"
	ti.SetValue(initial)

	topBar := flexbox.NewCell(1, 1).SetStyle(styles.topBar)
	leftCard := flexbox.NewCell(1, 7).SetStyle(styles.card)
	rightCard := flexbox.NewCell(1, 7).SetStyle(styles.rightCard)

	fb := flexbox.New(0, 0)
	fb.AddRows([]*flexbox.Row{
		fb.NewRow().AddCells(topBar),
		fb.NewRow().AddCells(leftCard, rightCard),
	})

	m := &TesterModel{
		candidates: candidates,
		options:    opts,
		input:      ti,
		maxEntries: 10,
		helpHeight: 10,
		flexbox:    fb,
		topBar:     topBar,
		leftCard:   leftCard,
		rightCard:  rightCard,
	}
	m.recompile()
	return m
}

func (m *TesterModel) Init() tea.Cmd {
	return textinput.Blink
}

// recompile refreshes the pattern and the match marks.
func (m *TesterModel) recompile() {
	m.pattern = glob.Compile(m.input.Value(), m.options)
	m.matches = make([]bool, len(m.candidates))
	m.matched = 0
	for i, c := range m.candidates {
		if m.pattern.Match(c) {
			m.matches[i] = true
			m.matched++
		}
	}
}

// Matched returns the candidates the current glob matches.
func (m *TesterModel) Matched() []string {
	out := make([]string, 0, m.matched)
	for i, ok := range m.matches {
		if ok {
			out = append(out, m.candidates[i])
		}
	}
	return out
}

// Pattern returns the pattern compiled from the current input.
func (m *TesterModel) Pattern() *glob.Pattern { return m.pattern }

func (m *TesterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitted = true
			return m, tea.Quit
		case "enter":
			return m, tea.Quit
		case "ctrl+e":
			m.options.Extended = !m.options.Extended
			m.recompile()
			return m, nil
		case "ctrl+g":
			m.options.Globstar = !m.options.Globstar
			m.recompile()
			return m, nil
		case "ctrl+t":
			m.options.CaseInsensitive = !m.options.CaseInsensitive
			m.recompile()
			return m, nil
		case "ctrl+p":
			m.options.Platform = (m.options.Platform + 1) % (glob.Windows + 1)
			m.recompile()
			return m, nil
		case "up":
			if m.offset > 0 {
				m.offset--
			}
			return m, nil
		case "down":
			if m.offset+m.maxEntries < len(m.candidates) {
				m.offset++
			}
			return m, nil
		case "pgup":
			if m.helpOffset > 0 {
				m.helpOffset--
			}
			return m, nil
		case "pgdown":
			if m.helpOffset+m.helpHeight < len(m.help) {
				m.helpOffset++
			}
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.recompile()
	}
	return m, cmd
}

func (m *TesterModel) handleWindowSize(msg tea.WindowSizeMsg) {
	m.flexbox.SetWidth(msg.Width)
	m.flexbox.SetHeight(msg.Height)
	m.flexbox.ForceRecalculate()

	// padding, border, input and title lines
	m.maxEntries = m.leftCard.GetHeight() - 9
	if m.maxEntries < 1 {
		m.maxEntries = 1
	}
	m.helpHeight = m.rightCard.GetHeight() - 12
	if m.helpHeight < 1 {
		m.helpHeight = 1
	}
	m.input.Width = m.leftCard.GetWidth() - 12
	m.renderHelp(m.rightCard.GetWidth() - 8)
}

// renderHelp caches the rendered cheat sheet for a column width.
func (m *TesterModel) renderHelp(width int) {
	if width == m.helpWidth && m.help != nil {
		return
	}
	m.helpWidth = width
	rendered, err := RenderSyntaxHelp(width)
	if err != nil {
		m.help = []string{"Error rendering syntax help"}
		return
	}
	m.help = strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	m.helpOffset = 0
}

func (m *TesterModel) flags() string {
	on := func(name string, v bool) string {
		if v {
			return styles.flag.Render(name)
		}
		return styles.miss.Render(name)
	}
	return strings.Join([]string{
		on("extended ^E", m.options.Extended),
		on("globstar ^G", m.options.Globstar),
		on("nocase ^T", m.options.CaseInsensitive),
		styles.flag.Render(platformName(m.options.Platform) + " ^P"),
	}, "  ")
}

// View renders the UI
func (m *TesterModel) View() string {
	title := styles.title.Render(fmt.Sprintf("charmglob tester - %s", constants.Version))
	m.topBar.SetContent(title + "\n" + m.flags())

	var left strings.Builder
	left.WriteString(styles.section.Render(m.input.View()))
	left.WriteString("\n")
	kind := "literal"
	if glob.IsGlob(m.input.Value()) {
		kind = "glob"
	}
	left.WriteString(styles.section.Render(hintStyle.Render(
		fmt.Sprintf("%s, %d of %d candidates match", kind, m.matched, len(m.candidates)))))
	left.WriteString("\n")
	m.renderCandidates(&left)
	m.leftCard.SetContent(left.String())

	var right strings.Builder
	right.WriteString(styles.title.Render("Regular expression"))
	right.WriteString("\n\n")
	right.WriteString(styles.section.Render(styles.source.Render(m.pattern.String())))
	right.WriteString("\n")
	if m.helpOffset > 0 {
		right.WriteString("↑ More above\n")
	}
	end := m.helpOffset + m.helpHeight
	if end > len(m.help) {
		end = len(m.help)
	}
	if m.helpOffset < end {
		right.WriteString(strings.Join(m.help[m.helpOffset:end], "\n"))
	}
	if end < len(m.help) {
		right.WriteString("\n↓ More below (pgdown)")
	}
	m.rightCard.SetContent(right.String())

	return m.flexbox.Render()
}

func (m *TesterModel) renderCandidates(content *strings.Builder) {
	if len(m.candidates) == 0 {
		content.WriteString(hintStyle.Render("no candidates"))
		return
	}
	if m.offset > 0 {
		content.WriteString("  ...\n")
	}
	end := m.offset + m.maxEntries
	if end > len(m.candidates) {
		end = len(m.candidates)
	}
	for i := m.offset; i < end; i++ {
		if m.matches[i] {
			content.WriteString(styles.match.Render("✓ " + m.candidates[i]))
		} else {
			content.WriteString(styles.miss.Render("  " + m.candidates[i]))
		}
		content.WriteString("\n")
	}
	if end < len(m.candidates) {
		content.WriteString("  ...")
	}
}
