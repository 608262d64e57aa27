package console

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	constants "github.com/ImGajeed76/charmglob/internal"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	padding  = 2
	maxWidth = 80
)

type ProgressOptions struct {
	GradientColors []string
	Width          int
	Padding        int
	// Label is shown next to the spinner, usually the pattern being scanned.
	Label string
	// Interval between redraws.
	Interval time.Duration
}

func DefaultProgressOptions() ProgressOptions {
	return ProgressOptions{
		GradientColors: []string{"#5956e0", "#e86ef6"},
		Width:          maxWidth,
		Padding:        padding,
		Interval:       100 * time.Millisecond,
	}
}

// ScanProgress reports a running glob walk. Update has the shape of
// GlobOptions.ProgressFunc and never blocks the walker.
type ScanProgress struct {
	Update func(scanned, matched int)
	Finish func()
}

var countStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color(constants.Theme.MatchColor)).
	Bold(true)

type scanCounters struct {
	scanned atomic.Int64
	matched atomic.Int64
}

type tickMsg time.Time

type scanModel struct {
	spinner  spinner.Model
	progress progress.Model
	options  ProgressOptions
	counters *scanCounters
	scanned  int64
	matched  int64
	done     chan struct{}
	quitting bool
}

func newScanModel(options ProgressOptions, counters *scanCounters, done chan struct{}) *scanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(constants.Theme.PrimaryColor))

	colors := options.GradientColors
	if len(colors) < 2 {
		colors = DefaultProgressOptions().GradientColors
	}
	p := progress.New(
		progress.WithGradient(colors[0], colors[1]),
		progress.WithWidth(options.Width),
		progress.WithoutPercentage(),
	)

	return &scanModel{
		spinner:  s,
		progress: p,
		options:  options,
		counters: counters,
		done:     done,
	}
}

func (m *scanModel) tick() tea.Cmd {
	return tea.Tick(m.options.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *scanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tick())
}

func (m *scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - m.options.Padding*2 - 4
		if m.progress.Width > m.options.Width {
			m.progress.Width = m.options.Width
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		m.scanned = m.counters.scanned.Load()
		m.matched = m.counters.matched.Load()

		select {
		case <-m.done:
			m.quitting = true
			return m, tea.Quit
		default:
		}

		var ratio float64
		if m.scanned > 0 {
			ratio = float64(m.matched) / float64(m.scanned)
		}
		return m, tea.Batch(m.progress.SetPercent(ratio), m.tick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *scanModel) View() string {
	pad := strings.Repeat(" ", m.options.Padding)
	var builder strings.Builder

	builder.WriteString("\n" + pad)
	if !m.quitting {
		builder.WriteString(m.spinner.View() + " ")
	}
	if m.options.Label != "" {
		builder.WriteString(promptStyle.Render(m.options.Label) + " ")
	}
	builder.WriteString(fmt.Sprintf("%s matched of %s scanned",
		countStyle.Render(fmt.Sprint(m.matched)),
		countStyle.Render(fmt.Sprint(m.scanned))))
	builder.WriteString("\n" + pad + m.progress.View() + "\n\n")

	return builder.String()
}

// NewScanProgress starts a progress display in the background. Call Finish
// once the walk returns; it waits for the display to draw its final state.
func NewScanProgress(opts ...ProgressOptions) *ScanProgress {
	options := DefaultProgressOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	if options.Interval <= 0 {
		options.Interval = DefaultProgressOptions().Interval
	}

	counters := &scanCounters{}
	done := make(chan struct{})
	m := newScanModel(options, counters, done)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		if _, err := tea.NewProgram(m).Run(); err != nil {
			log.Error("progress display failed", "err", err)
		}
	}()

	var once sync.Once
	return &ScanProgress{
		Update: func(scanned, matched int) {
			counters.scanned.Store(int64(scanned))
			counters.matched.Store(int64(matched))
		},
		Finish: func() {
			once.Do(func() {
				close(done)
			})
			wg.Wait()
		},
	}
}
