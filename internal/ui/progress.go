// Package ui renders export progress in the terminal.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"irx/internal/driver"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	queuedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// stageWeight is the share of a unit's bar filled once a stage starts.
var stageWeight = map[driver.Stage]float64{
	driver.StageLoad:   0.1,
	driver.StageExport: 0.4,
	driver.StageWrite:  0.9,
}

const statusWidth = 10

type unitRow struct {
	name    string
	status  driver.Status
	stage   driver.Stage
	elapsed time.Duration
	err     string
}

func (r unitRow) finished() bool {
	return r.status == driver.StatusDone || r.status == driver.StatusError
}

func (r unitRow) label() string {
	if r.status != driver.StatusWorking {
		return string(r.status)
	}
	return stageVerb(r.stage)
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []unitRow
	byName  map[string]int
	session string // stage of work not tied to a listed unit
	width   int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel shows one row per unit. Events naming anything else
// (snapshot loads, sessions) only change the header.
func NewProgressModel(title string, units []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]unitRow, len(units)),
		byName:  make(map[string]int, len(units)),
		width:   80,
	}
	for i, name := range units {
		m.rows[i] = unitRow{name: name, status: driver.StatusQueued}
		m.byName[name] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	finished := 0
	for _, r := range m.rows {
		if r.finished() {
			finished++
		}
	}
	header := fmt.Sprintf("%s %d/%d", m.title, finished, len(m.rows))
	if m.session != "" && !m.done {
		header += " · " + m.session
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")
	nameWidth := max(m.width-statusWidth-16, 20)
	for _, r := range m.rows {
		status := fmt.Sprintf("%*s", statusWidth, r.label())
		fmt.Fprintf(&b, "  %s %s", rowStyle(r).Render(status), truncate(r.name, nameWidth))
		if r.finished() && r.elapsed > 0 {
			b.WriteString(faintStyle.Render(" " + r.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteByte('\n')
		if r.err != "" {
			fmt.Fprintf(&b, "  %*s %s\n", statusWidth, "", errorStyle.Render(truncate(r.err, nameWidth)))
		}
	}
	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	i, ok := m.byName[ev.Unit]
	if !ok {
		if ev.Status == driver.StatusWorking {
			m.session = stageVerb(ev.Stage) + " " + ev.Unit
		}
		return nil
	}
	r := &m.rows[i]
	r.status = ev.Status
	if ev.Stage != "" {
		r.stage = ev.Stage
	}
	if r.finished() {
		r.elapsed = ev.Elapsed
	}
	if ev.Err != nil {
		r.err = ev.Err.Error()
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		switch {
		case r.finished():
			sum++
		case r.status == driver.StatusWorking:
			sum += stageWeight[r.stage]
		}
	}
	return sum / float64(len(m.rows))
}

func stageVerb(stage driver.Stage) string {
	switch stage {
	case driver.StageLoad:
		return "loading"
	case driver.StageExport:
		return "exporting"
	case driver.StageWrite:
		return "writing"
	default:
		return string(stage)
	}
}

func rowStyle(r unitRow) lipgloss.Style {
	switch r.status {
	case driver.StatusDone:
		return doneStyle
	case driver.StatusError:
		return errorStyle
	case driver.StatusWorking:
		return workingStyle
	default:
		return queuedStyle
	}
}

// truncate cuts value to width display cells, marking the cut with "...".
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
