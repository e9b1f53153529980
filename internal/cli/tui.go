package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	tuiBarStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	tuiDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	tuiDoneStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

// frameDoneMsg reports one completed simulated frame.
type frameDoneMsg struct {
	done int
}

// simFinishedMsg reports the end of the simulation.
type simFinishedMsg struct {
	err error
}

// simulateModel is the bubbletea model for the simulate --watch view.
type simulateModel struct {
	total    int
	done     int
	finished bool
	err      error
	stats    *simStats
}

// newSimulateModel creates a live view over a running simulation.
func newSimulateModel(total int, stats *simStats) simulateModel {
	return simulateModel{total: total, stats: stats}
}

func (m simulateModel) Init() tea.Cmd {
	return nil
}

func (m simulateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case frameDoneMsg:
		m.done = msg.done
	case simFinishedMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m simulateModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Simulating"))
	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render("q quit"))
	b.WriteString("\n\n")

	b.WriteString(progressBar(m.done, m.total, 40))
	b.WriteString(fmt.Sprintf("  %d/%d frames\n\n", m.done, m.total))

	rows, submits, _ := m.stats.snapshot()
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-20s %6s avg  %s\n",
			row.name,
			row.avg.Round(time.Microsecond),
			tuiDimStyle.Render("×"+strconv.Itoa(row.runs))))
	}

	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render(fmt.Sprintf("  %d submissions", submits)))
	if m.finished {
		b.WriteString("\n")
		b.WriteString(tuiDoneStyle.Render("  done"))
	}
	b.WriteString("\n")

	return b.String()
}

// progressBar renders a fixed-width progress bar.
func progressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	return tuiBarStyle.Render(strings.Repeat("█", filled)) +
		tuiDimStyle.Render(strings.Repeat("░", width-filled))
}
