package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/BYTE-6D65/tickwait/pkg/config"
)

// View states
type viewState int

const (
	viewMenu viewState = iota
	viewRunning
	viewResults
)

// Model holds the state of the TUI
type model struct {
	state viewState
	cfg   config.Config
	log   logrus.FieldLogger

	cancel   context.CancelFunc
	progress map[string]progress
	report   *Report
	err      error

	spinnerFrame int
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			PaddingLeft(2)

	labelStyle = lipgloss.NewStyle().
			Width(10).
			PaddingLeft(4)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			PaddingTop(1).
			PaddingLeft(2)

	errorMessageStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#FF5555")).
				Foreground(lipgloss.Color("#FF5555")).
				Padding(0, 2).
				MarginTop(1).
				MarginLeft(2)
)

// Messages
type benchCompleteMsg struct {
	report *Report
	err    error
}

type benchProgressMsg progress

type tickMsg struct{}

// Global program reference for sending progress updates
var globalProgram *tea.Program

func initialModel(cfg config.Config, log logrus.FieldLogger) model {
	return model{
		state:    viewMenu,
		cfg:      cfg,
		log:      log,
		progress: make(map[string]progress),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case benchProgressMsg:
		m.progress[msg.Strategy] = progress(msg)
		return m, nil

	case benchCompleteMsg:
		m.state = viewResults
		m.report = msg.report
		m.err = msg.err
		m.cancel = nil
		return m, nil

	case tickMsg:
		if m.state == viewRunning {
			m.spinnerFrame = (m.spinnerFrame + 1) % 10
			return m, tick()
		}
	}

	return m, nil
}

func (m model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.state == viewRunning && m.cancel != nil {
			// The bench returns a partial report once the delay in
			// flight notices the cancellation.
			m.cancel()
			return m, nil
		}
		return m, tea.Quit

	case "enter", "r":
		if m.state == viewRunning {
			return m, nil
		}
		ctx, cancel := context.WithCancel(context.Background())
		m.state = viewRunning
		m.cancel = cancel
		m.report = nil
		m.err = nil
		m.progress = make(map[string]progress)
		return m, tea.Batch(m.runBench(ctx), tick())
	}

	return m, nil
}

func (m model) runBench(ctx context.Context) tea.Cmd {
	cfg := m.cfg
	log := m.log
	return func() tea.Msg {
		b := newBench(cfg, newMetrics("", log), log)
		b.progress = func(p progress) {
			if globalProgram != nil {
				globalProgram.Send(benchProgressMsg(p))
			}
		}
		report, err := b.Run(ctx)
		return benchCompleteMsg{report: report, err: err}
	}
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString("\n")
	s.WriteString(titleStyle.Render("⏱  tickwait"))
	s.WriteString("\n\n")

	switch m.state {
	case viewMenu:
		s.WriteString(labelStyle.Render("delay") + m.cfg.Duration.String() + "\n")
		s.WriteString(labelStyle.Render("runs") + fmt.Sprint(m.cfg.Runs) + "\n")
		s.WriteString(labelStyle.Render("using") + strings.Join(m.cfg.Strategies, ", ") + "\n")
		s.WriteString(helpStyle.Render("enter: run bench • q: quit"))

	case viewRunning:
		s.WriteString("  " + m.spinner() + " Running delays...\n\n")
		for _, name := range m.cfg.Strategies {
			s.WriteString(m.progressLine(name) + "\n")
		}
		s.WriteString(helpStyle.Render("q: cancel"))

	case viewResults:
		if m.err != nil {
			s.WriteString(errorMessageStyle.Render("✗ " + m.err.Error()))
			s.WriteString("\n")
		}
		if m.report != nil {
			if m.report.Canceled {
				s.WriteString(errorMessageStyle.Render("Bench canceled, partial results"))
				s.WriteString("\n")
			}
			s.WriteString(resultsTable(m.report).String())
			s.WriteString("\n")
		}
		s.WriteString(helpStyle.Render("r: run again • q: quit"))
	}

	s.WriteString("\n")
	return s.String()
}

func (m model) progressLine(name string) string {
	const width = 30

	p, ok := m.progress[name]
	if !ok || p.Total == 0 {
		return labelStyle.Render(name) + strings.Repeat("░", width)
	}

	filled := p.Done * width / p.Total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	line := labelStyle.Render(name) + bar + fmt.Sprintf(" %d/%d", p.Done, p.Total)
	if p.Finished {
		line += " " + doneStyle.Render("✓")
	}
	return line
}

func (m model) spinner() string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return frames[m.spinnerFrame]
}

func startTUI(cfg config.Config, log logrus.FieldLogger) error {
	p := tea.NewProgram(initialModel(cfg, log))
	globalProgram = p
	_, err := p.Run()
	return err
}
