package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loadDoneMsg struct{}

type loadSpinnerModel struct {
	spinner spinner.Model
	label   string
	load    tea.Cmd
	done    bool
}

func newLoadSpinnerModel(label string, load tea.Cmd) loadSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return loadSpinnerModel{
		spinner: s,
		label:   label,
		load:    load,
	}
}

func (m loadSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load)
}

func (m loadSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case loadDoneMsg:
		m.done = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m loadSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

func runLoadSpinner(ctx context.Context, output io.Writer, label string, load func()) error {
	loadCmd := func() tea.Msg {
		load()
		return loadDoneMsg{}
	}

	p := tea.NewProgram(
		newLoadSpinnerModel(label, loadCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if _, ok := finalModel.(loadSpinnerModel); !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return nil
}
