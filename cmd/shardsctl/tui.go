package main

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	shards "github.com/reglet-dev/shards-sdk/go"
	sdkErrors "github.com/reglet-dev/shards-sdk/go/domain/errors"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type keyMap struct {
	Quit  key.Binding
	Focus key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "next field"),
	),
}

type tickMsg time.Time

type tuiModel struct {
	env      *environment
	runner   *shards.Runner
	title    string
	interval time.Duration
	limit    int
	ticks    int
	err      error
}

func newTUIModel(env *environment, runner *shards.Runner, title string, limit int) *tuiModel {
	return &tuiModel{
		env:      env,
		runner:   runner,
		title:    title,
		interval: env.cfg.TickInterval,
		limit:    limit,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return func() tea.Msg { return tickMsg(time.Now()) }
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		m.env.input.push(msg)
		return m, nil

	case tickMsg:
		if _, err := m.runner.Tick(); err != nil {
			if !errors.Is(err, sdkErrors.ErrStopped) {
				m.err = err
			}
			return m, tea.Quit
		}
		m.ticks++
		if m.runner.Context().Stopped() || (m.limit > 0 && m.ticks >= m.limit) {
			return m, tea.Quit
		}
		return m, tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
	}
	return m, nil
}

func (m *tuiModel) View() string {
	view := titleStyle.Render(m.title) + "\n" + m.env.frame + "\n"
	if m.err != nil {
		view += errorStyle.Render(m.err.Error()) + "\n"
	}
	return view + helpStyle.Render(keys.Focus.Help().Key+": "+keys.Focus.Help().Desc+" • "+keys.Quit.Help().Key+": "+keys.Quit.Help().Desc)
}
