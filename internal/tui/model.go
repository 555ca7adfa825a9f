package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/metricview/internal/metrictree"
	"github.com/mwiater/metricview/internal/report"
	"github.com/mwiater/metricview/internal/table"
	"github.com/mwiater/metricview/internal/util"
)

const maxLabelRunes = 40

// Options for the terminal viewer.
type Options struct {
	Trace     bool
	SelectAll bool
	Select    []string
}

type model struct {
	ctrl     *report.Controller
	terminal *table.Terminal
	legend   *Legend
	nodes    []*metrictree.Node
	cursor   int
	viewport viewport.Model
	width    int
	height   int
	err      error
}

func initialModel(opts Options, in *report.Input) (*model, error) {
	terminal := table.NewTerminal()
	legend := &Legend{}
	ctrl, err := report.New(report.Options{Trace: opts.Trace}, in, terminal, legend)
	if err != nil {
		return nil, err
	}
	if opts.SelectAll {
		if err := ctrl.SelectAll(); err != nil {
			return nil, err
		}
	}
	if err := ctrl.Select(opts.Select...); err != nil {
		return nil, err
	}
	m := &model{
		ctrl:     ctrl,
		terminal: terminal,
		legend:   legend,
		nodes:    ctrl.Tree().Tree().Nodes(),
		viewport: viewport.New(100, 10),
	}
	m.viewport.SetContent(terminal.String())
	return m, nil
}

func (m *model) Init() tea.Cmd {
	return nil
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			_ = m.ctrl.Teardown()
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
			}
			return m, nil
		case " ", "enter", "x":
			if len(m.nodes) > 0 {
				m.apply(m.ctrl.Toggle(m.nodes[m.cursor].ID))
			}
			return m, nil
		case "a":
			m.apply(m.ctrl.SelectAll())
			return m, nil
		case "c":
			m.apply(m.ctrl.Clear())
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-m.headerHeight()-2, 3)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) apply(err error) {
	m.err = err
	m.viewport.SetContent(m.terminal.String())
}

func (m *model) headerHeight() int {
	return lipgloss.Height(m.header())
}

func (m *model) header() string {
	titleStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	title := m.ctrl.Title()
	if title == "" {
		title = "metricview"
	}
	if m.width > 4 {
		title = util.TruncateToWidth(title, m.width-4)
	}
	panel := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panel.Render(m.treeView()),
		panel.MarginLeft(1).Render(m.legend.View()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), body)
}

func (m *model) treeView() string {
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	categoryStyle := lipgloss.NewStyle().Bold(true)
	var b strings.Builder
	for i, n := range m.nodes {
		if i > 0 {
			b.WriteByte('\n')
		}
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if m.ctrl.Tree().IsChecked(n.ID) {
			box = "[x]"
		}
		label := util.TruncateRunes(n.Label, maxLabelRunes)
		if !n.IsLeaf() {
			label = categoryStyle.Render(label)
		}
		fmt.Fprintf(&b, "%s%s%s %s", pointer, strings.Repeat("  ", n.Depth), box, label)
	}
	return b.String()
}

// View renders the tree, legend and table.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteByte('\n')
	b.WriteString(m.viewport.View())
	b.WriteByte('\n')
	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(fmt.Sprintf("Error: %v", m.err)))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render(
			fmt.Sprintf(" %s · space toggle · a all · c clear · q quit", m.ctrl.State())))
	}
	return b.String()
}

// Run starts the interactive viewer and blocks until it exits.
func Run(ctx context.Context, opts Options, in *report.Input) error {
	m, err := initialModel(opts, in)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
