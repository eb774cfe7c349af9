// Package ui is the terminal control panel for the capture window.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"capframe/internal/media"
	"capframe/internal/window"
)

// Options configures the control panel.
type Options struct {
	Controller *window.Controller

	// PageURL is the address of the player page, shown in the panel.
	PageURL string

	// OpenWindow opens the player page in a browser. nil disables ctrl+o.
	OpenWindow func() error

	// HostChanges delivers a value whenever the window changes on its own,
	// for example when the user leaves fullscreen with Esc.
	HostChanges <-chan struct{}

	// Suggestions are previously opened URLs offered for completion.
	Suggestions []string

	// InitialURL is loaded as soon as the panel starts.
	InitialURL string
}

// Messages produced by controller commands.
type (
	loadedMsg      struct{ res media.ParseResult }
	opDoneMsg      struct{ err error }
	hostChangedMsg struct{}
	syncedMsg      struct{}
)

// Model is the bubbletea model of the control panel.
type Model struct {
	ctx     context.Context
	ctrl    *window.Controller
	opts    Options
	session window.Session

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	busy    int
	width   int
}

// New creates the control panel model.
func New(ctx context.Context, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "https://www.youtube.com/watch?v=... or https://www.facebook.com/.../videos/..."
	ti.Prompt = "URL › "
	ti.CharLimit = 0 // unlimited
	ti.ShowSuggestions = true
	ti.SetSuggestions(opts.Suggestions)
	ti.SetValue(opts.InitialURL)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	var names []string
	for _, p := range opts.Controller.Presets() {
		names = append(names, p.Name)
	}

	return Model{
		ctx:     ctx,
		ctrl:    opts.Controller,
		opts:    opts,
		session: opts.Controller.Snapshot(),
		input:   ti,
		spinner: sp,
		help:    help.New(),
		keys:    newKeyMap(names),
	}
}

// Run starts the control panel and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running control panel: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.waitForHost()}
	if strings.TrimSpace(m.opts.InitialURL) != "" {
		cmds = append(cmds, m.load(m.opts.InitialURL))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loadedMsg:
		m.done()
		m.session = m.ctrl.Snapshot()
		if msg.res.OK() {
			m.remember(m.session.URL)
		}
		return m, nil

	case opDoneMsg:
		m.done()
		m.session = m.ctrl.Snapshot()
		return m, nil

	case hostChangedMsg:
		return m, tea.Batch(m.sync(), m.waitForHost())

	case syncedMsg:
		m.session = m.ctrl.Snapshot()
		return m, nil

	case spinner.TickMsg:
		if m.busy <= 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Load):
		return m.start(m.load(m.input.Value()))

	case key.Matches(msg, m.keys.Reload):
		return m.start(m.run(m.ctrl.Reload))

	case key.Matches(msg, m.keys.Maximize):
		return m.start(m.run(m.ctrl.ToggleMaximize))

	case key.Matches(msg, m.keys.Fullscreen):
		return m.start(m.run(m.ctrl.ToggleFullscreen))

	case key.Matches(msg, m.keys.Scale):
		return m.start(m.run(m.ctrl.CycleScale))

	case key.Matches(msg, m.keys.Open):
		if m.opts.OpenWindow == nil {
			return m, nil
		}
		open := m.opts.OpenWindow
		return m.start(func() tea.Msg { return opDoneMsg{err: open()} })

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	for i, b := range m.keys.Presets {
		if key.Matches(msg, b) {
			name := m.ctrl.Presets()[i].Name
			return m.start(m.run(func(ctx context.Context) error {
				return m.ctrl.ApplyPreset(ctx, name)
			}))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// start marks an operation in flight. The spinner tick is only scheduled
// when nothing else is running, so ticks never multiply.
func (m Model) start(op tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy++
	if m.busy == 1 {
		return m, tea.Batch(op, m.spinner.Tick)
	}
	return m, op
}

func (m *Model) done() {
	if m.busy > 0 {
		m.busy--
	}
}

func (m Model) load(raw string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return loadedMsg{res: ctrl.Load(ctx, raw)}
	}
}

func (m Model) run(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: fn(ctx)}
	}
}

func (m Model) sync() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		ctrl.Sync(ctx)
		return syncedMsg{}
	}
}

func (m Model) waitForHost() tea.Cmd {
	ch := m.opts.HostChanges
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return hostChangedMsg{}
	}
}

// remember adds url to the completion list if it is new.
func (m *Model) remember(url string) {
	for _, s := range m.opts.Suggestions {
		if s == url {
			return
		}
	}
	m.opts.Suggestions = append([]string{url}, m.opts.Suggestions...)
	m.input.SetSuggestions(m.opts.Suggestions)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("capframe"))
	if m.opts.PageURL != "" {
		b.WriteString("  " + statusStyle.Render(m.opts.PageURL))
	}
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	status := m.session.Status
	switch m.session.Phase {
	case window.Failed:
		status = errorStyle.Render(status)
	case window.Displayed:
		status = okStyle.Render(status)
	default:
		status = statusStyle.Render(status)
	}
	if m.busy > 0 {
		status = m.spinner.View() + " " + status
	}
	b.WriteString(status)
	b.WriteString("\n\n")

	b.WriteString(m.sessionPanel())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) sessionPanel() string {
	s := m.session

	stream := "none"
	if s.Attached() {
		stream = s.Platform.DisplayName() + "  " + s.URL
	}
	size := "-"
	if s.Size.Valid() {
		size = s.Size.String()
	}
	if s.Preset != "" {
		size = s.Preset + " (" + size + ")"
	}

	rows := []string{
		row("State", s.Phase.String()),
		row("Stream", stream),
		row("Size", size),
		row("Scaling", string(s.Scale)),
		row("Maximized", onOff(s.Maximized)),
		row("Fullscreen", onOff(s.Fullscreen)),
	}
	if s.Attached() {
		rows = append(rows, row("Embed", s.EmbedURL))
	}

	style := panelStyle
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
