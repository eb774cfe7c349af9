package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capframe/internal/media"
	"capframe/internal/window"
)

type stubSurface struct{ attached []string }

func (s *stubSurface) Attach(_ context.Context, e window.Embed) error {
	s.attached = append(s.attached, e.URL)
	return nil
}
func (s *stubSurface) Detach(context.Context) error { return nil }
func (s *stubSurface) SetScale(context.Context, media.ScaleMode) error { return nil }

type stubHost struct {
	state    window.HostState
	failFull bool
}

func (h *stubHost) Resize(_ context.Context, size media.DisplaySize) error {
	h.state.Size = size
	return nil
}

func (h *stubHost) SetMaximized(_ context.Context, on bool) error {
	h.state.Maximized = on
	return nil
}

func (h *stubHost) SetFullscreen(_ context.Context, on bool) error {
	if h.failFull {
		return errors.New("denied")
	}
	h.state.Fullscreen = on
	return nil
}

func (h *stubHost) State(context.Context) (window.HostState, error) { return h.state, nil }

func newTestModel(t *testing.T, opts Options) (Model, *stubSurface, *stubHost) {
	t.Helper()
	surface := &stubSurface{}
	host := &stubHost{}
	opts.Controller = window.New(surface, host, media.DefaultPresets(), log.New(io.Discard))
	return New(context.Background(), opts), surface, host
}

// drain runs cmd and feeds every resulting message back into the model,
// expanding batches. Spinner ticks are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
	default:
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	return drain(t, next.(Model), cmd)
}

func TestTypingEditsInput(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("https://youtu.be/abc")})
	m = next.(Model)
	assert.Equal(t, "https://youtu.be/abc", m.input.Value())
}

func TestPasteLongURL(t *testing.T) {
	m, surface, _ := newTestModel(t, Options{})
	long := "https://www.facebook.com/someone/videos/12345?ref=" + strings.Repeat("a", 2100)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(long), Paste: true})
	m = next.(Model)
	require.Equal(t, long, m.input.Value())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, window.Displayed, m.session.Phase)
	assert.Equal(t, long, m.session.URL)
	require.Len(t, surface.attached, 1)
	assert.Contains(t, surface.attached[0], strings.Repeat("a", 2100))
}

func TestEnterLoadsStream(t *testing.T) {
	m, surface, _ := newTestModel(t, Options{})
	m.input.SetValue("https://www.youtube.com/watch?v=abc123")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, window.Displayed, m.session.Phase)
	assert.Equal(t, 0, m.busy)
	require.Len(t, surface.attached, 1)
	assert.Equal(t, "https://www.youtube-nocookie.com/embed/abc123?autoplay=1&rel=0&modestbranding=1", surface.attached[0])
	assert.Contains(t, m.opts.Suggestions, "https://www.youtube.com/watch?v=abc123")

	view := m.View()
	assert.Contains(t, view, "displayed")
	assert.Contains(t, view, "YouTube")
}

func TestEnterShowsResolveError(t *testing.T) {
	m, surface, _ := newTestModel(t, Options{})
	m.input.SetValue("https://vimeo.com/123")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, window.Failed, m.session.Phase)
	assert.Empty(t, surface.attached)
	assert.Contains(t, m.View(), "URL must be from YouTube or Facebook")
}

func TestPresetKeys(t *testing.T) {
	m, _, host := newTestModel(t, Options{})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true})
	assert.Equal(t, media.DisplaySize{Width: 854, Height: 480}, host.state.Size)
	assert.Equal(t, "480p", m.session.Preset)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyF4})
	assert.Equal(t, media.DisplaySize{Width: 1920, Height: 1080}, host.state.Size)
	assert.Equal(t, "1080p", m.session.Preset)
	assert.Empty(t, m.input.Value(), "preset keys are not typed into the input")
}

func TestToggleKeys(t *testing.T) {
	m, _, host := newTestModel(t, Options{})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.True(t, m.session.Maximized)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.True(t, m.session.Fullscreen)

	host.failFull = true
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.True(t, m.session.Fullscreen, "state follows the host after a failed toggle")
	assert.Contains(t, m.session.Status, "Failed to toggle fullscreen")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, media.ScaleFill, m.session.Scale)
}

func TestReloadWithoutStream(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, "No stream to reload", m.session.Status)
}

func TestOpenWindow(t *testing.T) {
	opened := 0
	m, _, _ := newTestModel(t, Options{OpenWindow: func() error { opened++; return nil }})
	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, 1, opened)
}

func TestHostChangeResyncs(t *testing.T) {
	changes := make(chan struct{}, 1)
	m, _, host := newTestModel(t, Options{HostChanges: changes})

	host.state.Fullscreen = true
	changes <- struct{}{}

	// Init waits on the channel; the first message it yields triggers a sync.
	msg := m.waitForHost()()
	require.IsType(t, hostChangedMsg{}, msg)
	next, cmd := m.Update(msg)
	m = next.(Model)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	// Only run the sync command; the other one blocks on the channel again.
	next, _ = m.Update(batch[0]())
	m = next.(Model)
	assert.True(t, m.session.Fullscreen)
}

func TestQuitKeys(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	for _, k := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestHelpToggle(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	assert.NotContains(t, m.View(), "1080p")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	m = next.(Model)
	assert.Contains(t, m.View(), "1080p")
}
