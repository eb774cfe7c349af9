// Package window owns the capture window's session state and drives its two
// collaborators: the display surface that hosts the embedded player and the
// window host that sizes, maximizes and fullscreens it.
package window

import (
	"context"
	"errors"

	"capframe/internal/media"
)

var (
	// ErrUnknownPreset is returned for a preset name that is not configured.
	ErrUnknownPreset = errors.New("unknown size preset")

	// ErrNoStream is returned by operations that need a loaded stream.
	ErrNoStream = errors.New("no stream loaded")

	// ErrInvalidScale is returned for an unrecognised scale mode.
	ErrInvalidScale = errors.New("invalid scale mode")

	// ErrRefused is returned when the host accepted a window change but
	// its reported state shows the change did not happen.
	ErrRefused = errors.New("window change refused by the capture window")
)

// Embed is what the display surface needs to show a player.
type Embed struct {
	Platform media.Platform
	URL      string
	Title    string
}

// EmbedFor builds the surface description for a successful resolve.
func EmbedFor(res media.ParseResult) Embed {
	return Embed{
		Platform: res.Platform,
		URL:      res.EmbedURL,
		Title:    res.Platform.DisplayName() + " live stream",
	}
}

// Surface is the element that hosts the embedded player. Attach must only
// be called with no surface attached.
type Surface interface {
	Attach(ctx context.Context, e Embed) error
	Detach(ctx context.Context) error
	SetScale(ctx context.Context, mode media.ScaleMode) error
}

// HostState is the window host's authoritative view of the window.
type HostState struct {
	Size       media.DisplaySize
	Maximized  bool
	Fullscreen bool
}

// Host is the windowing API that sizes the capture window.
type Host interface {
	Resize(ctx context.Context, size media.DisplaySize) error
	SetMaximized(ctx context.Context, on bool) error
	SetFullscreen(ctx context.Context, on bool) error
	State(ctx context.Context) (HostState, error)
}

// Recorder stores successfully displayed streams.
type Recorder interface {
	Record(rawURL string, res media.ParseResult) error
}

// Phase is the display state of the session.
type Phase int

const (
	NoStream Phase = iota
	Loading
	Displayed
	Failed
)

func (p Phase) String() string {
	switch p {
	case NoStream:
		return "no stream"
	case Loading:
		return "loading"
	case Displayed:
		return "displayed"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Session is the state of one capture window.
type Session struct {
	URL      string // Normalized input of the last successful load
	Platform media.Platform
	EmbedURL string // Currently attached embed, "" when none
	Phase    Phase
	Err      *media.ResolveError // Last resolve failure, cleared on success
	Status   string              // User-facing status line

	Preset     string
	Size       media.DisplaySize
	Scale      media.ScaleMode
	Maximized  bool
	Fullscreen bool
}

// Attached reports whether an embed surface is currently shown.
func (s Session) Attached() bool {
	return s.EmbedURL != ""
}
