package window

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"capframe/internal/media"
	"capframe/internal/resolver"
)

// Controller serialises user actions against the session. Operations run
// one at a time; Snapshot may be called concurrently with them.
type Controller struct {
	op sync.Mutex // held for the duration of an operation

	mu      sync.RWMutex // guards session
	session Session

	surface  Surface
	host     Host
	recorder Recorder
	presets  []media.SizePreset
	logger   *log.Logger
}

// New creates a controller with no stream loaded.
func New(surface Surface, host Host, presets []media.SizePreset, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		session: Session{
			Phase:  NoStream,
			Scale:  media.ScaleFit,
			Status: "Paste a YouTube or Facebook URL",
		},
		surface: surface,
		host:    host,
		presets: presets,
		logger:  logger.WithPrefix("window"),
	}
}

// SetRecorder installs the history recorder. nil disables recording.
func (c *Controller) SetRecorder(r Recorder) {
	c.op.Lock()
	defer c.op.Unlock()
	c.recorder = r
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Presets returns the configured size presets.
func (c *Controller) Presets() []media.SizePreset {
	return append([]media.SizePreset(nil), c.presets...)
}

func (c *Controller) update(fn func(s *Session)) {
	c.mu.Lock()
	fn(&c.session)
	c.mu.Unlock()
}

// Load resolves raw and displays the result. On a resolve failure the
// session enters the error phase and any stream already on screen stays
// attached. On success the previous surface is detached before the new
// one is attached.
func (c *Controller) Load(ctx context.Context, raw string) media.ParseResult {
	c.op.Lock()
	defer c.op.Unlock()
	return c.load(ctx, raw)
}

func (c *Controller) load(ctx context.Context, raw string) media.ParseResult {
	input := strings.TrimSpace(resolver.Normalize(raw))

	c.update(func(s *Session) {
		s.Phase = Loading
		s.Status = "Loading..."
	})

	current := c.Snapshot()
	var hint *media.DisplaySize
	if current.Size.Valid() {
		size := current.Size
		hint = &size
	}

	res := resolver.Resolve(input, hint)
	if res.Err != nil {
		c.logger.Debug("resolve failed", "input", input, "kind", res.Err.Kind)
		c.update(func(s *Session) {
			s.Phase = Failed
			s.Err = res.Err
			s.Status = res.Err.Message
		})
		return res
	}

	c.logger.Debug("resolved", "platform", res.Platform, "embed", res.EmbedURL)

	if current.Attached() {
		if err := c.surface.Detach(ctx); err != nil {
			c.logger.Warn("detaching previous stream", "err", err)
		}
		c.update(func(s *Session) { s.EmbedURL = "" })
	}

	embed := EmbedFor(res)
	if err := c.surface.Attach(ctx, embed); err != nil {
		c.logger.Error("attaching stream", "err", err)
		c.update(func(s *Session) {
			s.Phase = Failed
			s.Err = nil
			s.Status = fmt.Sprintf("Failed to display stream: %v", err)
		})
		return res
	}

	c.update(func(s *Session) {
		s.URL = input
		s.Platform = res.Platform
		s.EmbedURL = res.EmbedURL
		s.Phase = Displayed
		s.Err = nil
		s.Status = fmt.Sprintf("Playing %s", embed.Title)
	})

	if c.recorder != nil {
		if err := c.recorder.Record(input, res); err != nil {
			c.logger.Warn("recording history", "err", err)
		}
	}

	return res
}

// Reload re-resolves the current stream and replaces its surface.
func (c *Controller) Reload(ctx context.Context) error {
	c.op.Lock()
	defer c.op.Unlock()
	return c.reload(ctx)
}

func (c *Controller) reload(ctx context.Context) error {
	url := c.Snapshot().URL
	if url == "" {
		c.update(func(s *Session) { s.Status = "No stream to reload" })
		return ErrNoStream
	}
	if res := c.load(ctx, url); res.Err != nil {
		return res.Err
	}
	return nil
}

// Stop detaches the current stream.
func (c *Controller) Stop(ctx context.Context) error {
	c.op.Lock()
	defer c.op.Unlock()

	if !c.Snapshot().Attached() {
		return ErrNoStream
	}
	if err := c.surface.Detach(ctx); err != nil {
		c.update(func(s *Session) { s.Status = fmt.Sprintf("Failed to stop stream: %v", err) })
		return fmt.Errorf("detaching stream: %w", err)
	}
	c.update(func(s *Session) {
		s.URL = ""
		s.Platform = media.Unknown
		s.EmbedURL = ""
		s.Phase = NoStream
		s.Err = nil
		s.Status = "Stream stopped"
	})
	return nil
}

// FindPreset looks up a preset by case-insensitive name.
func (c *Controller) FindPreset(name string) (media.SizePreset, bool) {
	for _, p := range c.presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return media.SizePreset{}, false
}

// ApplyPreset leaves maximized and fullscreen modes and resizes the window
// to the named preset. A displayed Facebook stream is reloaded so its embed
// matches the new size.
func (c *Controller) ApplyPreset(ctx context.Context, name string) error {
	c.op.Lock()
	defer c.op.Unlock()

	preset, ok := c.FindPreset(name)
	if !ok {
		c.update(func(s *Session) { s.Status = fmt.Sprintf("Unknown size preset %q", name) })
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	current := c.Snapshot()
	if current.Fullscreen {
		if err := c.host.SetFullscreen(ctx, false); err != nil {
			c.logger.Warn("leaving fullscreen before resize", "err", err)
		}
	}
	if current.Maximized {
		if err := c.host.SetMaximized(ctx, false); err != nil {
			c.logger.Warn("restoring before resize", "err", err)
		}
	}

	err := c.host.Resize(ctx, preset.Size())
	synced := c.resync(ctx)
	if err != nil {
		c.update(func(s *Session) { s.Status = fmt.Sprintf("Failed to resize window: %v", err) })
		return fmt.Errorf("resizing to %s: %w", preset.Name, err)
	}

	c.update(func(s *Session) {
		s.Preset = preset.Name
		if !synced {
			s.Size = preset.Size()
		}
		s.Status = fmt.Sprintf("Window size: %s (%s)", preset.Name, preset.Size())
	})

	after := c.Snapshot()
	if after.Attached() && after.Platform == media.Facebook {
		return c.reload(ctx)
	}
	return nil
}

// ToggleMaximize flips the maximized state and resynchronises from the host.
// A host that accepts the request but does not change state yields ErrRefused.
func (c *Controller) ToggleMaximize(ctx context.Context) error {
	c.op.Lock()
	defer c.op.Unlock()

	want := !c.Snapshot().Maximized
	err := c.host.SetMaximized(ctx, want)
	synced := c.resync(ctx)
	if err != nil {
		c.update(func(s *Session) { s.Status = fmt.Sprintf("Failed to toggle maximize: %v", err) })
		return fmt.Errorf("toggling maximize: %w", err)
	}
	if !synced {
		c.update(func(s *Session) { s.Maximized = want })
	}

	if c.Snapshot().Maximized != want {
		c.update(func(s *Session) { s.Status = "Maximize refused by the capture window" })
		return fmt.Errorf("toggling maximize: %w", ErrRefused)
	}

	c.update(func(s *Session) {
		if s.Maximized {
			s.Status = "Window maximized"
		} else {
			s.Status = "Window restored"
		}
	})
	return nil
}

// ToggleFullscreen flips fullscreen and resynchronises from the host.
// Browsers refuse fullscreen requests made without a user gesture; that
// shows up as ErrRefused.
func (c *Controller) ToggleFullscreen(ctx context.Context) error {
	c.op.Lock()
	defer c.op.Unlock()

	want := !c.Snapshot().Fullscreen
	err := c.host.SetFullscreen(ctx, want)
	synced := c.resync(ctx)
	if err != nil {
		c.update(func(s *Session) { s.Status = fmt.Sprintf("Failed to toggle fullscreen: %v", err) })
		return fmt.Errorf("toggling fullscreen: %w", err)
	}
	if !synced {
		c.update(func(s *Session) { s.Fullscreen = want })
	}

	if c.Snapshot().Fullscreen != want {
		c.update(func(s *Session) {
			if want {
				s.Status = "Fullscreen refused by the capture window (press F11 there)"
			} else {
				s.Status = "Capture window did not leave fullscreen (press Esc there)"
			}
		})
		return fmt.Errorf("toggling fullscreen: %w", ErrRefused)
	}

	c.update(func(s *Session) {
		if s.Fullscreen {
			s.Status = "Fullscreen on"
		} else {
			s.Status = "Fullscreen off"
		}
	})
	return nil
}

// SetScale changes how the player fills the surface.
func (c *Controller) SetScale(ctx context.Context, mode media.ScaleMode) error {
	c.op.Lock()
	defer c.op.Unlock()
	return c.setScale(ctx, mode)
}

func (c *Controller) setScale(ctx context.Context, mode media.ScaleMode) error {
	if !mode.Valid() {
		c.update(func(s *Session) { s.Status = fmt.Sprintf("Unknown scale mode %q", mode) })
		return fmt.Errorf("%w: %q", ErrInvalidScale, mode)
	}
	if err := c.surface.SetScale(ctx, mode); err != nil {
		c.update(func(s *Session) { s.Status = fmt.Sprintf("Failed to change scaling: %v", err) })
		return fmt.Errorf("setting scale: %w", err)
	}
	c.update(func(s *Session) {
		s.Scale = mode
		s.Status = fmt.Sprintf("Scaling: %s", mode)
	})
	return nil
}

// CycleScale switches to the next scale mode.
func (c *Controller) CycleScale(ctx context.Context) error {
	c.op.Lock()
	defer c.op.Unlock()
	return c.setScale(ctx, c.Snapshot().Scale.Next())
}

// Sync refreshes the window flags from the host, for example after the
// user left fullscreen from the window itself.
func (c *Controller) Sync(ctx context.Context) {
	c.op.Lock()
	defer c.op.Unlock()
	c.resync(ctx)
}

// resync copies the host's authoritative state into the session. A host
// that cannot report leaves the session as it was and resync returns false.
func (c *Controller) resync(ctx context.Context) bool {
	st, err := c.host.State(ctx)
	if err != nil {
		c.logger.Debug("reading host state", "err", err)
		return false
	}
	c.update(func(s *Session) {
		s.Maximized = st.Maximized
		s.Fullscreen = st.Fullscreen
		if st.Size.Valid() {
			s.Size = st.Size
		}
	})
	return true
}
