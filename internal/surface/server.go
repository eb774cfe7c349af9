// Package surface serves the capture window: a local player page that hosts
// the embedded platform player, plus the websocket channel the page uses to
// receive commands and report its real window state.
//
// A Server is both the display surface (Attach/Detach/SetScale) and the
// window host (Resize/SetMaximized/SetFullscreen/State) for the window
// controller.
package surface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"capframe/internal/httputil"
	"capframe/internal/media"
	"capframe/internal/window"
)

var (
	// ErrNoWindow is returned by window operations that need a connected page.
	ErrNoWindow = errors.New("no player window connected")

	// ErrAttached is returned when attaching over an existing surface.
	ErrAttached = errors.New("a stream surface is already attached")

	// ErrNoAck is returned when the page did not confirm a window change in time.
	ErrNoAck = errors.New("player window did not respond")
)

const defaultAckTimeout = 2 * time.Second

// Layout is the window state requested from the page. Seq increases with
// every change so page reports can be matched to the request they answer.
type Layout struct {
	Seq        int64           `json:"seq"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Maximized  bool            `json:"maximized"`
	Fullscreen bool            `json:"fullscreen"`
	Scale      media.ScaleMode `json:"scale"`
}

// message is sent from the server to player pages.
type message struct {
	Type      string  `json:"type"`
	SurfaceID string  `json:"surface_id,omitempty"`
	EmbedURL  string  `json:"embed_url,omitempty"`
	Title     string  `json:"title,omitempty"`
	Platform  string  `json:"platform,omitempty"`
	Layout    *Layout `json:"layout,omitempty"`
}

// report is sent from a player page after it applies a layout or when the
// user changes the window directly (for example Esc leaving fullscreen).
type report struct {
	Type       string `json:"type"`
	Seq        int64  `json:"seq"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Maximized  bool   `json:"maximized"`
	Fullscreen bool   `json:"fullscreen"`
}

type attachment struct {
	id    string
	embed window.Embed
}

// Server is the local player page server.
type Server struct {
	mu       sync.Mutex
	current  *attachment
	layout   Layout
	reported *report
	changed  chan struct{} // closed and replaced on every report

	hub          *Hub
	logger       *log.Logger
	upgrader     websocket.Upgrader
	page         *template.Template
	ackTimeout   time.Duration
	onHostChange func()
}

// NewServer creates a server with no stream attached.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("surface")
	return &Server{
		layout:  Layout{Scale: media.ScaleFit},
		changed: make(chan struct{}),
		hub:     NewHub(logger),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     httputil.SameOrigin,
		},
		page:       template.Must(template.New("page").Parse(pageHTML)),
		ackTimeout: defaultAckTimeout,
	}
}

// OnHostChange registers fn to be called after every page report. It runs
// on its own goroutine.
func (s *Server) OnHostChange(fn func()) {
	s.mu.Lock()
	s.onHostChange = fn
	s.mu.Unlock()
}

// Connected returns the number of connected player pages.
func (s *Server) Connected() int {
	return s.hub.ClientCount()
}

// Attach shows e on every page. Only one surface exists at a time.
func (s *Server) Attach(_ context.Context, e window.Embed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return ErrAttached
	}
	s.current = &attachment{id: uuid.NewString(), embed: e}
	s.broadcastLocked(attachMessage(s.current))
	s.logger.Debug("attached", "surface", s.current.id, "platform", e.Platform)
	return nil
}

// Detach removes the current surface. Detaching with nothing attached is a no-op.
func (s *Server) Detach(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	s.broadcastLocked(message{Type: "detach", SurfaceID: s.current.id})
	s.logger.Debug("detached", "surface", s.current.id)
	s.current = nil
	return nil
}

// SetScale changes the scale class of the player stage.
func (s *Server) SetScale(_ context.Context, mode media.ScaleMode) error {
	if !mode.Valid() {
		return fmt.Errorf("invalid scale mode %q", mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layout.Scale = mode
	s.pushLayoutLocked()
	return nil
}

// Resize sets the stage size and leaves maximized mode. With no page
// connected the size is kept and applied when one connects.
func (s *Server) Resize(ctx context.Context, size media.DisplaySize) error {
	if !size.Valid() {
		return fmt.Errorf("invalid window size %s", size)
	}

	s.mu.Lock()
	s.layout.Width = size.Width
	s.layout.Height = size.Height
	s.layout.Maximized = false
	seq := s.pushLayoutLocked()
	s.mu.Unlock()

	if s.hub.ClientCount() == 0 {
		return nil
	}
	if err := s.waitForReport(ctx, seq); err != nil {
		s.logger.Debug("resize not confirmed", "err", err)
	}
	return nil
}

// SetMaximized makes the stage fill the page viewport, or restores it.
func (s *Server) SetMaximized(ctx context.Context, on bool) error {
	if s.hub.ClientCount() == 0 {
		return ErrNoWindow
	}

	s.mu.Lock()
	s.layout.Maximized = on
	seq := s.pushLayoutLocked()
	s.mu.Unlock()

	return s.waitForReport(ctx, seq)
}

// SetFullscreen asks the page to enter or leave browser fullscreen. The
// browser may refuse; State reports what actually happened.
func (s *Server) SetFullscreen(ctx context.Context, on bool) error {
	if s.hub.ClientCount() == 0 {
		return ErrNoWindow
	}

	s.mu.Lock()
	s.layout.Fullscreen = on
	seq := s.pushLayoutLocked()
	s.mu.Unlock()

	return s.waitForReport(ctx, seq)
}

// State returns the window state confirmed by a page for the current
// layout, falling back to the requested layout when no page has confirmed it.
func (s *Server) State(context.Context) (window.HostState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := window.HostState{
		Size:      media.DisplaySize{Width: s.layout.Width, Height: s.layout.Height},
		Maximized: s.layout.Maximized,
	}
	if s.hub.ClientCount() == 0 {
		return st, nil
	}

	if r := s.reported; r != nil && r.Seq == s.layout.Seq {
		st.Maximized = r.Maximized
		st.Fullscreen = r.Fullscreen
		if r.Width > 0 && r.Height > 0 {
			st.Size = media.DisplaySize{Width: r.Width, Height: r.Height}
		}
	}
	return st, nil
}

// pushLayoutLocked bumps the layout sequence and broadcasts it.
func (s *Server) pushLayoutLocked() int64 {
	s.layout.Seq++
	layout := s.layout
	s.broadcastLocked(message{Type: "layout", Layout: &layout})
	return layout.Seq
}

func (s *Server) broadcastLocked(msg message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("encoding message", "type", msg.Type, "err", err)
		return
	}
	s.hub.Broadcast(data)
}

// waitForReport blocks until a page reports seq or later.
func (s *Server) waitForReport(ctx context.Context, seq int64) error {
	timer := time.NewTimer(s.ackTimeout)
	defer timer.Stop()

	for {
		s.mu.Lock()
		if s.reported != nil && s.reported.Seq >= seq {
			s.mu.Unlock()
			return nil
		}
		changed := s.changed
		s.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return ErrNoAck
		}
	}
}

func (s *Server) handleReport(data []byte) {
	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		s.logger.Debug("ignoring malformed report", "err", err)
		return
	}
	if r.Type != "host_state" {
		return
	}

	s.mu.Lock()
	s.reported = &r
	close(s.changed)
	s.changed = make(chan struct{})
	fn := s.onHostChange
	s.mu.Unlock()

	if fn != nil {
		go fn()
	}
}

func attachMessage(a *attachment) message {
	return message{
		Type:      "attach",
		SurfaceID: a.id,
		EmbedURL:  a.embed.URL,
		Title:     a.embed.Title,
		Platform:  a.embed.Platform.String(),
	}
}

// Handler returns the HTTP handler for the page, websocket and state endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /state", s.handleState)
	return mux
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.CloseAll()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("player page ready", "url", "http://"+ln.Addr().String()+"/")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving player page: %w", err)
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "err", err)
		return
	}

	c := &client{
		hub:      s.hub,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		onReport: s.handleReport,
	}

	// Queue the snapshot and register under s.mu so no broadcast can slip
	// between them.
	s.mu.Lock()
	if s.current != nil {
		if data, err := json.Marshal(attachMessage(s.current)); err == nil {
			c.send <- data
		}
	}
	layout := s.layout
	if data, err := json.Marshal(message{Type: "layout", Layout: &layout}); err == nil {
		c.send <- data
	}
	s.hub.register(c)
	s.mu.Unlock()

	go c.writePump()
	go c.readPump()
}

// stateResponse is the JSON body of GET /state.
type stateResponse struct {
	SurfaceID string `json:"surface_id,omitempty"`
	EmbedURL  string `json:"embed_url,omitempty"`
	Title     string `json:"title,omitempty"`
	Platform  string `json:"platform,omitempty"`
	Layout    Layout `json:"layout"`
	Connected int    `json:"connected"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := stateResponse{Layout: s.layout, Connected: s.hub.ClientCount()}
	if s.current != nil {
		resp.SurfaceID = s.current.id
		resp.EmbedURL = s.current.embed.URL
		resp.Title = s.current.embed.Title
		resp.Platform = s.current.embed.Platform.String()
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(resp)
}

// pageData feeds the player page template.
type pageData struct {
	SurfaceID  string
	EmbedURL   string
	Title      string
	StageClass string
	Width      int
	Height     int
	Sized      bool
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data := pageData{
		StageClass: s.layout.Scale.CSSClass(),
		Width:      s.layout.Width,
		Height:     s.layout.Height,
		Sized:      s.layout.Width > 0 && s.layout.Height > 0 && !s.layout.Maximized,
	}
	if s.layout.Maximized {
		data.StageClass += " maximized"
	}
	if s.current != nil {
		data.SurfaceID = s.current.id
		data.EmbedURL = s.current.embed.URL
		data.Title = s.current.embed.Title
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("rendering player page", "err", err)
	}
}
