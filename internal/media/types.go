// Package media defines shared types for the capframe application.
package media

import (
	"fmt"
	"time"
)

// Platform identifies the streaming service that owns a URL.
type Platform int

const (
	Unknown Platform = iota
	YouTube
	Facebook
)

func (p Platform) String() string {
	switch p {
	case YouTube:
		return "youtube"
	case Facebook:
		return "facebook"
	default:
		return "unknown"
	}
}

// DisplayName returns the human-readable platform name.
func (p Platform) DisplayName() string {
	switch p {
	case YouTube:
		return "YouTube"
	case Facebook:
		return "Facebook"
	default:
		return "Unknown"
	}
}

// ParsePlatform is the inverse of String. Unrecognised names map to Unknown.
func ParsePlatform(s string) Platform {
	switch s {
	case "youtube":
		return YouTube
	case "facebook":
		return Facebook
	default:
		return Unknown
	}
}

// MarshalText encodes the platform as its String form.
func (p Platform) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ErrorKind classifies why a URL could not be resolved.
type ErrorKind int

const (
	EmptyInput ErrorKind = iota + 1
	MalformedURL
	UnsupportedPlatform
	UnresolvableVideoID
)

func (k ErrorKind) String() string {
	switch k {
	case EmptyInput:
		return "empty_input"
	case MalformedURL:
		return "malformed_url"
	case UnsupportedPlatform:
		return "unsupported_platform"
	case UnresolvableVideoID:
		return "unresolvable_video_id"
	default:
		return "unknown"
	}
}

// Message is the user-facing text for the error kind.
func (k ErrorKind) Message() string {
	switch k {
	case EmptyInput:
		return "Please enter a URL"
	case MalformedURL:
		return "Invalid URL format"
	case UnsupportedPlatform:
		return "URL must be from YouTube or Facebook"
	case UnresolvableVideoID:
		return "Could not extract YouTube video ID"
	default:
		return "Unknown error"
	}
}

// MarshalText encodes the kind as its String form.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ResolveError describes a failed resolve. It is carried as data in a
// ParseResult rather than returned.
type ResolveError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ResolveError) Error() string {
	return e.Message
}

// NewResolveError builds a ResolveError with the kind's standard message.
func NewResolveError(kind ErrorKind) *ResolveError {
	return &ResolveError{Kind: kind, Message: kind.Message()}
}

// ParseResult is the outcome of resolving one URL. Exactly one of EmbedURL
// and Err is set.
type ParseResult struct {
	Platform Platform      `json:"platform"`
	EmbedURL string        `json:"embed_url,omitempty"`
	Err      *ResolveError `json:"error,omitempty"`
}

// OK reports whether the result carries an embed URL.
func (r ParseResult) OK() bool {
	return r.Err == nil && r.EmbedURL != ""
}

// DisplaySize is a width/height pair in device-independent pixels.
type DisplaySize struct {
	Width  int `json:"width" toml:"width"`
	Height int `json:"height" toml:"height"`
}

// Valid reports whether both dimensions are positive.
func (s DisplaySize) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s DisplaySize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// SizePreset is a named window size.
type SizePreset struct {
	Name   string `toml:"name" json:"name"`
	Width  int    `toml:"width" json:"width"`
	Height int    `toml:"height" json:"height"`
}

// Size returns the preset dimensions.
func (p SizePreset) Size() DisplaySize {
	return DisplaySize{Width: p.Width, Height: p.Height}
}

// DefaultPresets are the built-in window sizes, smallest first.
func DefaultPresets() []SizePreset {
	return []SizePreset{
		{Name: "360p", Width: 640, Height: 360},
		{Name: "480p", Width: 854, Height: 480},
		{Name: "720p", Width: 1280, Height: 720},
		{Name: "1080p", Width: 1920, Height: 1080},
	}
}

// ScaleMode controls how the player fills the display surface.
type ScaleMode string

const (
	ScaleFit     ScaleMode = "fit"
	ScaleFill    ScaleMode = "fill"
	ScaleStretch ScaleMode = "stretch"
)

// ScaleModes lists the modes in cycling order.
var ScaleModes = []ScaleMode{ScaleFit, ScaleFill, ScaleStretch}

// Valid reports whether m is a known scale mode.
func (m ScaleMode) Valid() bool {
	for _, s := range ScaleModes {
		if m == s {
			return true
		}
	}
	return false
}

// Next returns the mode after m in cycling order.
func (m ScaleMode) Next() ScaleMode {
	for i, s := range ScaleModes {
		if m == s {
			return ScaleModes[(i+1)%len(ScaleModes)]
		}
	}
	return ScaleFit
}

// CSSClass is the class applied to the player stage for this mode.
func (m ScaleMode) CSSClass() string {
	if !m.Valid() {
		return "scale-" + string(ScaleFit)
	}
	return "scale-" + string(m)
}

// HistoryEntry is a previously displayed stream.
type HistoryEntry struct {
	URL        string    `json:"url"`         // Trimmed input URL
	Platform   Platform  `json:"platform"`    // Classified platform
	EmbedURL   string    `json:"embed_url"`   // Embed URL at the time it was opened
	LastOpened time.Time `json:"last_opened"` // Most recent display time
}
