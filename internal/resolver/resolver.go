// Package resolver classifies stream URLs by platform and derives the
// official embeddable player URL for them.
//
// Resolve is a pure function: it performs no I/O and returns every failure
// as data in the ParseResult.
package resolver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"capframe/internal/httputil"
	"capframe/internal/media"
)

const (
	youtubeEmbedBase = "https://www.youtube-nocookie.com/embed/"
	youtubeEmbedArgs = "?autoplay=1&rel=0&modestbranding=1"

	facebookPluginURL  = "https://www.facebook.com/plugins/video.php"
	facebookPluginArgs = "&show_text=false&autoplay=true&allowfullscreen=true"
)

var (
	youtubeHosts  = []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}
	facebookHosts = []string{"facebook.com", "fb.watch", "fb.com"}

	// youtubePathPattern matches /live/<id>, /embed/<id>, /shorts/<id> and /v/<id>.
	youtubePathPattern = regexp.MustCompile(`/(live|embed|shorts|v)/([a-zA-Z0-9_-]+)`)
)

// Resolve converts a raw URL into a platform and embed URL. size is only
// used for Facebook embeds and may be nil.
func Resolve(raw string, size *media.DisplaySize) media.ParseResult {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return failure(media.Unknown, media.EmptyInput)
	}

	u, err := httputil.ParseAbsolute(trimmed)
	if err != nil {
		return failure(media.Unknown, media.MalformedURL)
	}

	platform := Classify(u.Hostname())
	switch platform {
	case media.YouTube:
		id := YouTubeID(u)
		if id == "" {
			return failure(media.YouTube, media.UnresolvableVideoID)
		}
		return media.ParseResult{Platform: media.YouTube, EmbedURL: YouTubeEmbedURL(id)}
	case media.Facebook:
		return media.ParseResult{Platform: media.Facebook, EmbedURL: FacebookEmbedURL(trimmed, size)}
	default:
		return failure(media.Unknown, media.UnsupportedPlatform)
	}
}

// Classify maps a hostname to a platform by case-insensitive substring
// match, so subdomains such as m.youtube.com classify correctly.
func Classify(host string) media.Platform {
	host = strings.ToLower(host)
	for _, h := range youtubeHosts {
		if strings.Contains(host, h) {
			return media.YouTube
		}
	}
	for _, h := range facebookHosts {
		if strings.Contains(host, h) {
			return media.Facebook
		}
	}
	return media.Unknown
}

// YouTubeID extracts the video ID from a YouTube URL, trying the v query
// parameter, then the youtu.be short path, then the /live, /embed, /shorts
// and /v path forms. It returns "" when none match.
func YouTubeID(u *url.URL) string {
	if v := queryParam(u.RawQuery, "v"); v != "" {
		return v
	}

	if strings.Contains(strings.ToLower(u.Hostname()), "youtu.be") {
		for _, seg := range strings.Split(u.Path, "/") {
			if seg != "" {
				return seg
			}
		}
	}

	if m := youtubePathPattern.FindStringSubmatch(u.Path); m != nil {
		return m[2]
	}

	return ""
}

// queryParam returns the first value of key in a raw query string. Pairs
// are split on "&" only; a ";" is part of the value. Pairs that fail to
// unescape are skipped.
func queryParam(rawQuery, key string) string {
	for _, pair := range strings.Split(rawQuery, "&") {
		k, v, _ := strings.Cut(pair, "=")
		k, err := url.QueryUnescape(k)
		if err != nil || k != key {
			continue
		}
		if v, err = url.QueryUnescape(v); err == nil {
			return v
		}
	}
	return ""
}

// YouTubeEmbedURL builds the privacy-enhanced autoplaying embed URL for a
// video ID.
func YouTubeEmbedURL(videoID string) string {
	return youtubeEmbedBase + url.PathEscape(videoID) + youtubeEmbedArgs
}

// FacebookEmbedURL wraps the full video URL in Facebook's video plugin
// endpoint. Width and height are appended only for a valid size.
func FacebookEmbedURL(videoURL string, size *media.DisplaySize) string {
	var b strings.Builder
	b.WriteString(facebookPluginURL)
	b.WriteString("?href=")
	b.WriteString(EncodeComponent(videoURL))
	b.WriteString(facebookPluginArgs)
	if size != nil && size.Valid() {
		fmt.Fprintf(&b, "&width=%d&height=%d", size.Width, size.Height)
	}
	return b.String()
}

// EncodeComponent percent-encodes s for use as a query value. Spaces become
// %20 rather than +, so both query and path unescaping restore s exactly.
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func failure(p media.Platform, kind media.ErrorKind) media.ParseResult {
	return media.ParseResult{Platform: p, Err: media.NewResolveError(kind)}
}
