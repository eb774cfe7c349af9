// Package httputil provides URL validation and request-origin checks shared
// by the resolver and the local player server.
package httputil

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ParseAbsolute parses rawURL and requires a scheme and an authority.
// Relative references, bare hosts ("youtube.com/watch") and free text fail.
func ParseAbsolute(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("URL has no scheme")
	}
	if u.Host == "" || u.Hostname() == "" {
		return nil, fmt.Errorf("URL has no host")
	}
	return u, nil
}

// ValidateListenAddr checks that addr is a host:port pair with a usable port.
func ValidateListenAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("invalid port %q in listen address", port)
	}
	if strings.ContainsAny(host, " /\\") {
		return fmt.Errorf("invalid host %q in listen address", host)
	}
	return nil
}

// IsLoopback reports whether host names the local machine.
func IsLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// SameOrigin reports whether a browser request originates from the page the
// server itself served, or from a non-browser client that sends no Origin.
// OBS browser sources and local tools fall in the second group.
func SameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return IsLoopback(u.Hostname()) && IsLoopback(hostOnly(r.Host))
}

func hostOnly(hostport string) string {
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		return h
	}
	return hostport
}
