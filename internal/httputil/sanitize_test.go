package httputil

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseAbsolute(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid HTTPS", "https://example.com/path", false},
		{"valid HTTP", "http://example.com/path", false},
		{"valid with port", "https://example.com:8080/path", false},
		{"valid with query", "https://example.com/path?q=test&a=b", false},
		{"free text", "not a url", true},
		{"bare host", "youtube.com/watch?v=abc", true},
		{"empty string", "", true},
		{"no host", "https://", true},
		{"opaque scheme", "mailto:someone@example.com", true},
		{"javascript scheme", "javascript:alert(1)", true},
		{"bad escape", "https://example.com/%zz", true},
		{"unclosed IPv6", "http://[::1", true},
		{"long query", "https://example.com/?ref=" + strings.Repeat("a", 10000), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAbsolute(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseAbsolute(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateListenAddr(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{"127.0.0.1:8787", false},
		{"localhost:0", false},
		{":9000", false},
		{"[::1]:8787", false},
		{"127.0.0.1", true},
		{"127.0.0.1:http", true},
		{"127.0.0.1:70000", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			err := ValidateListenAddr(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateListenAddr(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
		})
	}
}

func TestIsLoopback(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"LOCALHOST", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"192.168.1.10", false},
		{"example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := IsLoopback(tt.host); got != tt.want {
				t.Errorf("IsLoopback(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}

func TestSameOrigin(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		origin string
		want   bool
	}{
		{"no origin", "127.0.0.1:8787", "", true},
		{"same host", "127.0.0.1:8787", "http://127.0.0.1:8787", true},
		{"localhost alias", "127.0.0.1:8787", "http://localhost:8787", true},
		{"foreign site", "127.0.0.1:8787", "https://evil.example", false},
		{"garbage origin", "127.0.0.1:8787", "://", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "http://"+tt.host+"/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := SameOrigin(r); got != tt.want {
				t.Errorf("SameOrigin(origin=%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
