package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capframe/internal/media"
)

func TestFromSnippet(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		want    string
		wantOK  bool
	}{
		{
			name:    "youtube iframe",
			snippet: `<iframe width="560" height="315" src="https://www.youtube.com/embed/abc123?si=xyz" title="YouTube video player" frameborder="0" allowfullscreen></iframe>`,
			want:    "https://www.youtube.com/embed/abc123?si=xyz",
			wantOK:  true,
		},
		{
			name:    "facebook plugin iframe is unwrapped",
			snippet: `<iframe src="https://www.facebook.com/plugins/video.php?height=314&amp;href=https%3A%2F%2Fwww.facebook.com%2Fsomeone%2Fvideos%2F12345%2F&amp;show_text=false&amp;width=560" width="560" height="314"></iframe>`,
			want:    "https://www.facebook.com/someone/videos/12345/",
			wantOK:  true,
		},
		{
			name:    "protocol relative src",
			snippet: `<iframe src="//www.youtube.com/embed/abc123"></iframe>`,
			want:    "https://www.youtube.com/embed/abc123",
			wantOK:  true,
		},
		{
			name:    "anchor fallback",
			snippet: `<blockquote><a href="https://www.facebook.com/someone/videos/777">Watch</a></blockquote>`,
			want:    "https://www.facebook.com/someone/videos/777",
			wantOK:  true,
		},
		{
			name:    "plain url",
			snippet: "https://www.youtube.com/watch?v=abc123",
			wantOK:  false,
		},
		{
			name:    "markup without source",
			snippet: `<div class="player"></div>`,
			wantOK:  false,
		},
		{
			name:    "script is not executed",
			snippet: `<script>alert(1)</script><iframe src="https://youtu.be/abc123"></iframe>`,
			want:    "https://youtu.be/abc123",
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromSnippet(tt.snippet)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeThenResolve(t *testing.T) {
	snippet := `<iframe src="https://www.facebook.com/plugins/video.php?href=https%3A%2F%2Fwww.facebook.com%2Fsomeone%2Fvideos%2F12345&amp;show_text=false"></iframe>`

	res := Resolve(Normalize(snippet), nil)
	require.True(t, res.OK(), "resolve failed: %v", res.Err)
	assert.Equal(t, media.Facebook, res.Platform)
	assert.Equal(t, FacebookEmbedURL("https://www.facebook.com/someone/videos/12345", nil), res.EmbedURL)

	plain := "https://youtu.be/abc123"
	assert.Equal(t, plain, Normalize(plain))
}
