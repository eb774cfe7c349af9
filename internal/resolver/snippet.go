package resolver

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FromSnippet extracts the video URL from a pasted HTML embed code such as
// the <iframe> snippets YouTube and Facebook offer under "Share > Embed".
// Facebook plugin URLs are unwrapped to the video URL in their href
// parameter. The snippet is parsed as a DOM, never evaluated.
func FromSnippet(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "<") {
		return "", false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return "", false
	}

	src := strings.TrimSpace(doc.Find("iframe[src]").First().AttrOr("src", ""))
	if src == "" {
		src = strings.TrimSpace(doc.Find("a[href]").First().AttrOr("href", ""))
	}
	if src == "" {
		return "", false
	}

	// Protocol-relative embed codes ("//www.youtube.com/embed/...")
	if strings.HasPrefix(src, "//") {
		src = "https:" + src
	}

	if href, ok := unwrapFacebookPlugin(src); ok {
		return href, true
	}
	return src, true
}

// Normalize returns the URL inside an embed snippet, or text unchanged when
// it is not a snippet.
func Normalize(text string) string {
	if u, ok := FromSnippet(text); ok {
		return u
	}
	return text
}

// unwrapFacebookPlugin returns the href parameter of a Facebook video
// plugin URL.
func unwrapFacebookPlugin(src string) (string, bool) {
	u, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	if !strings.Contains(strings.ToLower(u.Hostname()), "facebook.com") {
		return "", false
	}
	if !strings.HasPrefix(u.Path, "/plugins/video.php") {
		return "", false
	}
	href := u.Query().Get("href")
	if href == "" {
		return "", false
	}
	return href, true
}
