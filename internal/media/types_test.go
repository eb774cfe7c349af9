package media

import (
	"encoding/json"
	"testing"
)

func TestErrorKindMessage(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{EmptyInput, "Please enter a URL"},
		{MalformedURL, "Invalid URL format"},
		{UnsupportedPlatform, "URL must be from YouTube or Facebook"},
		{UnresolvableVideoID, "Could not extract YouTube video ID"},
	}
	for _, tt := range tests {
		if got := NewResolveError(tt.kind).Error(); got != tt.want {
			t.Errorf("%s: Error() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPlatformRoundTrip(t *testing.T) {
	for _, p := range []Platform{Unknown, YouTube, Facebook} {
		if got := ParsePlatform(p.String()); got != p {
			t.Errorf("ParsePlatform(%q) = %v, want %v", p.String(), got, p)
		}
	}
}

func TestScaleModeNext(t *testing.T) {
	tests := []struct {
		in, want ScaleMode
	}{
		{ScaleFit, ScaleFill},
		{ScaleFill, ScaleStretch},
		{ScaleStretch, ScaleFit},
		{ScaleMode("zoom"), ScaleFit},
	}
	for _, tt := range tests {
		if got := tt.in.Next(); got != tt.want {
			t.Errorf("%q.Next() = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := ScaleMode("zoom").CSSClass(); got != "scale-fit" {
		t.Errorf("invalid mode CSSClass() = %q, want scale-fit", got)
	}
}

func TestParseResultJSON(t *testing.T) {
	ok, _ := json.Marshal(ParseResult{Platform: YouTube, EmbedURL: "https://x"})
	if string(ok) != `{"platform":"youtube","embed_url":"https://x"}` {
		t.Errorf("success JSON = %s", ok)
	}

	fail, _ := json.Marshal(ParseResult{Err: NewResolveError(EmptyInput)})
	var body map[string]any
	if err := json.Unmarshal(fail, &body); err != nil {
		t.Fatal(err)
	}
	if _, has := body["embed_url"]; has {
		t.Errorf("failure JSON carries embed_url: %s", fail)
	}
	if body["platform"] != "unknown" {
		t.Errorf("failure platform = %v, want unknown", body["platform"])
	}
}

func TestDisplaySize(t *testing.T) {
	if (DisplaySize{}).Valid() || (DisplaySize{Width: 10, Height: -1}).Valid() {
		t.Error("non-positive sizes must be invalid")
	}
	if got := (DisplaySize{Width: 1280, Height: 720}).String(); got != "1280x720" {
		t.Errorf("String() = %q", got)
	}
}
