package launcher

import (
	"fmt"
	"os/exec"

	"capframe/internal/media"
)

// Firefox implements the Launcher interface for Firefox. Firefox has no app
// mode, so the page opens in a new window.
type Firefox struct{}

func (f *Firefox) Name() string { return "firefox" }

func (f *Firefox) Available() bool { return lookPath("firefox") }

func (f *Firefox) Args(url string, size media.DisplaySize) []string {
	var args []string
	if size.Valid() {
		args = append(args,
			"--width", fmt.Sprint(size.Width),
			"--height", fmt.Sprint(size.Height))
	}
	return append(args, "--new-window", url)
}

func (f *Firefox) Open(url string, size media.DisplaySize) error {
	return start("firefox", exec.Command("firefox", f.Args(url, size)...))
}
