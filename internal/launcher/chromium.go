package launcher

import (
	"fmt"
	"os/exec"

	"capframe/internal/media"
)

// Chromium implements the Launcher interface for chromium-family browsers.
// The page opens as a chrome-less --app window, which is what capture
// tools pick up as a single clean window.
type Chromium struct {
	name string
}

func (c *Chromium) Name() string { return c.name }

func (c *Chromium) Available() bool { return lookPath(c.name) }

// Args returns the command-line arguments for opening url.
func (c *Chromium) Args(url string, size media.DisplaySize) []string {
	args := []string{
		"--app=" + url,
		"--autoplay-policy=no-user-gesture-required",
	}
	if size.Valid() {
		args = append(args, fmt.Sprintf("--window-size=%d,%d", size.Width, size.Height))
	}
	return args
}

// Open launches the browser window.
func (c *Chromium) Open(url string, size media.DisplaySize) error {
	return start(c.name, exec.Command(c.name, c.Args(url, size)...))
}
