package launcher

import (
	"os/exec"

	"capframe/internal/media"
)

// Generic implements the Launcher interface for desktop openers like
// xdg-open that take only a URL. Window size is not supported.
type Generic struct {
	name string
}

func (g *Generic) Name() string { return g.name }

func (g *Generic) Available() bool { return lookPath(g.name) }

func (g *Generic) Args(url string, _ media.DisplaySize) []string {
	return []string{url}
}

func (g *Generic) Open(url string, size media.DisplaySize) error {
	return start(g.name, exec.Command(g.name, g.Args(url, size)...))
}
