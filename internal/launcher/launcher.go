// Package launcher opens the player page in an external browser window.
// All browser invocations use exec.Command with explicit argument slices;
// the URL is never passed through a shell.
package launcher

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"capframe/internal/media"
)

// ErrNotFound is returned when the browser binary is not in PATH.
var ErrNotFound = errors.New("browser not found in PATH")

// Launcher is the interface for browser implementations.
type Launcher interface {
	// Open starts the browser on url and returns without waiting for it
	// to exit. A zero size leaves the window size to the browser.
	Open(url string, size media.DisplaySize) error

	// Name returns the browser binary name.
	Name() string

	// Available checks if the browser binary exists in PATH.
	Available() bool
}

// New creates a launcher by case-insensitive name.
func New(name string) Launcher {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "chromium", "google-chrome", "chromium-browser", "brave-browser":
		return &Chromium{name: name}
	case "firefox":
		return &Firefox{}
	case "xdg-open", "open":
		return &Generic{name: name}
	default:
		return &Chromium{name: "chromium"}
	}
}

func lookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// start runs cmd in the background and reaps it when it exits.
func start(name string, cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return fmt.Errorf("starting %s: %w", name, err)
	}
	go cmd.Wait()
	return nil
}
