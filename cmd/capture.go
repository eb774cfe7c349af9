package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"capframe/internal/config"
	"capframe/internal/history"
	"capframe/internal/launcher"
	"capframe/internal/surface"
	"capframe/internal/ui"
	"capframe/internal/window"
)

// suggestionLimit caps how many history URLs are offered for completion.
const suggestionLimit = 50

// captureRun is the default command: capframe [url]
func captureRun(cmd *cobra.Command, args []string) error {
	var initial string
	if len(args) > 0 {
		initial = args[0]
	}

	interactive := !flagHeadless &&
		term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd()))

	if interactive {
		restore, err := logToFile()
		if err != nil {
			return err
		}
		defer restore()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Listen, err)
	}
	pageURL := "http://" + ln.Addr().String() + "/"

	srv := surface.NewServer(logger)
	ctrl := window.New(srv, srv, cfg.Presets, logger)

	var suggestions []string
	if cfg.History {
		store, err := openHistory()
		if err != nil {
			logger.Warn("history disabled", "err", err)
		} else {
			defer store.Close()
			ctrl.SetRecorder(store)
			suggestions = historyURLs(store)
		}
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ctx, ln) }()

	if err := ctrl.SetScale(ctx, cfg.Scale); err != nil {
		logger.Warn("applying scale", "err", err)
	}
	if err := ctrl.ApplyPreset(ctx, cfg.Preset); err != nil {
		logger.Warn("applying preset", "err", err)
	}

	browser := launcher.New(cfg.Browser)
	openWindow := func() error {
		if err := browser.Open(pageURL, ctrl.Snapshot().Size); err != nil {
			return fmt.Errorf("opening capture window: %w", err)
		}
		logger.Info("capture window opened", "browser", browser.Name())
		return nil
	}
	if cfg.OpenBrowser {
		if err := openWindow(); err != nil {
			logger.Warn("could not open capture window", "err", err)
		}
	}

	// Coalesce page reports: one pending notification is enough to resync.
	hostChanges := make(chan struct{}, 1)
	srv.OnHostChange(func() {
		select {
		case hostChanges <- struct{}{}:
		default:
		}
	})

	if interactive {
		err := ui.Run(ctx, ui.Options{
			Controller:  ctrl,
			PageURL:     pageURL,
			OpenWindow:  openWindow,
			HostChanges: hostChanges,
			Suggestions: suggestions,
			InitialURL:  initial,
		})
		stop()
		if serr := <-serveErr; serr != nil && err == nil {
			err = serr
		}
		if err != nil && ctx.Err() != nil {
			// Interrupted by a signal.
			return nil
		}
		return err
	}

	return runHeadless(ctx, ctrl, pageURL, initial, hostChanges, serveErr)
}

// runHeadless loads initial (if any) and serves until interrupted.
func runHeadless(ctx context.Context, ctrl *window.Controller, pageURL, initial string, hostChanges <-chan struct{}, serveErr <-chan error) error {
	if initial != "" {
		res := ctrl.Load(ctx, initial)
		if !res.OK() {
			return res.Err
		}
		logger.Info("stream loaded", "platform", res.Platform, "embed", res.EmbedURL)
	}
	fmt.Fprintf(os.Stderr, "Player page: %s\n", pageURL)

	for {
		select {
		case <-hostChanges:
			ctrl.Sync(ctx)
		case err := <-serveErr:
			return err
		case <-ctx.Done():
			return <-serveErr
		}
	}
}

func openHistory() (*history.Store, error) {
	path, err := config.HistoryPath()
	if err != nil {
		return nil, err
	}
	return history.Open(path)
}

func historyURLs(store *history.Store) []string {
	entries, err := store.Recent(suggestionLimit)
	if err != nil {
		logger.Warn("reading history", "err", err)
		return nil
	}
	urls := make([]string, len(entries))
	for i, e := range entries {
		urls[i] = e.URL
	}
	return urls
}
