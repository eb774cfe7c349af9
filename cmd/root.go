// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"capframe/internal/config"
	"capframe/internal/media"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagListen   string
	flagPreset   string
	flagScale    string
	flagBrowser  string
	flagOpen     bool
	flagHeadless bool
	flagJSON     bool
	flagDebug    bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

// logger is the process-wide logger; packages receive it through their
// constructors.
var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "capframe"})

var rootCmd = &cobra.Command{
	Use:   "capframe [url]",
	Short: "Show a YouTube or Facebook live stream in a capture window",
	Long: `capframe turns a YouTube or Facebook Live URL into the platform's embed
player and shows it in a local capture window, ready for screen capture or
an OBS browser source. The window is controlled from the terminal.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: loadConfig,
	RunE:              captureRun,
	SilenceUsage:      true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "capframe %s\n", Version)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagListen, "listen", "", "Address for the player page (default 127.0.0.1:8787)")
	rootCmd.PersistentFlags().StringVarP(&flagPreset, "preset", "p", "", "Window size preset: 360p | 480p | 720p | 1080p")
	rootCmd.PersistentFlags().StringVarP(&flagScale, "scale", "s", "", "Video scaling: fit | fill | stretch")
	rootCmd.PersistentFlags().StringVarP(&flagBrowser, "browser", "b", "", "Capture window browser: "+strings.Join(config.Browsers, " | "))
	rootCmd.PersistentFlags().BoolVarP(&flagOpen, "open", "o", false, "Open the capture window in a browser on start")
	rootCmd.PersistentFlags().BoolVar(&flagHeadless, "headless", false, "Serve the player page without the control panel")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagListen != "" {
		cfg.Listen = flagListen
	}
	if flagPreset != "" {
		cfg.Preset = flagPreset
	}
	if flagScale != "" {
		cfg.Scale = media.ScaleMode(strings.ToLower(flagScale))
	}
	if flagBrowser != "" {
		cfg.Browser = flagBrowser
	}
	cfg.Browser = strings.ToLower(cfg.Browser)
	if flagOpen {
		cfg.OpenBrowser = true
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)
	}
	return nil
}

// logToFile redirects the logger to the state log file while the control
// panel owns the terminal. The returned func restores stderr.
func logToFile() (func(), error) {
	path, err := config.LogPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	logger.SetOutput(f)
	logger.SetReportTimestamp(true)
	return func() {
		logger.SetOutput(os.Stderr)
		f.Close()
	}, nil
}
