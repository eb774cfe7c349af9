package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"capframe/internal/media"
	"capframe/internal/resolver"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <url>",
	Short: "Print the embed URL for a YouTube or Facebook URL",
	Long: `Resolve a YouTube or Facebook URL (or a pasted embed snippet) to the
platform's embed player URL. Facebook URLs get the width and height of the
--preset when one is given.`,
	Args: cobra.ExactArgs(1),
	RunE: resolveRun,
}

func resolveRun(cmd *cobra.Command, args []string) error {
	var size *media.DisplaySize
	if flagPreset != "" {
		p, ok := cfg.FindPreset(flagPreset)
		if !ok {
			return fmt.Errorf("unknown preset %q", flagPreset)
		}
		s := p.Size()
		size = &s
	}

	res := resolver.Resolve(resolver.Normalize(args[0]), size)
	logger.Debug("resolved", "input", args[0], "platform", res.Platform, "ok", res.OK())

	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else if res.OK() {
		fmt.Fprintln(cmd.OutOrStdout(), res.EmbedURL)
	}

	if !res.OK() {
		return res.Err
	}
	return nil
}
