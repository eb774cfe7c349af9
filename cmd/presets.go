package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List window size presets",
	Args:  cobra.NoArgs,
	RunE:  presetsRun,
}

func presetsRun(cmd *cobra.Command, args []string) error {
	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg.Presets)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for i, p := range cfg.Presets {
		mark := " "
		if strings.EqualFold(p.Name, cfg.Preset) {
			mark = "*"
		}
		keys := ""
		if i < 4 {
			keys = fmt.Sprintf("alt+%d / f%d", i+1, i+1)
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\n", mark, p.Name, p.Size(), keys)
	}
	return w.Flush()
}
