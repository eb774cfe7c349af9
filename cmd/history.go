package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"capframe/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently opened streams",
	Args:  cobra.NoArgs,
	RunE:  historyListRun,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently opened streams",
	Args:  cobra.NoArgs,
	RunE:  historyListRun,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(s *history.Store) error {
			if err := s.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		})
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Delete one history entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(s *history.Store) error {
			return s.Remove(args[0])
		})
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyClearCmd, historyRemoveCmd)
}

func historyListRun(cmd *cobra.Command, args []string) error {
	return withHistory(func(s *history.Store) error {
		entries, err := s.Recent(0)
		if err != nil {
			return err
		}

		if flagJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No history entries found.")
			return nil
		}
		for _, line := range history.FormatForDisplay(entries) {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	})
}

func withHistory(fn func(*history.Store) error) error {
	store, err := openHistory()
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()
	return fn(store)
}
