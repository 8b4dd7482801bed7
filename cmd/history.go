package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Daihongyi/surf/internal/history"
	"github.com/Daihongyi/surf/internal/output"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past requests",
		Run: func(cmd *cobra.Command, args []string) {
			h := loadHistoryOrExit()
			entries := h.Recent(limit)
			if len(entries) == 0 {
				output.PrintInfo("No history yet")
				return
			}
			for _, entry := range entries {
				printHistoryEntry(entry)
			}
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")

	searchCmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search past requests by URL, method or error",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			h := loadHistoryOrExit()
			matches := h.Search(args[0])
			if len(matches) == 0 {
				output.PrintInfo("No matching entries")
				return
			}
			for _, entry := range matches {
				printHistoryEntry(entry)
			}
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		Run: func(cmd *cobra.Command, args []string) {
			h := loadHistoryOrExit()
			h.Clear()
			if err := h.Save(history.DefaultPath()); err != nil {
				output.PrintError(fmt.Sprintf("Could not save history: %v", err))
				os.Exit(1)
			}
			output.PrintSuccess("History cleared")
		},
	}

	cmd.AddCommand(searchCmd)
	cmd.AddCommand(clearCmd)
	return cmd
}

func loadHistoryOrExit() *history.History {
	h, err := history.Load(history.DefaultPath())
	if err != nil {
		output.PrintError(fmt.Sprintf("Could not load history: %v", err))
		os.Exit(1)
	}
	return h
}

func printHistoryEntry(entry history.Entry) {
	status := output.FSuccess(fmt.Sprintf("%d", entry.StatusCode))
	if !entry.Success {
		if entry.ErrorMessage != "" {
			status = output.FError("ERR")
		} else {
			status = output.FError(fmt.Sprintf("%d", entry.StatusCode))
		}
	}
	line := fmt.Sprintf("%s  %s %-4s %s  %dms  %s",
		entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
		status, entry.Method, entry.URL,
		entry.ResponseTime,
		output.FormatBytes(uint64(entry.ResponseSize)))
	fmt.Println(line)
	if entry.ErrorMessage != "" {
		output.PrintDetail("  " + entry.ErrorMessage)
	}
}
