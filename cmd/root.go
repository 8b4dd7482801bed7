package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Daihongyi/surf/internal/output"
)

var (
	debug       bool
	noColor     bool
	profileName string
	logFile     string
)

var SurfVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "surf",
	Short:   "Surf is a modern HTTP client with downloads and benchmarking",
	Version: SurfVersion,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		output.InitLogger(debug)
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				output.PrintWarning(fmt.Sprintf("Could not open log file: %v", err))
			} else {
				output.SetLogOutput(f)
			}
		}
		if noColor {
			output.DisableColor()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Apply a named profile's request defaults")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append logs to a file instead of stderr")

	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newBenchCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newCleanCmd())
}
