// Command wicked drives the contraction engine from the command line: it
// loads an orbital-space configuration, runs an equation script through the
// engine, and prints the resulting symbolic expression.
package main

import (
	"fmt"
	"os"

	"github.com/nsc-wicked/wicked/internal/wlog"
	"github.com/spf13/cobra"
)

var (
	flagDebug       bool
	flagMaxCumulant int
	flagLogFile     string

	logs *wlog.Loggers
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wicked",
	Short: "Symbolic Wick contraction engine for second-quantized operator expressions",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if flagDebug {
			level = "debug"
		}
		l, err := wlog.New(level, flagLogFile)
		if err != nil {
			return err
		}
		logs = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug-level logging")
	rootCmd.PersistentFlags().IntVar(&flagMaxCumulant, "max-cumulant", 2, "maximum cumulant rank for General-space contractions")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "additionally log JSON lines to this file")

	rootCmd.AddCommand(runCmd, spacesCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the engine version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(appVersion)
		return nil
	},
}

const appVersion = "wicked 0.1.0"
