package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lintel/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "lintel",
	Short: "Rule-based static analysis for Go and C# sources",
	Long:  `lintel runs a configurable set of rules over Go and C# files and reports their findings`,
}

// main registers subcommands and persistent flags, then executes the root
// command. A failing command exits with its own code or 1.
func main() {
	rootCmd.Version = version.String()
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", -1, "maximum number of diagnostics kept per file (-1 = from config)")
	rootCmd.PersistentFlags().String("config", "", "configuration file (default: nearest lintel.toml, lintel.yaml or .lintel.yml)")

	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "ring", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")

	if err := rootCmd.Execute(); err != nil {
		if code, ok := exitCodeOf(err); ok {
			os.Exit(code)
		}
		fmt.Fprintf(os.Stderr, "lintel: %v\n", err)
		os.Exit(exitFailure)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag against the output terminal.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// applyColor resolves --color for stdout and configures fatih/color.
func applyColor(cmd *cobra.Command) (bool, error) {
	on, err := useColor(cmd, os.Stdout)
	if err != nil {
		return false, err
	}
	color.NoColor = !on
	return on, nil
}
