package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"lintel/internal/rules"
	"lintel/internal/version"
)

// buildReport is what `lintel version` prints, in either format.
type buildReport struct {
	Tool      string   `json:"tool"`
	Version   string   `json:"version"`
	GitCommit string   `json:"git_commit,omitempty"`
	BuildDate string   `json:"build_date,omitempty"`
	GoVersion string   `json:"go_version,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Rules     int      `json:"rules,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show lintel build metadata",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "include commit, date, Go runtime and supported languages")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	withHash, err := cmd.Flags().GetBool("hash")
	if err != nil {
		return fmt.Errorf("failed to get hash flag: %w", err)
	}
	withDate, err := cmd.Flags().GetBool("date")
	if err != nil {
		return fmt.Errorf("failed to get date flag: %w", err)
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return fmt.Errorf("failed to get full flag: %w", err)
	}

	report, err := collectBuildReport(withHash || full, withDate || full, full)
	if err != nil {
		return err
	}
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	colorOn, err := applyColor(cmd)
	if err != nil {
		return err
	}
	writeBuildReport(cmd.OutOrStdout(), report, colorOn)
	return nil
}

func collectBuildReport(withHash, withDate, full bool) (buildReport, error) {
	r := buildReport{Tool: "lintel", Version: version.String()}
	if withHash {
		r.GitCommit = orUnknown(version.GitCommit)
	}
	if withDate {
		r.BuildDate = orUnknown(version.BuildDate)
	}
	if !full {
		return r, nil
	}
	reg, err := newRegistry()
	if err != nil {
		return r, err
	}
	r.GoVersion = runtime.Version()
	r.Languages = reg.Languages()
	r.Rules = len(rules.Default())
	return r, nil
}

func writeBuildReport(out io.Writer, r buildReport, colorOn bool) {
	v := r.Version
	if colorOn {
		v = version.Colored()
	}
	fmt.Fprintf(out, "lintel %s\n", v)
	if r.GitCommit != "" {
		fmt.Fprintf(out, "commit:    %s\n", r.GitCommit)
	}
	if r.BuildDate != "" {
		fmt.Fprintf(out, "built:     %s\n", r.BuildDate)
	}
	if r.GoVersion != "" {
		fmt.Fprintf(out, "go:        %s\n", r.GoVersion)
	}
	if len(r.Languages) > 0 {
		fmt.Fprintf(out, "languages: %s (%d rules)\n", strings.Join(r.Languages, ", "), r.Rules)
	}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
