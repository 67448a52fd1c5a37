package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lintel/internal/lint"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the active rules and their parameters",
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type ruleParamJSON struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Value       any    `json:"value"`
	Default     any    `json:"default"`
	Description string `json:"description,omitempty"`
}

type ruleJSON struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Severity string          `json:"severity"`
	HelpURI  string          `json:"help_uri,omitempty"`
	Params   []ruleParamJSON `json:"params,omitempty"`
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configPath, cwd)
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	session, err := newSession(cfg, reg)
	if err != nil {
		return err
	}
	reportSetupErrors(cmd.ErrOrStderr(), session.Errors())

	listing := describeRules(session)
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	case "pretty":
		renderRulesPretty(cmd.OutOrStdout(), listing)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func describeRules(session *lint.Session) []ruleJSON {
	out := make([]ruleJSON, 0, len(session.Rules()))
	for _, r := range session.Rules() {
		d := r.Descriptor()
		entry := ruleJSON{
			ID:       d.ID(),
			Title:    d.Title(),
			Category: string(d.Category()),
			Severity: d.DefaultSeverity().Label(),
			HelpURI:  d.HelpURI(),
		}
		if params, ok := session.Params(d.ID()); ok {
			for _, p := range params.Params() {
				value, _ := params.Value(p.Name)
				entry.Params = append(entry.Params, ruleParamJSON{
					Name:        p.Name,
					Type:        p.Type.String(),
					Value:       value,
					Default:     p.Default,
					Description: p.Description,
				})
			}
		}
		out = append(out, entry)
	}
	return out
}

func renderRulesPretty(w io.Writer, listing []ruleJSON) {
	for _, r := range listing {
		fmt.Fprintf(w, "%-6s %-8s %-12s %s\n", r.ID, r.Severity, r.Category, r.Title)
		for _, p := range r.Params {
			fmt.Fprintf(w, "         %s (%s) = %v", p.Name, p.Type, p.Value)
			if p.Description != "" {
				fmt.Fprintf(w, "  // %s", p.Description)
			}
			fmt.Fprintln(w)
		}
	}
}
