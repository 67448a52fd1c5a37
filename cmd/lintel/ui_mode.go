package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the --ui setting for the progress display.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

var uiModes = map[string]uiMode{
	"":     uiModeAuto,
	"auto": uiModeAuto,
	"on":   uiModeOn,
	"off":  uiModeOff,
}

func readUIMode(value string) (uiMode, error) {
	if m, ok := uiModes[strings.ToLower(strings.TrimSpace(value))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI decides on the progress display. It draws on stderr, so auto
// mode wants both streams on a terminal and only human-readable output.
func shouldUseTUI(mode uiMode, format string) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	return format == "pretty" && isTerminal(os.Stderr) && isTerminal(os.Stdout)
}
