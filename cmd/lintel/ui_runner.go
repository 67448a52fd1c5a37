package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lintel/internal/driver"
	"lintel/internal/ui"
)

type analyzeOutcome struct {
	result *driver.Result
	err    error
}

// runAnalyzeWithUI runs driver.Analyze while a progress model consumes its
// events on stderr.
func runAnalyzeWithUI(ctx context.Context, title string, req driver.Request) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		reqCopy := req
		reqCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Analyze(ctx, reqCopy)
		outcomeCh <- analyzeOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, req.Files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithInput(nil))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
