package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"irx/internal/driver"
	"irx/internal/host"
	"irx/internal/ui"
)

type exportOutcome struct {
	report *driver.Report
	err    error
}

// runExportWithUI runs the export in the background and renders its events.
func runExportWithUI(ctx context.Context, title string, opts driver.Options, hosts []host.Driver) (*driver.Report, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan exportOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		rep, err := driver.New(opts).Run(ctx, hosts...)
		outcomeCh <- exportOutcome{report: rep, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, driver.Plan(hosts...), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
