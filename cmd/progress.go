package cmd

import (
	"context"

	"curse-modpack/pack"
	"curse-modpack/ui"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// runWithProgress applies changes while a progress view renders the
// executor's events. Quitting the view cancels the remaining changes.
func runWithProgress(ctx context.Context, exec *pack.Executor, mp *pack.ModPack, changes []pack.FileChange) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tea.Msg, 16)
	exec.Observer = ui.Observer(events)

	result := make(chan error, 1)
	go func() {
		err := exec.Apply(ctx, mp, changes)
		events <- ui.DoneMsg{Err: err}
		close(events)
		result <- err
	}()

	p := tea.NewProgram(ui.NewProgress(events), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		exec.Log.Warnw("Progress view stopped", zap.Error(err))
	}

	// The view may quit early; unblock the executor until it returns.
	cancel()
	for range events {
	}
	return <-result
}
