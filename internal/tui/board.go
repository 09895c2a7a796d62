package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"quizline/internal/engine"
	"quizline/internal/persist"
)

func RunBoard(eng *engine.Engine, sched *persist.Scheduler, out io.Writer) error {
	m := newBoardModel(eng, sched)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
