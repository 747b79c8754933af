package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/tgienger/taskcards/internal/duedate"
	"github.com/tgienger/taskcards/internal/ui/views"
)

// App is the root model. It owns the board and forwards messages to it.
type App struct {
	taskList *views.TaskListView
	log      zerolog.Logger
}

// NewApp creates the root model around a board backed by store
func NewApp(store views.TaskStore, formatter *duedate.Formatter, logger zerolog.Logger) *App {
	return &App{
		taskList: views.NewTaskListView(store, formatter, logger),
		log:      logger,
	}
}

// Init starts the board
func (a *App) Init() tea.Cmd {
	a.log.Info().Msg("board started")
	return a.taskList.Init()
}

// Update quits on ctrl+c and forwards everything else to the board
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, even while typing in a form
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	_, cmd := a.taskList.Update(msg)
	return a, cmd
}

// View renders the board
func (a *App) View() string {
	return a.taskList.View()
}
