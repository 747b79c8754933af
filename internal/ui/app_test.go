package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskcards/internal/db"
	"github.com/tgienger/taskcards/internal/duedate"
	"github.com/tgienger/taskcards/internal/models"
)

func TestAppRendersBoardFromStore(t *testing.T) {
	store, err := db.New(t.TempDir()+"/app.db", zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.CreateTask("Ship release", models.PriorityHigh, "2025-07-04T14:00")
	require.NoError(t, err)

	app := NewApp(store, duedate.New(time.UTC), zerolog.Nop())
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	// settings, then tasks
	msg := app.Init()()
	_, cmd := app.Update(msg)
	require.NotNil(t, cmd)
	app.Update(cmd())

	text := ansi.Strip(app.View())
	assert.Contains(t, text, "Ship release")
	assert.Contains(t, text, "07/04/2025 - 02:00 PM")
}

func TestCtrlCQuits(t *testing.T) {
	store, err := db.New(t.TempDir()+"/app.db", zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	app := NewApp(store, duedate.New(time.UTC), zerolog.Nop())
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
