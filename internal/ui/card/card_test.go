package card

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskcards/internal/duedate"
	"github.com/tgienger/taskcards/internal/models"
	"github.com/tgienger/taskcards/internal/ui/styles"
)

var mockTask = models.Task{
	ID:       1,
	Label:    "Learn Bubble Tea",
	Priority: models.PriorityHigh,
	DueDate:  "2025-07-04T14:00",
	Done:     false,
}

func factory(task models.Task) Model {
	return New(task, duedate.New(time.UTC), styles.NewStyles())
}

// run executes cmd and returns the message it produces
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd, "expected a command")
	return cmd()
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestRendersLabelAndPriority(t *testing.T) {
	text := factory(mockTask).Text()
	assert.Contains(t, text, "Learn Bubble Tea")
	assert.Contains(t, text, "High")
}

func TestRendersFormattedDueDate(t *testing.T) {
	c := factory(mockTask)
	assert.Equal(t, "07/04/2025 - 02:00 PM", c.DueText())
	assert.Contains(t, c.Text(), "07/04/2025 - 02:00 PM")
}

func TestRendersNoDueDate(t *testing.T) {
	task := mockTask
	task.DueDate = ""
	assert.Contains(t, factory(task).Text(), duedate.NoDueDate)
}

func TestEditControlEmitsEditRequested(t *testing.T) {
	msg := run(t, factory(mockTask).Activate(ControlEdit))
	assert.Equal(t, EditRequested{Task: mockTask}, msg)
}

func TestClickingCardEmitsEditRequested(t *testing.T) {
	c := factory(mockTask)
	assert.Equal(t, EditRequested{Task: mockTask}, run(t, c.Click()))

	// A click on the label line, away from the buttons, edits too.
	_, cmd := c.Update(click(3, 1))
	assert.Equal(t, EditRequested{Task: mockTask}, run(t, cmd))
}

func TestDoneControlEmitsMarkDoneRequested(t *testing.T) {
	c := factory(mockTask)
	b := c.Bounds(ControlDone)

	_, cmd := c.Update(click(b.X, b.Y))
	assert.Equal(t, MarkDoneRequested{Task: mockTask}, run(t, cmd))
}

func TestDeleteControlEmitsDeleteRequested(t *testing.T) {
	c := factory(mockTask)
	b := c.Bounds(ControlDelete)

	_, cmd := c.Update(click(b.X+b.Width-1, b.Y))
	msg := run(t, cmd)
	assert.IsType(t, DeleteRequested{}, msg)
	assert.Equal(t, mockTask, msg.(DeleteRequested).Task)
}

func TestEditButtonClickEmitsEditRequested(t *testing.T) {
	c := factory(mockTask)
	b := c.Bounds(ControlEdit)

	_, cmd := c.Update(click(b.X, b.Y))
	assert.Equal(t, EditRequested{Task: mockTask}, run(t, cmd))
}

func TestRendersUndoWhenDone(t *testing.T) {
	task := mockTask
	task.Done = true
	c := factory(task)
	assert.Equal(t, UndoLabel, c.DoneLabel())
	assert.Contains(t, c.Text(), "Undo")
	assert.NotContains(t, c.Text(), DoneLabel)

	assert.Equal(t, DoneLabel, factory(mockTask).DoneLabel())
	assert.Contains(t, factory(mockTask).Text(), DoneLabel)
}

func TestPriorityBadgeToken(t *testing.T) {
	assert.Equal(t, styles.TokenRed, factory(mockTask).Badge().Token)

	task := mockTask
	task.Priority = models.Priority("Whenever")
	assert.Equal(t, styles.TokenGray, factory(task).Badge().Token)
}

func TestControlIDs(t *testing.T) {
	for _, id := range []string{"edit-icon", "done-button", "delete-button"} {
		c, ok := FindControl(id)
		require.True(t, ok, id)
		assert.Equal(t, id, c.ID())
	}
	_, ok := FindControl("archive-button")
	assert.False(t, ok)
}

func TestControlsDoNotOverlap(t *testing.T) {
	c := factory(mockTask)
	edit, done, del := c.Bounds(ControlEdit), c.Bounds(ControlDone), c.Bounds(ControlDelete)
	assert.LessOrEqual(t, edit.X+edit.Width, done.X)
	assert.LessOrEqual(t, done.X+done.Width, del.X)
	assert.Less(t, del.X+del.Width, c.width)
}

func TestKeysIgnoredWhenBlurred(t *testing.T) {
	c := factory(mockTask)
	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.Nil(t, cmd)
}

func TestKeyboardActions(t *testing.T) {
	c := factory(mockTask)
	c.Focus()

	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	assert.Equal(t, EditRequested{Task: mockTask}, run(t, cmd))

	_, cmd = c.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	assert.Equal(t, MarkDoneRequested{Task: mockTask}, run(t, cmd))

	_, cmd = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.Equal(t, DeleteRequested{Task: mockTask}, run(t, cmd))
}

func TestEnterActivatesFocusedControl(t *testing.T) {
	c := factory(mockTask)
	c.Focus()

	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ControlDone, c.Control())
	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, MarkDoneRequested{Task: mockTask}, run(t, cmd))

	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, ControlDelete, c.Control())
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, ControlEdit, c.Control())
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, ControlDelete, c.Control())
}

func TestEventsCarryTaskSnapshot(t *testing.T) {
	task := mockTask
	c := factory(task)
	cmd := c.Activate(ControlDone)
	task.Label = "changed afterwards"
	assert.Equal(t, MarkDoneRequested{Task: mockTask}, run(t, cmd))
}

func TestLongLabelIsTruncated(t *testing.T) {
	task := mockTask
	task.Label = "An extremely long task label that will never fit on a single card line"
	c := factory(task)
	c.SetWidth(40)
	assert.Equal(t, 5, c.Height())
	assert.Contains(t, c.Text(), "…")
}

func TestMultiLineLabelKeepsControlsInPlace(t *testing.T) {
	task := mockTask
	task.Label = "first line\nsecond line"
	c := factory(task)

	assert.Equal(t, factory(mockTask).Height(), c.Height())
	assert.Contains(t, c.Text(), "first line second line")

	del := c.Bounds(ControlDelete)
	_, cmd := c.Update(click(del.X, del.Y))
	assert.Equal(t, DeleteRequested{Task: task}, run(t, cmd))

	// The due date line sits above the buttons and only opens the editor.
	_, cmd = c.Update(click(del.X, del.Y-1))
	assert.Equal(t, EditRequested{Task: task}, run(t, cmd))
}

func TestActionRowRendersBracketedButtons(t *testing.T) {
	assert.Contains(t, factory(mockTask).Text(), "[✎ Edit] [Mark as Done] [Delete]")

	task := mockTask
	task.Done = true
	assert.Contains(t, factory(task).Text(), "[✎ Edit] [Undo] [Delete]")
}

func TestIgnoresNonLeftClicks(t *testing.T) {
	c := factory(mockTask)
	_, cmd := c.Update(tea.MouseMsg{X: 3, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.Nil(t, cmd)
	_, cmd = c.Update(tea.MouseMsg{X: 3, Y: 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Nil(t, cmd)
}
