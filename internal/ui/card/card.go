// Package card renders a single task as a card and reports user actions on
// it as messages. The card never changes the task itself: whoever hosts the
// card reacts to EditRequested, MarkDoneRequested and DeleteRequested.
package card

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/tgienger/taskcards/internal/duedate"
	"github.com/tgienger/taskcards/internal/models"
	"github.com/tgienger/taskcards/internal/ui/keys"
	"github.com/tgienger/taskcards/internal/ui/styles"
)

// Control is an actionable element on the card
type Control int

const (
	ControlEdit Control = iota
	ControlDone
	ControlDelete
)

var controls = []Control{ControlEdit, ControlDone, ControlDelete}

// ID returns the stable identifier of the control
func (c Control) ID() string {
	switch c {
	case ControlEdit:
		return "edit-icon"
	case ControlDone:
		return "done-button"
	case ControlDelete:
		return "delete-button"
	}
	return ""
}

// FindControl looks a control up by its ID
func FindControl(id string) (Control, bool) {
	for _, c := range controls {
		if c.ID() == id {
			return c, true
		}
	}
	return 0, false
}

// Button labels
const (
	EditLabel   = "✎ Edit"
	DoneLabel   = "Mark as Done"
	UndoLabel   = "Undo"
	DeleteLabel = "Delete"
)

// EditRequested is sent when the user wants to edit the task
type EditRequested struct{ Task models.Task }

// MarkDoneRequested is sent when the user toggles the done state
type MarkDoneRequested struct{ Task models.Task }

// DeleteRequested is sent when the user wants to delete the task
type DeleteRequested struct{ Task models.Task }

const (
	minWidth = 40

	// Offsets from the card's top-left corner to its content: border, then padding.
	contentX = 2
	contentY = 1

	actionRow = 2 // content line holding the buttons
)

// Rect is a region of the card in card-relative cells
type Rect struct {
	X, Y, Width int
}

// Contains reports whether the cell x, y lies inside r
func (r Rect) Contains(x, y int) bool {
	return y == r.Y && x >= r.X && x < r.X+r.Width
}

// Model is a task card
type Model struct {
	task      models.Task
	formatter *duedate.Formatter
	styles    *styles.Styles
	keys      keys.KeyMap

	focused bool
	control Control // control activated by enter
	width   int
}

// New creates a card for task
func New(task models.Task, formatter *duedate.Formatter, s *styles.Styles) Model {
	if formatter == nil {
		formatter = duedate.New(nil)
	}
	if s == nil {
		s = styles.NewStyles()
	}
	return Model{
		task:      task,
		formatter: formatter,
		styles:    s,
		keys:      keys.DefaultKeyMap(),
		width:     minWidth,
	}
}

// Task returns the task shown on the card
func (m Model) Task() models.Task { return m.task }

// DueText is the formatted due date shown on the card
func (m Model) DueText() string {
	return m.formatter.Format(m.task.DueDate)
}

// Badge is the priority badge color
func (m Model) Badge() styles.Badge {
	return styles.PriorityBadge(m.task.Priority)
}

// DoneLabel is the label of the done control
func (m Model) DoneLabel() string {
	if m.task.Done {
		return UndoLabel
	}
	return DoneLabel
}

func (m Model) controlLabel(c Control) string {
	switch c {
	case ControlEdit:
		return EditLabel
	case ControlDone:
		return m.DoneLabel()
	case ControlDelete:
		return DeleteLabel
	}
	return ""
}

// Focus lets the card receive key presses
func (m *Model) Focus() { m.focused = true }

// Blur stops the card from receiving key presses
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the card receives key presses
func (m Model) Focused() bool { return m.focused }

// Control returns the control enter would activate
func (m Model) Control() Control { return m.control }

// SetWidth sets the outer width of the card
func (m *Model) SetWidth(w int) {
	m.width = max(w, minWidth)
}

// Height returns the rendered height of the card
func (m Model) Height() int {
	return lipgloss.Height(m.View())
}

// Activate returns a command emitting the event for control c
func (m Model) Activate(c Control) tea.Cmd {
	task := m.task
	switch c {
	case ControlEdit:
		return func() tea.Msg { return EditRequested{Task: task} }
	case ControlDone:
		return func() tea.Msg { return MarkDoneRequested{Task: task} }
	case ControlDelete:
		return func() tea.Msg { return DeleteRequested{Task: task} }
	}
	return nil
}

// Click activates the card as a whole, which requests an edit
func (m Model) Click() tea.Cmd {
	return m.Activate(ControlEdit)
}

// Bounds returns where control c is drawn, relative to the card's top-left corner
func (m Model) Bounds(c Control) Rect {
	x := contentX
	for _, ctl := range controls {
		w := lipgloss.Width(m.renderControl(ctl))
		if ctl == c {
			return Rect{X: x, Y: contentY + actionRow, Width: w}
		}
		x += w + 1
	}
	return Rect{}
}

// ControlAt returns the control drawn at the card-relative cell x, y
func (m Model) ControlAt(x, y int) (Control, bool) {
	for _, c := range controls {
		if m.Bounds(c).Contains(x, y) {
			return c, true
		}
	}
	return 0, false
}

// Update handles key presses while focused and left-button presses. Mouse
// coordinates must already be relative to the card.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if c, ok := m.ControlAt(msg.X, msg.Y); ok {
			m.control = c
			return m, m.Activate(c)
		}
		return m, m.Click()

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Edit):
			return m, m.Activate(ControlEdit)
		case key.Matches(msg, m.keys.Done):
			return m, m.Activate(ControlDone)
		case key.Matches(msg, m.keys.Delete):
			return m, m.Activate(ControlDelete)
		case key.Matches(msg, m.keys.Enter):
			return m, m.Activate(m.control)
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
			m.control = (m.control + 1) % Control(len(controls))
		case key.Matches(msg, m.keys.Left):
			m.control = (m.control + Control(len(controls)) - 1) % Control(len(controls))
		}
	}
	return m, nil
}

func (m Model) renderControl(c Control) string {
	style := m.styles.CardAction
	if m.focused && c == m.control {
		style = m.styles.CardActionFocused
	}
	return style.Render("[" + m.controlLabel(c) + "]")
}

// singleLine keeps the header on one row so the action row stays at actionRow
var singleLine = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// View renders the card
func (m Model) View() string {
	s := m.styles
	innerWidth := m.width - 2*contentX

	badge := s.RenderBadge(m.task.Priority)
	labelStyle := s.CardLabel
	if m.task.Done {
		labelStyle = s.CardLabelDone
	}
	labelWidth := max(innerWidth-lipgloss.Width(badge)-1, 1)
	label := labelStyle.Render(ansi.Truncate(singleLine.Replace(m.task.Label), labelWidth, "…"))
	gap := max(innerWidth-lipgloss.Width(label)-lipgloss.Width(badge), 1)
	header := label + strings.Repeat(" ", gap) + badge

	due := s.CardDue.Render("Due: " + m.DueText())

	var buttons []string
	for i, c := range controls {
		if i > 0 {
			buttons = append(buttons, " ")
		}
		buttons = append(buttons, m.renderControl(c))
	}
	actions := lipgloss.JoinHorizontal(lipgloss.Top, buttons...)

	style := s.Card
	if m.focused {
		style = s.CardFocused
	}
	return style.Width(m.width - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, due, actions),
	)
}

// Text returns the card's visible text without styling
func (m Model) Text() string {
	return ansi.Strip(m.View())
}
