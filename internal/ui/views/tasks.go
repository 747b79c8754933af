package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/tgienger/taskcards/internal/db"
	"github.com/tgienger/taskcards/internal/duedate"
	"github.com/tgienger/taskcards/internal/models"
	"github.com/tgienger/taskcards/internal/ui/card"
	"github.com/tgienger/taskcards/internal/ui/keys"
	"github.com/tgienger/taskcards/internal/ui/styles"
)

// SettingShowDone persists whether completed tasks are shown
const SettingShowDone = "show_done"

// Lines above the first card: title, search, blank
const headerHeight = 3

// Lines below the cards: status and help
const footerHeight = 4

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// TaskStore is the persistence the board needs. *db.DB implements it.
type TaskStore interface {
	ListTasks(filter db.TaskFilter) ([]models.Task, error)
	CreateTask(label string, priority models.Priority, dueDate string) (*models.Task, error)
	UpdateTask(id int64, label string, priority models.Priority, dueDate string) error
	ToggleTaskDone(id int64) (*models.Task, error)
	DeleteTask(id int64) error
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// Edit form fields, in focus order
const (
	editFieldLabel = iota
	editFieldPriority
	editFieldDue
	editFieldSave
	editFieldCount
)

// TaskListView shows tasks as a column of cards
type TaskListView struct {
	db        TaskStore
	formatter *duedate.Formatter
	log       zerolog.Logger
	styles    *styles.Styles
	keys      keys.KeyMap

	width  int
	height int

	tasks   []models.Task
	cards   []card.Model
	cursor  int
	scrollY int // index of the first visible card

	searching   bool
	searchInput textinput.Model

	showingCompleted bool

	// Task creation/editing
	editing      bool
	editingNew   bool
	editTaskID   int64
	editLabel    textinput.Model
	editDue      textinput.Model
	editPriority models.Priority
	editFocusIdx int
	editErr      string

	// Delete confirmation
	confirmingDelete bool
	deleteTarget     models.Task

	status    string
	statusErr bool

	showHelpPopup bool
}

// NewTaskListView creates a new task list view
func NewTaskListView(store TaskStore, formatter *duedate.Formatter, logger zerolog.Logger) *TaskListView {
	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.Prompt = "/ "
	search.CharLimit = 100

	editLabel := textinput.New()
	editLabel.Placeholder = "What needs doing?"
	editLabel.CharLimit = 200

	editDue := textinput.New()
	editDue.Placeholder = "2025-07-04T14:00 (blank for none)"
	editDue.CharLimit = 40

	return &TaskListView{
		db:           store,
		formatter:    formatter,
		log:          logger.With().Str("component", "board").Logger(),
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		searchInput:  search,
		editLabel:    editLabel,
		editDue:      editDue,
		editPriority: models.PriorityMedium,
	}
}

// tasksLoadedMsg carries the filter it was loaded with so stale results can be dropped
type tasksLoadedMsg struct {
	filter db.TaskFilter
	tasks  []models.Task
}

// taskChangedMsg reports a successful write to the store
type taskChangedMsg struct {
	status string
}

type settingsLoadedMsg struct {
	showDone bool
}

type errMsg struct {
	err error
}

func (e errMsg) Error() string { return e.err.Error() }

// Init loads the saved settings; tasks load once they arrive
func (v *TaskListView) Init() tea.Cmd {
	store := v.db
	return func() tea.Msg {
		val, err := store.GetSetting(SettingShowDone)
		if err != nil {
			return errMsg{fmt.Errorf("loading settings: %w", err)}
		}
		showDone, _ := strconv.ParseBool(val)
		return settingsLoadedMsg{showDone: showDone}
	}
}

func (v *TaskListView) filter() db.TaskFilter {
	return db.TaskFilter{
		Search:   strings.TrimSpace(v.searchInput.Value()),
		OnlyDone: v.showingCompleted,
	}
}

func (v *TaskListView) loadTasks() tea.Cmd {
	store, filter := v.db, v.filter()
	return func() tea.Msg {
		tasks, err := store.ListTasks(filter)
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{filter: filter, tasks: tasks}
	}
}

// Tasks returns the tasks currently on the board
func (v *TaskListView) Tasks() []models.Task { return v.tasks }

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.layoutCards()
		v.ensureVisible()
		return v, nil

	case settingsLoadedMsg:
		v.showingCompleted = msg.showDone
		return v, v.loadTasks()

	case tasksLoadedMsg:
		if msg.filter != v.filter() {
			return v, nil
		}
		v.tasks = msg.tasks
		v.cursor = clamp(v.cursor, 0, max(0, len(v.tasks)-1))
		v.buildCards()
		v.ensureVisible()
		return v, nil

	case taskChangedMsg:
		v.setStatus(msg.status, false)
		return v, v.loadTasks()

	case errMsg:
		v.log.Error().Err(msg.err).Msg("store operation failed")
		v.setStatus(msg.Error(), true)
		return v, nil

	case card.EditRequested:
		v.startEditTask(msg.Task)
		return v, textinput.Blink

	case card.MarkDoneRequested:
		return v, v.toggleDone(msg.Task)

	case card.DeleteRequested:
		v.confirmingDelete = true
		v.deleteTarget = msg.Task
		return v, nil

	case tea.MouseMsg:
		if v.editing || v.confirmingDelete || v.showHelpPopup {
			return v, nil
		}
		return v, v.routeMouse(msg)

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle search input typing first - don't process hotkeys while typing
	if v.searching {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.searching = false
			v.searchInput.Blur()
			v.searchInput.SetValue("")
			return v, v.loadTasks()
		case key.Matches(msg, v.keys.Enter):
			v.searching = false
			v.searchInput.Blur()
			return v, v.loadTasks()
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			return v, tea.Batch(cmd, v.loadTasks())
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		v.moveCursor(-1)
		return v, nil

	case key.Matches(msg, v.keys.Down):
		v.moveCursor(1)
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Search):
		v.searching = true
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Back):
		if v.searchInput.Value() != "" {
			v.searchInput.SetValue("")
			return v, v.loadTasks()
		}
		return v, nil

	case key.Matches(msg, v.keys.ShowCompleted):
		v.showingCompleted = !v.showingCompleted
		v.cursor = 0
		v.scrollY = 0
		return v, tea.Batch(v.saveShowDone(), v.loadTasks())

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	// Everything else belongs to the focused card
	if len(v.cards) == 0 {
		return v, nil
	}
	var cmd tea.Cmd
	v.cards[v.cursor], cmd = v.cards[v.cursor].Update(msg)
	return v, cmd
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		return v, v.deleteTask(v.deleteTarget)
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		v.editErr = ""
		v.editLabel.Blur()
		v.editDue.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % editFieldCount
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + editFieldCount - 1) % editFieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.editFocusIdx == editFieldSave {
			return v, v.saveTask()
		}
		v.editFocusIdx++
		v.updateEditFocus()
		return v, nil
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case editFieldLabel:
		v.editLabel, cmd = v.editLabel.Update(msg)
	case editFieldPriority:
		switch msg.String() {
		case "left", "h", "down", "j":
			v.editPriority = v.editPriority.Prev()
		case "right", "l", "up", "k", " ":
			v.editPriority = v.editPriority.Next()
		}
	case editFieldDue:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editTaskID = 0
	v.editErr = ""
	v.editLabel.SetValue("")
	v.editDue.SetValue("")
	v.editPriority = models.PriorityMedium
	v.editFocusIdx = editFieldLabel
	v.updateEditFocus()
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editTaskID = task.ID
	v.editErr = ""
	v.editLabel.SetValue(task.Label)
	v.editDue.SetValue(task.DueDate)
	v.editPriority = task.Priority
	if !v.editPriority.Valid() {
		v.editPriority = models.PriorityMedium
	}
	v.editFocusIdx = editFieldLabel
	v.updateEditFocus()
}

func (v *TaskListView) updateEditFocus() {
	v.editLabel.Blur()
	v.editDue.Blur()
	switch v.editFocusIdx {
	case editFieldLabel:
		v.editLabel.Focus()
	case editFieldDue:
		v.editDue.Focus()
	}
}

// saveTask validates the form and writes it. Invalid input keeps the form open.
func (v *TaskListView) saveTask() tea.Cmd {
	label := strings.TrimSpace(v.editLabel.Value())
	if label == "" {
		v.editErr = "Label is required"
		v.editFocusIdx = editFieldLabel
		v.updateEditFocus()
		return nil
	}
	due, err := v.formatter.Normalize(v.editDue.Value())
	if err != nil {
		v.editErr = "Due date must look like 2025-07-04T14:00"
		v.editFocusIdx = editFieldDue
		v.updateEditFocus()
		return nil
	}

	v.editing = false
	v.editErr = ""
	v.editLabel.Blur()
	v.editDue.Blur()

	store, priority := v.db, v.editPriority
	if v.editingNew {
		return func() tea.Msg {
			if _, err := store.CreateTask(label, priority, due); err != nil {
				return errMsg{err}
			}
			return taskChangedMsg{status: "Created " + strconv.Quote(label)}
		}
	}
	id := v.editTaskID
	return func() tea.Msg {
		if err := store.UpdateTask(id, label, priority, due); err != nil {
			return errMsg{err}
		}
		return taskChangedMsg{status: "Saved " + strconv.Quote(label)}
	}
}

func (v *TaskListView) toggleDone(task models.Task) tea.Cmd {
	store := v.db
	return func() tea.Msg {
		updated, err := store.ToggleTaskDone(task.ID)
		if err != nil {
			return errMsg{err}
		}
		if updated.Done {
			return taskChangedMsg{status: "Done: " + updated.Label}
		}
		return taskChangedMsg{status: "Reopened: " + updated.Label}
	}
}

func (v *TaskListView) deleteTask(task models.Task) tea.Cmd {
	store := v.db
	return func() tea.Msg {
		if err := store.DeleteTask(task.ID); err != nil {
			return errMsg{err}
		}
		return taskChangedMsg{status: "Deleted " + strconv.Quote(task.Label)}
	}
}

func (v *TaskListView) saveShowDone() tea.Cmd {
	store, val := v.db, strconv.FormatBool(v.showingCompleted)
	return func() tea.Msg {
		if err := store.SetSetting(SettingShowDone, val); err != nil {
			return errMsg{fmt.Errorf("saving settings: %w", err)}
		}
		return nil
	}
}

func (v *TaskListView) setStatus(s string, isErr bool) {
	v.status = s
	v.statusErr = isErr
}

func (v *TaskListView) cardWidth() int {
	return styles.ContentWidth(v.width) - 2
}

func (v *TaskListView) buildCards() {
	v.cards = make([]card.Model, len(v.tasks))
	for i, t := range v.tasks {
		v.cards[i] = card.New(t, v.formatter, v.styles)
	}
	v.layoutCards()
	if len(v.cards) > 0 {
		v.cards[v.cursor].Focus()
	}
}

func (v *TaskListView) layoutCards() {
	for i := range v.cards {
		v.cards[i].SetWidth(v.cardWidth())
	}
}

func (v *TaskListView) moveCursor(delta int) {
	if len(v.cards) == 0 {
		return
	}
	next := clamp(v.cursor+delta, 0, len(v.cards)-1)
	if next == v.cursor {
		return
	}
	v.cards[v.cursor].Blur()
	v.cursor = next
	v.cards[v.cursor].Focus()
	v.ensureVisible()
}

// visibleCards returns how many cards fit between header and footer
func (v *TaskListView) visibleCards() int {
	if len(v.cards) == 0 {
		return 1
	}
	available := v.height - headerHeight - footerHeight
	return max(available/v.cards[0].Height(), 1)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleCards()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// xOffset is the left margin CenterView adds on wide terminals
func (v *TaskListView) xOffset() int {
	if v.width <= styles.MaxWidth {
		return 0
	}
	return (v.width - styles.MaxWidth) / 2
}

// routeMouse hands a click to the card under the pointer, translated to card coordinates
func (v *TaskListView) routeMouse(msg tea.MouseMsg) tea.Cmd {
	top := headerHeight
	end := min(v.scrollY+v.visibleCards(), len(v.cards))
	for i := v.scrollY; i < end; i++ {
		h := v.cards[i].Height()
		if msg.Y >= top && msg.Y < top+h {
			if msg.Action == tea.MouseActionPress && i != v.cursor {
				v.cards[v.cursor].Blur()
				v.cursor = i
				v.cards[i].Focus()
			}
			local := msg
			local.X -= v.xOffset()
			local.Y -= top
			var cmd tea.Cmd
			v.cards[i], cmd = v.cards[i].Update(local)
			return cmd
		}
		top += h
	}
	return nil
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderEditForm()
	}

	contentWidth := styles.ContentWidth(v.width)
	content := lipgloss.JoinVertical(lipgloss.Left,
		v.renderHeader(),
		v.renderCards(),
		v.renderStatus(),
		v.renderHelp(),
	)
	block := lipgloss.NewStyle().Width(contentWidth).Render(content)
	return styles.CenterView(block, v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles

	titleText := "Tasks"
	if v.showingCompleted {
		titleText = "Tasks (Completed)"
	}
	title := s.Title.Render(titleText) + " " + s.TitleMuted.Render(fmt.Sprintf("%d", len(v.tasks)))

	search := v.searchInput.View()
	if !v.searching && v.searchInput.Value() == "" {
		search = s.TitleMuted.Render("/ to search")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, search, "")
}

func (v *TaskListView) renderCards() string {
	if len(v.cards) == 0 {
		empty := "No tasks yet. Press n to add one."
		if v.showingCompleted {
			empty = "No completed tasks."
		}
		return v.styles.TitleMuted.Render(empty)
	}

	end := min(v.scrollY+v.visibleCards(), len(v.cards))
	views := make([]string, 0, end-v.scrollY)
	for i := v.scrollY; i < end; i++ {
		views = append(views, v.cards[i].View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, views...)
}

func (v *TaskListView) renderStatus() string {
	if v.status == "" {
		return ""
	}
	if v.statusErr {
		return v.styles.StatusError.Render("Error: " + v.status)
	}
	return v.styles.StatusBar.Render(v.status)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	// Dynamic label for 'c' key based on current mode
	completedLabel := "done"
	if v.showingCompleted {
		completedLabel = "open"
	}

	return v.styles.Help.Render(
		fmt.Sprintf("%s edit • %s done • %s del • %s new • %s search • %s %s • %s quit",
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("space"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("c"),
			completedLabel,
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	completedLabel := "show completed"
	if v.showingCompleted {
		completedLabel = "show open"
	}

	helpItems := []string{
		s.HelpKey.Render("↑/↓") + "    select card",
		s.HelpKey.Render("←/→") + "    select button",
		s.HelpKey.Render("↵") + "      press button",
		s.HelpKey.Render("e") + "      edit task",
		s.HelpKey.Render("space") + "  mark done / undo",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("/") + "      search",
		s.HelpKey.Render("c") + "      " + completedLabel,
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-10, 20, 50)

	fieldStyle := func(idx int) lipgloss.Style {
		if v.editFocusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}

	var pickers []string
	for _, p := range models.Priorities {
		if p == v.editPriority {
			pickers = append(pickers, s.RenderBadge(p))
		} else {
			pickers = append(pickers, s.TitleMuted.Padding(0, 1).Render(string(p)))
		}
	}

	saveBtn := s.Button.Render("Save")
	if v.editFocusIdx == editFieldSave {
		saveBtn = s.ButtonPrimary.Render("Save")
	}

	title := "Edit Task"
	if v.editingNew {
		title = "New Task"
	}

	preview := s.TitleMuted.Render("Shows as: " + v.formatter.Format(v.editDue.Value()))

	errLine := ""
	if v.editErr != "" {
		errLine = s.InputError.Render(v.editErr)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		"",
		"Label:",
		fieldStyle(editFieldLabel).Width(inputWidth).Render(v.editLabel.View()),
		"Priority (←/→):",
		fieldStyle(editFieldPriority).Render(lipgloss.JoinHorizontal(lipgloss.Top, pickers...)),
		"Due date:",
		fieldStyle(editFieldDue).Width(inputWidth).Render(v.editDue.View()),
		preview,
		"",
		saveBtn,
		errLine,
		s.Help.Render(fmt.Sprintf("%s next • %s save • %s cancel",
			s.HelpKey.Render("tab"),
			s.HelpKey.Render("ctrl+s"),
			s.HelpKey.Render("esc"),
		)),
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(strconv.Quote(v.deleteTarget.Label)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
