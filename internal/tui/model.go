package tui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/hylla/checkoff/internal/app"
	"github.com/hylla/checkoff/internal/domain"
)

// Service is the task store surface the list view drives.
type Service interface {
	Load(context.Context) error
	Snapshot() app.Snapshot
	Add(context.Context, string) (domain.Task, error)
	EditActive(context.Context, string, string) (domain.Task, error)
	DeleteActive(context.Context, string) error
	DeleteCompleted(context.Context, string) error
	Complete(context.Context, string) (domain.Task, error)
	Reopen(context.Context, string) (domain.Task, error)
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeAddTask
	modeEditTask
	modeConfirmAction
	modeAlert
)

// confirmAction describes the delete waiting on the confirmation modal.
type confirmAction struct {
	Op    op
	Task  domain.Task
	Label string
}

// Model renders the active and history lists and dispatches row bindings to the store.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int
	err    error

	status string

	help  help.Model
	keys  keyMap
	notes *helpNotes

	confirm ConfirmConfig
	ui      UIConfig

	active   []row
	history  []row
	focus    listID
	selected [2]int

	mode           inputMode
	input          textinput.Model
	editingTaskID  string
	pendingConfirm confirmAction
	confirmChoice  int
	alert          string

	pendingFocusTaskID string

	reloadConfig ReloadConfigFunc
	onMutation   MutationFunc
	copyText     ClipboardFunc
	now          func() time.Time
}

// loadedMsg carries message data through update handling.
type loadedMsg struct {
	snapshot app.Snapshot
	err      error
}

// actionMsg carries message data through update handling.
type actionMsg struct {
	err         error
	status      string
	reload      bool
	focusTaskID string
}

// configReloadedMsg carries runtime settings loaded through the reload callback.
type configReloadedMsg struct {
	config RuntimeConfig
	err    error
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	defaults := DefaultRuntimeConfig()
	m := Model{
		svc:      svc,
		status:   "loading...",
		help:     h,
		keys:     newKeyMap(),
		notes:    newHelpNotes(),
		confirm:  defaults.Confirm,
		ui:       defaults.UI,
		input:    newModalInput("", "", "", 240),
		copyText: clipboard.WriteAll,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.active, m.history = buildRows(msg.snapshot)
		m.clampSelections()
		if m.pendingFocusTaskID != "" {
			m.focusTaskByID(m.pendingFocusTaskID)
			m.pendingFocusTaskID = ""
		}
		if m.status == "" || m.status == "loading..." || m.status == "reloading..." {
			m.status = "ready"
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			if errors.Is(msg.err, domain.ErrEmptyText) {
				m.openAlert(msg.err.Error())
				return m, nil
			}
			m.status = "error: " + msg.err.Error()
			return m, m.loadData
		}
		if msg.status != "" {
			m.status = msg.status
		}
		if msg.focusTaskID != "" {
			m.pendingFocusTaskID = msg.focusTaskID
		}
		if msg.reload {
			return m, m.loadData
		}
		return m, nil

	case configReloadedMsg:
		if msg.err != nil {
			m.status = "reload config failed: " + msg.err.Error()
			return m, m.reloadData
		}
		WithRuntimeConfig(msg.config)(&m)
		m.clampSelections()
		return m, m.reloadData

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	default:
		if m.mode == modeAddTask || m.mode == modeEditTask {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

// View handles view.
func (m Model) View() tea.View {
	view := tea.NewView(m.renderView())
	view.AltScreen = true
	return view
}

// renderView renders the full screen as a string.
func (m Model) renderView() string {
	if m.err != nil {
		return "error: " + m.err.Error() + "\n\npress r to retry • q quit\n"
	}
	if !m.ready {
		return "loading..."
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("checkoff")
	header += statusStyle.Render(fmt.Sprintf("  %d open • %d done", len(m.active), len(m.history)))
	header += statusStyle.Render("  [" + m.modeLabel() + "]")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	statusLine := ""
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		statusLine = statusStyle.Render(m.status)
	}

	bodyHeight := 0
	if m.height > 0 {
		bodyHeight = max(3, m.height-lipgloss.Height(helpLine)-lipgloss.Height(header)-2)
	}
	sections := []string{header, "", m.renderLists(accent, muted, dim, bodyHeight)}
	if statusLine != "" {
		sections = append(sections, statusLine)
	}
	content := strings.Join(sections, "\n")
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}

	fullContent := content + "\n" + helpLine
	overlay := m.renderModeOverlay(accent, muted, m.width-8)
	if m.help.ShowAll {
		overlay = m.renderHelpOverlay(accent, muted, dim, m.width-8)
	}
	if overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}
	return fullContent
}

// renderLists renders the task pane and, when enabled, the history pane.
func (m Model) renderLists(accent, muted, dim color.Color, height int) string {
	lists := []listID{listActive}
	if m.ui.ShowHistory {
		lists = append(lists, listHistory)
	}
	paneHeight := 0
	if height > 0 {
		paneHeight = max(3, height/len(lists))
	}
	width := max(24, m.width)

	panes := make([]string, 0, len(lists))
	for _, list := range lists {
		panes = append(panes, m.renderPane(list, accent, muted, dim, width, paneHeight))
	}
	return lipgloss.JoinVertical(lipgloss.Left, panes...)
}

// renderPane renders one bordered list with a scroll window around the selection.
func (m Model) renderPane(list listID, accent, muted, dim color.Color, width, height int) string {
	rows := m.rowsFor(list)
	focused := m.focus == list
	borderColor := dim
	if focused {
		borderColor = accent
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(width)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	emptyStyle := lipgloss.NewStyle().Foreground(muted)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	stampStyle := lipgloss.NewStyle().Foreground(dim)

	lines := []string{titleStyle.Render(fmt.Sprintf("%s (%d)", list, len(rows)))}
	if len(rows) == 0 {
		empty := "(no tasks)"
		if list == listHistory {
			empty = "(nothing completed yet)"
		}
		lines = append(lines, emptyStyle.Render(empty))
		return style.Render(strings.Join(lines, "\n"))
	}

	window := len(rows)
	if height > 0 {
		window = max(1, height-3)
	}
	start, end := windowBounds(len(rows), m.selected[list], window)
	textWidth := max(8, width-8)
	now := m.now()
	for idx := start; idx < end; idx++ {
		r := rows[idx]
		prefix := "  "
		selected := focused && idx == m.selected[list]
		if selected {
			prefix = "│ "
		}
		line := prefix + truncate(r.label(), textWidth)
		switch {
		case selected:
			line = selectedStyle.Render(line)
		case list == listHistory:
			line = doneStyle.Render(line)
		}
		if m.ui.ShowTimestamps {
			if stamp := r.stamp(now); stamp != "" {
				line += "  " + stampStyle.Render(stamp)
			}
		}
		lines = append(lines, line)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// renderModeOverlay renders the modal for the current input mode.
func (m Model) renderModeOverlay(accent, muted color.Color, maxWidth int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle := lipgloss.NewStyle().Foreground(muted)

	switch m.mode {
	case modeAddTask, modeEditTask:
		if maxWidth > 0 {
			style = style.Width(clamp(maxWidth, 36, 88))
		}
		title := "New Task"
		if m.mode == modeEditTask {
			title = "Edit Task"
		}
		in := m.input
		in.SetWidth(max(20, clamp(maxWidth, 36, 88)-8))
		lines := []string{
			titleStyle.Render(title),
			in.View(),
			hintStyle.Render("enter save • esc cancel"),
		}
		return style.Render(strings.Join(lines, "\n"))

	case modeConfirmAction:
		if maxWidth > 0 {
			style = style.Width(clamp(maxWidth, 36, 88))
		}
		taskText := strings.TrimSpace(m.pendingConfirm.Task.Text)
		if taskText == "" {
			taskText = "(unknown task)"
		}
		confirmStyle := lipgloss.NewStyle().Foreground(muted)
		cancelStyle := lipgloss.NewStyle().Foreground(muted)
		if m.confirmChoice == 0 {
			confirmStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
		} else {
			cancelStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
		}
		lines := []string{
			titleStyle.Render("Confirm Action"),
			fmt.Sprintf("%s: %s", m.pendingConfirm.Label, truncate(taskText, 60)),
			confirmStyle.Render("[confirm]") + "  " + cancelStyle.Render("[cancel]"),
			hintStyle.Render("enter apply • esc cancel • h/l switch • y confirm • n cancel"),
		}
		return style.Render(strings.Join(lines, "\n"))

	case modeAlert:
		if maxWidth > 0 {
			style = style.Width(clamp(maxWidth, 32, 72))
		}
		alertStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
		lines := []string{
			alertStyle.Render("Alert"),
			m.alert,
			hintStyle.Render("press any key to dismiss"),
		}
		return style.BorderForeground(lipgloss.Color("203")).Render(strings.Join(lines, "\n"))

	default:
		return ""
	}
}

// renderHelpOverlay renders the key reference and the glamour-rendered workflow notes.
func (m Model) renderHelpOverlay(accent, muted, dim color.Color, maxWidth int) string {
	width := clamp(maxWidth, 48, 96)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("checkoff help")
	lines := []string{
		title,
		"",
		hb.View(m.keys),
		"",
		m.notes.render(workflowMarkdown(m.keys), width-4),
		lipgloss.NewStyle().Foreground(muted).Render("press ? or esc to close"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// loadData rebuilds rows from the in-memory store snapshot.
func (m Model) loadData() tea.Msg {
	return loadedMsg{snapshot: m.svc.Snapshot()}
}

// reloadData re-reads persisted state before rebuilding rows.
func (m Model) reloadData() tea.Msg {
	if err := m.svc.Load(context.Background()); err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{snapshot: m.svc.Snapshot()}
}

// reloadRuntimeConfigCmd reloads settings through the callback when one is registered.
func (m Model) reloadRuntimeConfigCmd() tea.Cmd {
	if m.reloadConfig == nil {
		return m.reloadData
	}
	reload := m.reloadConfig
	return func() tea.Msg {
		cfg, err := reload()
		return configReloadedMsg{config: cfg, err: err}
	}
}

// handleNormalModeKey handles keys while no modal is open.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		if m.help.ShowAll {
			m.status = "help"
		} else {
			m.status = "ready"
		}
		return m, nil
	case msg.String() == "esc":
		if m.help.ShowAll {
			m.help.ShowAll = false
			m.status = "ready"
		}
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		m.err = nil
		return m, m.reloadRuntimeConfigCmd()
	}
	if m.err != nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.switchList):
		if !m.ui.ShowHistory {
			m.status = "history hidden"
			return m, nil
		}
		if m.focus == listActive {
			m.focus = listHistory
		} else {
			m.focus = listActive
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		if rows := m.rowsFor(m.focus); m.selected[m.focus] < len(rows)-1 {
			m.selected[m.focus]++
		}
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.selected[m.focus] > 0 {
			m.selected[m.focus]--
		}
		return m, nil
	case key.Matches(msg, m.keys.addTask):
		m.help.ShowAll = false
		return m, m.startInput(modeAddTask, "", "")
	case key.Matches(msg, m.keys.toggleTask):
		return m.dispatchFocused(func(b rowBindings) op { return b.Toggle })
	case key.Matches(msg, m.keys.editTask):
		return m.dispatchFocused(func(b rowBindings) op { return b.Edit })
	case key.Matches(msg, m.keys.deleteTask):
		return m.dispatchFocused(func(b rowBindings) op { return b.Delete })
	case key.Matches(msg, m.keys.copyTask):
		m.help.ShowAll = false
		r, ok := m.focusedRow()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		if err := m.copyText(r.Task.Text); err != nil {
			m.status = "copy failed: " + err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("copied %q", truncate(r.Task.Text, 28))
		return m, nil
	default:
		return m, nil
	}
}

// handleInputModeKey handles keys while a modal is open.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAlert:
		m.mode = modeNone
		m.alert = ""
		return m, nil

	case modeConfirmAction:
		switch msg.String() {
		case "esc", "n":
			m.mode = modeNone
			m.pendingConfirm = confirmAction{}
			m.status = "cancelled"
			return m, nil
		case "h", "left", "l", "right":
			if m.confirmChoice == 0 {
				m.confirmChoice = 1
			} else {
				m.confirmChoice = 0
			}
			return m, nil
		case "y":
			m.confirmChoice = 0
			m.mode = modeNone
			action := m.pendingConfirm
			m.pendingConfirm = confirmAction{}
			m.status = "applying action..."
			return m.applyConfirmedAction(action)
		case "enter":
			m.mode = modeNone
			action := m.pendingConfirm
			m.pendingConfirm = confirmAction{}
			if m.confirmChoice == 1 {
				m.status = "cancelled"
				return m, nil
			}
			m.status = "applying action..."
			return m.applyConfirmedAction(action)
		default:
			return m, nil
		}

	case modeAddTask, modeEditTask:
		switch msg.String() {
		case "esc":
			m.mode = modeNone
			m.editingTaskID = ""
			m.input.Blur()
			m.status = "cancelled"
			return m, nil
		case "enter":
			return m.submitInputMode()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	default:
		m.mode = modeNone
		return m, nil
	}
}

// submitInputMode sends the prompt value to the store.
func (m Model) submitInputMode() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	mode := m.mode
	taskID := m.editingTaskID
	m.mode = modeNone
	m.editingTaskID = ""
	m.input.Blur()

	switch mode {
	case modeAddTask:
		m.status = "adding..."
		return m, func() tea.Msg {
			task, err := m.svc.Add(context.Background(), text)
			if err != nil {
				return actionMsg{err: err}
			}
			m.observe("add", task)
			return actionMsg{status: "task added", reload: true, focusTaskID: task.ID}
		}
	case modeEditTask:
		m.status = "saving..."
		return m, func() tea.Msg {
			task, err := m.svc.EditActive(context.Background(), taskID, text)
			if err != nil {
				return actionMsg{err: err}
			}
			m.observe("edit", task)
			return actionMsg{status: "task updated", reload: true, focusTaskID: task.ID}
		}
	default:
		return m, nil
	}
}

// dispatchFocused runs the focused row's binding selected by pick.
func (m Model) dispatchFocused(pick func(rowBindings) op) (tea.Model, tea.Cmd) {
	r, ok := m.focusedRow()
	if !ok {
		m.status = "no task selected"
		return m, nil
	}
	return m.dispatch(r, pick(r.Bindings))
}

// dispatch maps one row binding to its modal or store call.
// It closes the help overlay before acting.
func (m Model) dispatch(r row, action op) (tea.Model, tea.Cmd) {
	m.help.ShowAll = false
	taskID := r.Task.ID
	switch action {
	case opComplete:
		return m, m.mutate("complete", "task completed", func(ctx context.Context) (domain.Task, error) {
			return m.svc.Complete(ctx, taskID)
		})
	case opReopen:
		return m, m.mutate("reopen", "task reopened", func(ctx context.Context) (domain.Task, error) {
			return m.svc.Reopen(ctx, taskID)
		})
	case opEdit:
		m.editingTaskID = taskID
		return m, m.startInput(modeEditTask, r.Task.Text, "task description")
	case opDeleteActive, opDeleteCompleted:
		needsConfirm := m.confirm.DeleteActive
		if action == opDeleteCompleted {
			needsConfirm = m.confirm.DeleteCompleted
		}
		pending := confirmAction{Op: action, Task: r.Task, Label: "delete task"}
		if !needsConfirm {
			return m.applyConfirmedAction(pending)
		}
		m.mode = modeConfirmAction
		m.pendingConfirm = pending
		m.confirmChoice = 1
		m.status = "confirm action"
		return m, nil
	default:
		if r.List == listHistory {
			m.status = "history tasks cannot be edited"
		} else {
			m.status = "action unavailable"
		}
		return m, nil
	}
}

// applyConfirmedAction performs the delete approved in the confirmation modal.
func (m Model) applyConfirmedAction(action confirmAction) (tea.Model, tea.Cmd) {
	task := action.Task
	switch action.Op {
	case opDeleteActive:
		return m, m.mutate("delete", "task deleted", func(ctx context.Context) (domain.Task, error) {
			return task, m.svc.DeleteActive(ctx, task.ID)
		})
	case opDeleteCompleted:
		return m, m.mutate("delete-history", "history task deleted", func(ctx context.Context) (domain.Task, error) {
			return task, m.svc.DeleteCompleted(ctx, task.ID)
		})
	default:
		m.status = "unknown confirm action"
		return m, nil
	}
}

// mutate wraps one store call into a command reporting an actionMsg.
func (m Model) mutate(action, status string, call func(context.Context) (domain.Task, error)) tea.Cmd {
	return func() tea.Msg {
		task, err := call(context.Background())
		if err != nil {
			return actionMsg{err: err}
		}
		m.observe(action, task)
		return actionMsg{status: status, reload: true}
	}
}

// observe forwards a successful mutation to the registered callback.
func (m Model) observe(action string, task domain.Task) {
	if m.onMutation != nil {
		m.onMutation(action, task)
	}
}

// startInput opens the add or edit prompt.
func (m *Model) startInput(mode inputMode, value, placeholder string) tea.Cmd {
	if placeholder == "" {
		placeholder = "what needs doing?"
	}
	m.mode = mode
	m.input = newModalInput("> ", placeholder, value, 240)
	if mode == modeEditTask {
		m.status = "edit task"
	} else {
		m.status = "new task"
	}
	return m.input.Focus()
}

// openAlert shows a blocking message dismissed by any key.
func (m *Model) openAlert(text string) {
	m.mode = modeAlert
	m.alert = text
	m.status = "ready"
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	styles := in.Styles()
	styles.Cursor.Blink = false
	in.SetStyles(styles)
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// rowsFor returns the rows of one list.
func (m Model) rowsFor(list listID) []row {
	if list == listHistory {
		return m.history
	}
	return m.active
}

// focusedRow returns the selected row of the focused list.
func (m Model) focusedRow() (row, bool) {
	rows := m.rowsFor(m.focus)
	if len(rows) == 0 {
		return row{}, false
	}
	return rows[clamp(m.selected[m.focus], 0, len(rows)-1)], true
}

// focusTaskByID moves the selection to the row holding taskID in either list.
func (m *Model) focusTaskByID(taskID string) {
	for _, list := range []listID{listActive, listHistory} {
		if list == listHistory && !m.ui.ShowHistory {
			continue
		}
		for idx, r := range m.rowsFor(list) {
			if r.Task.ID == taskID {
				m.focus = list
				m.selected[list] = idx
				return
			}
		}
	}
}

// clampSelections keeps each selection inside its list.
func (m *Model) clampSelections() {
	m.selected[listActive] = clamp(m.selected[listActive], 0, len(m.active)-1)
	m.selected[listHistory] = clamp(m.selected[listHistory], 0, len(m.history)-1)
}

// modeLabel returns the header label for the current mode.
func (m Model) modeLabel() string {
	switch m.mode {
	case modeAddTask:
		return "add"
	case modeEditTask:
		return "edit"
	case modeConfirmAction:
		return "confirm"
	case modeAlert:
		return "alert"
	default:
		return strings.ToLower(m.focus.String())
	}
}

// windowBounds returns an inclusive-exclusive list window that keeps selected visible.
func windowBounds(total, selected, windowSize int) (int, int) {
	if total <= 0 || windowSize <= 0 {
		return 0, 0
	}
	if total <= windowSize {
		return 0, total
	}
	selected = clamp(selected, 0, total-1)
	start := max(0, selected-windowSize/2)
	end := start + windowSize
	if end > total {
		end = total
		start = max(0, end-windowSize)
	}
	return start, end
}

// clamp bounds v to [minV, maxV]; an empty range yields minV.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines pads or cuts content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent composes overlay, centered in a full-size layer, on top of base.
func overlayOnContent(base, overlay string, width, height int) string {
	if strings.TrimSpace(overlay) == "" {
		return base
	}
	if width <= 0 || height <= 0 {
		return overlay + "\n\n" + base
	}

	canvas := lipgloss.NewCanvas(width, height)
	canvas.Compose(lipgloss.NewLayer(fitLines(base, height)))
	canvas.Compose(lipgloss.NewLayer(lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)).Z(1))
	return canvas.Render()
}

// truncate cuts s to max runes with a trailing ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
