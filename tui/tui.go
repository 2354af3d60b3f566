package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/app"
	"taskboard/model"
)

type uiMode int

const (
	modeNormal uiMode = iota
	modeAddTask
	modeEditTask
	modeSearch
	modeAddTag
	modeConfirmDelete
)

var (
	filterCycle = []model.Filter{model.FilterAll, model.FilterActive, model.FilterCompleted}
	sortCycle   = []model.SortField{model.SortDateCreated, model.SortPriority, model.SortTitle, model.SortDueDate}
)

type Model struct {
	svc *app.Service

	mode   uiMode
	cursor int
	input  textinput.Model

	// ids waiting for y/N in modeConfirmDelete
	confirmIDs []string

	showHelp bool

	status    string
	statusErr bool

	width  int
	height int
}

func NewModel(svc *app.Service, startupStatus string) *Model {
	in := textinput.New()
	in.CharLimit = app.MaxTitleLength
	in.Prompt = ""

	status := strings.TrimSpace(startupStatus)
	if status == "" {
		status = "Ready"
	}
	m := &Model{
		svc:    svc,
		mode:   modeNormal,
		input:  in,
		status: status,
	}
	if startupStatus == "" && len(svc.Tasks()) == 0 {
		m.setStatus("Welcome. Press 'a' to add your first task.", false)
	}
	return m
}

// Run starts the full-screen board and blocks until the user quits.
func Run(svc *app.Service, startupStatus string) error {
	p := tea.NewProgram(NewModel(svc, startupStatus), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = m.viewportWidth() - 20
	case tea.KeyMsg:
		switch m.mode {
		case modeAddTask, modeEditTask, modeSearch, modeAddTag:
			return m, m.updateInputMode(msg)
		case modeConfirmDelete:
			m.updateConfirmMode(msg)
		default:
			if quit := m.updateNormalMode(msg); quit {
				return m, tea.Quit
			}
			if m.mode != modeNormal {
				return m, textinput.Blink
			}
		}
	}
	return m, nil
}

func (m *Model) updateNormalMode(msg tea.KeyMsg) bool {
	if m.showHelp {
		switch msg.String() {
		case "esc", "?", "q":
			m.showHelp = false
		case "ctrl+c":
			return true
		}
		return false
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return true
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.visibleTasks()) - 1
		m.ensureCursor()
	case "a":
		m.startInput(modeAddTask, "")
	case "e":
		if task, ok := m.currentTask(); ok {
			m.startInput(modeEditTask, task.Title)
		}
	case "/":
		m.startInput(modeSearch, m.svc.Query().SearchQuery)
	case "t":
		if _, ok := m.currentTask(); ok {
			m.startInput(modeAddTag, "")
		}
	case "x", "enter":
		m.toggleComplete()
	case " ":
		m.toggleSelection()
	case "A":
		m.toggleSelectAll()
	case "d":
		if task, ok := m.currentTask(); ok {
			m.confirm([]string{task.ID})
		}
	case "D":
		if ids := m.svc.SelectedTaskIDs(); len(ids) > 0 {
			m.confirm(ids)
		} else {
			m.setStatus("Nothing selected", true)
		}
	case "c":
		m.bulkComplete()
	case "1", "2", "3", "4":
		m.setPriority(model.Priorities[msg.String()[0]-'1'])
	case "f":
		m.cycleFilter()
	case "s":
		m.cycleSort()
	case "S":
		dir := m.svc.ToggleSortDirection()
		m.setStatus("Sort direction: "+directionLabel(dir), false)
	case "u":
		if err := m.svc.Undo(); err != nil {
			m.setStatus(err.Error(), true)
			return false
		}
		m.ensureCursor()
		m.setStatus("Undone", false)
	case "?":
		m.showHelp = true
	case "esc":
		switch {
		case len(m.svc.SelectedTaskIDs()) > 0:
			m.svc.ClearSelection()
			m.setStatus("Selection cleared", false)
		case m.svc.Query().SearchQuery != "":
			m.svc.ClearSearch()
			m.ensureCursor()
			m.setStatus("Search cleared", false)
		}
	}
	return false
}

func (m *Model) updateInputMode(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		if m.mode == modeSearch {
			m.svc.ClearSearch()
			m.cursor = 0
		}
		m.stopInput()
		m.setStatus("Cancelled", false)
		return nil
	case "enter":
		m.applyInput()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeSearch {
		m.svc.SetSearchQuery(m.input.Value())
		m.cursor = 0
	}
	return cmd
}

func (m *Model) updateConfirmMode(msg tea.KeyMsg) {
	switch strings.ToLower(msg.String()) {
	case "y":
		removed := m.svc.BulkDeleteTasks(m.confirmIDs)
		m.confirmIDs = nil
		m.mode = modeNormal
		m.ensureCursor()
		m.setStatus(fmt.Sprintf("Deleted %d task(s)", removed), false)
	case "n", "esc", "enter":
		m.confirmIDs = nil
		m.mode = modeNormal
		m.setStatus("Cancelled", false)
	}
}

func (m *Model) applyInput() {
	text := strings.TrimSpace(m.input.Value())
	switch m.mode {
	case modeAddTask:
		task, err := m.svc.AddTask(app.TaskInput{Title: text})
		if err != nil {
			m.setStatus(err.Error(), true)
			return
		}
		m.stopInput()
		m.cursor = m.indexOfTask(task.ID)
		m.setStatus("Task added", false)
	case modeEditTask:
		task, ok := m.currentTask()
		if !ok {
			m.stopInput()
			return
		}
		if _, err := m.svc.UpdateTask(task.ID, app.TaskPatch{Title: &text}); err != nil {
			m.setStatus(err.Error(), true)
			return
		}
		m.stopInput()
		m.setStatus("Task updated", false)
	case modeAddTag:
		task, ok := m.currentTask()
		if !ok {
			m.stopInput()
			return
		}
		if _, err := m.svc.AddTagToTask(task.ID, text); err != nil {
			m.setStatus(err.Error(), true)
			return
		}
		m.stopInput()
		m.setStatus("Tag added", false)
	case modeSearch:
		m.svc.SetSearchQuery(text)
		m.stopInput()
		m.cursor = 0
		if text == "" {
			m.setStatus("Search cleared", false)
			return
		}
		m.setStatus(fmt.Sprintf("%d match(es)", m.svc.GetSearchResultCount()), false)
	}
}

func (m *Model) startInput(mode uiMode, value string) {
	m.mode = mode
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) stopInput() {
	m.mode = modeNormal
	m.input.Reset()
	m.input.Blur()
	m.ensureCursor()
}

func (m *Model) confirm(ids []string) {
	m.confirmIDs = ids
	m.mode = modeConfirmDelete
}

func (m *Model) toggleComplete() {
	task, ok := m.currentTask()
	if !ok {
		return
	}
	updated, ok := m.svc.ToggleTaskComplete(task.ID)
	if !ok {
		return
	}
	m.ensureCursor()
	if updated.IsCompleted() {
		m.setStatus("Completed: "+updated.Title, false)
		return
	}
	m.setStatus("Reopened: "+updated.Title, false)
}

func (m *Model) toggleSelection() {
	task, ok := m.currentTask()
	if !ok {
		return
	}
	m.svc.ToggleTaskSelection(task.ID)
	m.moveCursor(1)
}

func (m *Model) toggleSelectAll() {
	ids := taskIDs(m.visibleTasks())
	if m.svc.AreAllTasksSelected(ids) {
		m.svc.ClearSelection()
		m.setStatus("Selection cleared", false)
		return
	}
	m.svc.SelectAllTasks(ids)
	m.setStatus(fmt.Sprintf("%d selected", len(ids)), false)
}

func (m *Model) bulkComplete() {
	ids := m.svc.SelectedTaskIDs()
	if len(ids) == 0 {
		m.setStatus("Nothing selected", true)
		return
	}
	n := m.svc.BulkCompleteTasks(ids)
	m.svc.ClearSelection()
	m.ensureCursor()
	m.setStatus(fmt.Sprintf("Completed %d task(s)", n), false)
}

// setPriority applies to the selection when there is one, otherwise to the cursor task.
func (m *Model) setPriority(p model.Priority) {
	if ids := m.svc.SelectedTaskIDs(); len(ids) > 0 {
		n, err := m.svc.BulkSetPriority(ids, p)
		if err != nil {
			m.setStatus(err.Error(), true)
			return
		}
		m.setStatus(fmt.Sprintf("Priority %s on %d task(s)", priorityLabel(p), n), false)
		return
	}
	task, ok := m.currentTask()
	if !ok {
		return
	}
	if _, err := m.svc.SetPriority(task.ID, p); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.cursor = m.indexOfTask(task.ID)
	m.setStatus("Priority "+priorityLabel(p), false)
}

func (m *Model) cycleFilter() {
	next := filterCycle[(indexOf(filterCycle, m.svc.Query().Filter)+1)%len(filterCycle)]
	if err := m.svc.SetFilter(next); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.cursor = 0
	m.setStatus("Filter: "+filterLabel(next), false)
}

func (m *Model) cycleSort() {
	next := sortCycle[(indexOf(sortCycle, m.svc.Query().SortBy)+1)%len(sortCycle)]
	if err := m.svc.SetSortBy(next); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus("Sort: "+sortLabel(next), false)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) moveCursor(delta int) {
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(tasks)-1)
}

func (m *Model) ensureCursor() {
	n := len(m.visibleTasks())
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = clamp(m.cursor, 0, n-1)
}

func (m *Model) visibleTasks() []model.Task {
	return m.svc.GetVisibleTasks()
}

func (m *Model) currentTask() (model.Task, bool) {
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		return model.Task{}, false
	}
	if m.cursor < 0 || m.cursor >= len(tasks) {
		m.cursor = 0
	}
	return tasks[m.cursor], true
}

func (m *Model) indexOfTask(taskID string) int {
	tasks := m.visibleTasks()
	for i, t := range tasks {
		if t.ID == taskID {
			return i
		}
	}
	if len(tasks) == 0 {
		return 0
	}
	return len(tasks) - 1
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	q := m.svc.Query()
	title := lipgloss.NewStyle().Bold(true).Render("taskboard")
	summary := fmt.Sprintf("filter: %s • sort: %s %s", filterLabel(q.Filter), sortLabel(q.SortBy), directionLabel(q.SortDirection))
	if q.SearchQuery != "" {
		summary += fmt.Sprintf(" • search: %q", q.SearchQuery)
	}
	if n := len(q.SelectedTaskIDs); n > 0 {
		summary += fmt.Sprintf(" • %d selected", n)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		title,
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("  "+summary),
	)

	viewW := m.viewportWidth()
	const paneGap = 1
	outerPaneW := viewW - 2
	if outerPaneW < 20 {
		outerPaneW = viewW
	}
	panelH := m.height - 6
	if panelH < 8 {
		panelH = 8
	}
	innerPaneH := panelH - 2

	leftW, rightW := m.paneWidths(outerPaneW-2, paneGap)
	split := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderSidePanel(leftW, innerPaneH),
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("│"),
		m.renderTasksPanel(rightW, innerPaneH),
	)

	frameColor := lipgloss.Color("240")
	if m.mode == modeNormal {
		frameColor = lipgloss.Color("39")
	}
	panes := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(frameColor).
		Width(outerPaneW).
		Height(panelH).
		Render(split)

	if m.showHelp {
		panes = lipgloss.Place(viewW, panelH, lipgloss.Center, lipgloss.Center, m.renderHelpOverlay(min(viewW-4, 72)))
	}

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	if m.statusErr {
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	}
	rightHint := "? keys"
	if m.showHelp {
		rightHint = "esc/? close"
	}
	parts := []string{header, panes, m.renderFooter(m.status, statusStyle, rightHint)}
	if prompt := m.promptLine(); prompt != "" && !m.showHelp {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Width(viewW).Render(prompt))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) promptLine() string {
	switch m.mode {
	case modeAddTask:
		return "New task: " + m.input.View()
	case modeEditTask:
		return "Edit title: " + m.input.View()
	case modeSearch:
		return "Search (/): " + m.input.View()
	case modeAddTag:
		return "Add tag: " + m.input.View()
	case modeConfirmDelete:
		if len(m.confirmIDs) == 1 {
			if t, err := m.svc.GetTask(m.confirmIDs[0]); err == nil {
				return fmt.Sprintf("Delete %q? [y/N]", t.Title)
			}
		}
		return fmt.Sprintf("Delete %d tasks? [y/N]", len(m.confirmIDs))
	}
	return ""
}

func (m *Model) viewportWidth() int {
	if m.width <= 0 {
		return 1
	}
	// one spare column keeps some terminals from wrapping the right border
	if m.width > 1 {
		return m.width - 1
	}
	return m.width
}

func (m *Model) paneWidths(total, gap int) (int, int) {
	if total <= 0 {
		return 24, 30
	}
	if gap < 0 {
		gap = 0
	}

	minLeft := 18
	minRight := 30
	if total < minLeft+minRight+gap {
		left := total / 3
		if left < 12 {
			left = 12
		}
		right := total - left - gap
		if right < 12 {
			right = 12
			left = total - right - gap
			if left < 10 {
				left = 10
			}
		}
		return left, right
	}

	left := clamp(total/4, 20, 30)
	right := total - left - gap
	if right < minRight {
		right = minRight
		left = total - right - gap
	}
	if left < minLeft {
		left = minLeft
		right = total - left - gap
	}
	return left, right
}

func (m *Model) renderFooter(statusText string, statusStyle lipgloss.Style, rightHint string) string {
	left := strings.TrimSpace(statusText)
	right := strings.TrimSpace(rightHint)
	if left == "" {
		left = "Ready"
	}

	leftW := utf8.RuneCountInString(left)
	rightW := utf8.RuneCountInString(right)
	width := m.viewportWidth()
	if leftW+rightW+1 > width {
		left = truncateRunes(left, max(width-rightW-1, 8))
		leftW = utf8.RuneCountInString(left)
	}
	padding := max(width-leftW-rightW, 1)

	rightStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	return statusStyle.Render(left) + strings.Repeat(" ", padding) + rightStyle.Render(right)
}

func (m *Model) renderHelpOverlay(width int) string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Keys"),
		"",
		"j/k  move            a  add task        e  edit title",
		"x    toggle done     t  add tag         d  delete task",
		"spc  select          A  select all      D  delete selected",
		"c    complete sel.   1-4 priority       u  undo",
		"f    cycle filter    s  cycle sort      S  flip direction",
		"/    search          esc clear          q  quit",
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("39")).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// renderSidePanel shows status counts, categories and tags for the whole board.
func (m *Model) renderSidePanel(width, height int) string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	q := m.svc.Query()

	lines := []string{panelTitle("Status")}
	for _, f := range filterCycle {
		line := fmt.Sprintf("%-10s %3d", filterLabel(f), m.svc.GetFilterCount(f))
		if f == q.Filter {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Render("› " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	if st := m.svc.GetStats(); st.Overdue > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(fmt.Sprintf("  %-10s %3d", "Overdue", st.Overdue)))
	}

	if cats := m.svc.Categories(); len(cats) > 0 {
		lines = append(lines, "", panelTitle("Categories"))
		for _, c := range cats {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("●")
			name := truncateRunes(c.Name, width-8)
			lines = append(lines, fmt.Sprintf("%s %s %s", swatch, name, muted.Render(fmt.Sprint(m.svc.GetCategoryTaskCount(c.ID)))))
		}
	}

	if tags := m.svc.GetTagsWithCount(); len(tags) > 0 {
		lines = append(lines, "", panelTitle("Tags"))
		for _, tc := range tags {
			lines = append(lines, fmt.Sprintf("#%s %s", truncateRunes(tc.Tag, width-6), muted.Render(fmt.Sprint(tc.Count))))
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderTasksPanel(width, height int) string {
	tasks := m.visibleTasks()
	lines := []string{panelTitle(fmt.Sprintf("Tasks (%d)", len(tasks)))}
	if len(tasks) == 0 {
		empty := "No tasks. Press 'a' to add one."
		if m.svc.Query().SearchQuery != "" {
			empty = "No matches."
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(empty))
		return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
	}

	rows := height - 1
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(tasks))
	for i := start; i < end; i++ {
		lines = append(lines, m.renderTaskRow(tasks[i], i == m.cursor, width))
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderTaskRow(t model.Task, current bool, width int) string {
	cursor := "  "
	if current {
		cursor = "› "
	}
	sel := " "
	if m.svc.IsTaskSelected(t.ID) {
		sel = "*"
	}
	check := "[ ]"
	if t.IsCompleted() {
		check = "[x]"
	}

	meta := ""
	if t.DueDate != nil {
		meta += " " + t.DueDate.In(m.svc.Location()).Format("Jan 02")
	}
	for _, tag := range t.Tags {
		meta += " #" + tag
	}
	prefix := fmt.Sprintf("%s%s%s %s ", cursor, sel, check, priorityIndicator(t.Priority))
	titleW := width - utf8.RuneCountInString(prefix) - utf8.RuneCountInString(meta)
	title := truncateRunes(t.Title, max(titleW, 8))

	titleStyle := lipgloss.NewStyle()
	switch {
	case t.IsCompleted():
		titleStyle = titleStyle.Foreground(lipgloss.Color("241")).Strikethrough(true)
	case m.svc.IsOverdue(t):
		titleStyle = titleStyle.Foreground(lipgloss.Color("9"))
	}
	if current {
		titleStyle = titleStyle.Bold(true)
	}
	return prefix + titleStyle.Render(title) + lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(meta)
}

func panelTitle(title string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Render(title)
}

func priorityIndicator(p model.Priority) string {
	switch p {
	case model.PriorityCritical:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("!!!")
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("!! ")
	case model.PriorityMedium:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Render("!  ")
	default:
		return "   "
	}
}

func priorityLabel(p model.Priority) string {
	return strings.ToLower(string(p))
}

func filterLabel(f model.Filter) string {
	switch f {
	case model.FilterActive:
		return "active"
	case model.FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

func sortLabel(f model.SortField) string {
	switch f {
	case model.SortPriority:
		return "priority"
	case model.SortTitle:
		return "title"
	case model.SortDueDate:
		return "due date"
	default:
		return "created"
	}
}

func directionLabel(d model.SortDirection) string {
	if d == model.SortAsc {
		return "↑"
	}
	return "↓"
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func indexOf[T comparable](values []T, v T) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max == 1 {
		return string(r[:1])
	}
	return string(r[:max-1]) + "…"
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
