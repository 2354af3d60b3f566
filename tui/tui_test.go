package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/app"
	"taskboard/model"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...tea.KeyMsg) {
	for _, k := range keys {
		m.Update(k)
	}
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(runes(string(r)))
	}
}

func newTestModel(t *testing.T, titles ...string) (*Model, *app.Service) {
	t.Helper()
	svc := app.NewService(model.NewSnapshot())
	for _, title := range titles {
		if _, err := svc.AddTask(app.TaskInput{Title: title}); err != nil {
			t.Fatalf("AddTask(%q): %v", title, err)
		}
	}
	m := NewModel(svc, "")
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, svc
}

func TestAddTaskThroughPrompt(t *testing.T) {
	m, svc := newTestModel(t)

	press(m, runes("a"))
	if m.mode != modeAddTask {
		t.Fatalf("expected add mode, got %v", m.mode)
	}
	typeText(m, "Write report")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeNormal {
		t.Fatalf("expected normal mode after enter, got %v", m.mode)
	}
	tasks := svc.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Write report" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
}

func TestAddTaskRejectsEmptyTitle(t *testing.T) {
	m, svc := newTestModel(t)

	press(m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeAddTask {
		t.Fatalf("expected to stay in add mode after validation error")
	}
	if !m.statusErr {
		t.Fatalf("expected error status, got %q", m.status)
	}
	if len(svc.Tasks()) != 0 {
		t.Fatalf("expected no tasks")
	}

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeNormal {
		t.Fatalf("expected esc to cancel")
	}
}

func TestToggleCompleteAndUndo(t *testing.T) {
	m, svc := newTestModel(t, "one")

	press(m, runes("x"))
	if !svc.Tasks()[0].IsCompleted() {
		t.Fatalf("expected task completed")
	}
	press(m, runes("u"))
	if svc.Tasks()[0].IsCompleted() {
		t.Fatalf("expected undo to reopen task")
	}
	press(m, runes("u"), runes("u"))
	if !m.statusErr {
		t.Fatalf("expected error status once undo stack is empty")
	}
}

func TestSelectionAndBulkDelete(t *testing.T) {
	m, svc := newTestModel(t, "one", "two", "three")

	press(m, runes(" "), runes(" "))
	if got := len(svc.SelectedTaskIDs()); got != 2 {
		t.Fatalf("expected 2 selected, got %d", got)
	}

	press(m, runes("D"))
	if m.mode != modeConfirmDelete {
		t.Fatalf("expected confirm mode")
	}
	if !strings.Contains(m.promptLine(), "Delete 2 tasks") {
		t.Fatalf("unexpected prompt %q", m.promptLine())
	}
	press(m, runes("y"))

	if got := len(svc.Tasks()); got != 1 {
		t.Fatalf("expected 1 task left, got %d", got)
	}
	if got := len(svc.SelectedTaskIDs()); got != 0 {
		t.Fatalf("expected selection cleared, got %d", got)
	}
}

func TestDeleteCanBeCancelled(t *testing.T) {
	m, svc := newTestModel(t, "one")

	press(m, runes("d"), runes("n"))
	if len(svc.Tasks()) != 1 {
		t.Fatalf("expected task kept")
	}
	if m.mode != modeNormal {
		t.Fatalf("expected normal mode")
	}
}

func TestSelectAllTogglesOff(t *testing.T) {
	m, svc := newTestModel(t, "one", "two")

	press(m, runes("A"))
	if !svc.AreAllTasksSelected(taskIDs(svc.GetVisibleTasks())) {
		t.Fatalf("expected all selected")
	}
	press(m, runes("A"))
	if len(svc.SelectedTaskIDs()) != 0 {
		t.Fatalf("expected selection cleared")
	}
}

func TestPriorityKeysApplyToSelection(t *testing.T) {
	m, svc := newTestModel(t, "one", "two")

	press(m, runes("A"), runes("4"))
	for _, task := range svc.Tasks() {
		if task.Priority != model.PriorityCritical {
			t.Fatalf("expected CRITICAL on %q, got %s", task.Title, task.Priority)
		}
	}
}

func TestCycleFilterAndSort(t *testing.T) {
	m, svc := newTestModel(t, "one")

	press(m, runes("f"))
	if got := svc.Query().Filter; got != model.FilterActive {
		t.Fatalf("expected ACTIVE filter, got %s", got)
	}
	press(m, runes("f"), runes("f"))
	if got := svc.Query().Filter; got != model.FilterAll {
		t.Fatalf("expected filter to wrap to ALL, got %s", got)
	}

	press(m, runes("s"))
	if got := svc.Query().SortBy; got != model.SortPriority {
		t.Fatalf("expected PRIORITY sort, got %s", got)
	}
	before := svc.Query().SortDirection
	press(m, runes("S"))
	if got := svc.Query().SortDirection; got != before.Opposite() {
		t.Fatalf("expected direction flip, got %s", got)
	}
}

func TestIncrementalSearch(t *testing.T) {
	m, svc := newTestModel(t, "buy milk", "write code")

	press(m, runes("/"))
	typeText(m, "milk")
	if got := len(m.visibleTasks()); got != 1 {
		t.Fatalf("expected 1 match while typing, got %d", got)
	}
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if svc.Query().SearchQuery != "" {
		t.Fatalf("expected esc to clear search")
	}
	if got := len(m.visibleTasks()); got != 2 {
		t.Fatalf("expected all tasks after clearing search, got %d", got)
	}
}

func TestAddTagPrompt(t *testing.T) {
	m, svc := newTestModel(t, "one")

	press(m, runes("t"))
	typeText(m, "Work")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	tags := svc.Tasks()[0].Tags
	if len(tags) != 1 || tags[0] != "work" {
		t.Fatalf("expected normalized tag, got %v", tags)
	}
}

func TestViewRendersTasks(t *testing.T) {
	m, _ := newTestModel(t, "visible task")

	out := m.View()
	if !strings.Contains(out, "visible task") {
		t.Fatalf("expected task title in view:\n%s", out)
	}
	if !strings.Contains(out, "taskboard") {
		t.Fatalf("expected header in view")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
