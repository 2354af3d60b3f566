package app

import (
	"errors"
	"strings"
	"testing"

	"taskboard/model"
)

func TestCommitWritesSnapshot(t *testing.T) {
	p := &recordingPersister{}
	svc, _ := newTestService(t, WithPersister(p))

	task := mustAddTask(t, svc, "persist me")
	if len(p.snapshots) != 1 {
		t.Fatalf("expected one snapshot write, got %d", len(p.snapshots))
	}
	snap := p.snapshots[0]
	if snap.Version != model.SnapshotVersion || len(snap.Tasks) != 1 || snap.Tasks[0].ID != task.ID {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	// failed validation writes nothing
	if _, err := svc.AddTask(TaskInput{Title: " "}); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(p.snapshots) != 1 {
		t.Fatalf("expected no write on failed mutation, got %d", len(p.snapshots))
	}

	// transient state is not persisted
	svc.SelectTask(task.ID)
	svc.SetSearchQuery("persist")
	if len(p.snapshots) != 1 {
		t.Fatalf("selection and search must not be written")
	}
	if err := svc.SetFilter(model.FilterCompleted); err != nil {
		t.Fatalf("set filter failed: %v", err)
	}
	if got := p.snapshots[len(p.snapshots)-1].CurrentFilter; got != model.FilterCompleted {
		t.Fatalf("expected filter persisted, got %s", got)
	}
}

func TestSaveFailureDoesNotRollBack(t *testing.T) {
	p := &recordingPersister{saveErr: errors.New("quota exceeded")}
	svc, _ := newTestService(t, WithPersister(p))

	task, err := svc.AddTask(TaskInput{Title: "kept"})
	if err != nil {
		t.Fatalf("save failure must not reach the caller: %v", err)
	}
	if _, err := svc.GetTask(task.ID); err != nil {
		t.Fatalf("in-memory state must keep the task: %v", err)
	}
	if err := svc.SetSortBy(model.SortTitle); err != nil {
		t.Fatalf("sort setter must not surface save errors: %v", err)
	}
	if svc.Query().SortBy != model.SortTitle {
		t.Fatalf("expected sort applied in memory")
	}
}

func TestSortSettersWritePreference(t *testing.T) {
	p := &recordingPersister{}
	svc, _ := newTestService(t, WithPersister(p))

	if err := svc.SetSortBy(model.SortPriority); err != nil {
		t.Fatalf("set sort by failed: %v", err)
	}
	if got := svc.ToggleSortDirection(); got != model.SortAsc {
		t.Fatalf("expected ASC after toggle, got %s", got)
	}
	if len(p.prefs) != 2 {
		t.Fatalf("expected 2 preference writes, got %d", len(p.prefs))
	}
	want := model.SortPreference{SortBy: model.SortPriority, SortDirection: model.SortAsc}
	if p.prefs[1] != want {
		t.Fatalf("expected %+v, got %+v", want, p.prefs[1])
	}

	if err := svc.SetSortBy("BOGUS"); err == nil || err.Error() != "Invalid sort field" {
		t.Fatalf("expected Invalid sort field, got %v", err)
	}
	if err := svc.SetSortDirection("UP"); err == nil || err.Error() != "Invalid sort direction" {
		t.Fatalf("expected Invalid sort direction, got %v", err)
	}
	if err := svc.SetFilter("SOME"); err == nil || err.Error() != "Invalid filter" {
		t.Fatalf("expected Invalid filter, got %v", err)
	}
	if len(p.prefs) != 2 {
		t.Fatalf("rejected setters must not write")
	}
}

func TestLoadSortPreference(t *testing.T) {
	missing := &recordingPersister{}
	svc, _ := newTestService(t, WithPersister(missing))
	if got := svc.LoadSortPreference(); got != model.DefaultSortPreference() {
		t.Fatalf("expected defaults when missing, got %+v", got)
	}

	broken := &recordingPersister{loadErr: errors.New("unreadable")}
	svc, _ = newTestService(t, WithPersister(broken))
	if got := svc.LoadSortPreference(); got != model.DefaultSortPreference() {
		t.Fatalf("expected defaults on error, got %+v", got)
	}

	invalid := &recordingPersister{stored: &model.SortPreference{SortBy: "NAME", SortDirection: model.SortAsc}}
	svc, _ = newTestService(t, WithPersister(invalid))
	if got := svc.LoadSortPreference(); got != model.DefaultSortPreference() {
		t.Fatalf("expected defaults for invalid value, got %+v", got)
	}

	stored := model.SortPreference{SortBy: model.SortDueDate, SortDirection: model.SortAsc}
	p := &recordingPersister{stored: &stored}
	svc, _ = newTestService(t, WithPersister(p))
	if got := svc.LoadSortPreference(); got != stored {
		t.Fatalf("expected stored preference, got %+v", got)
	}
	q := svc.Query()
	if q.SortBy != model.SortDueDate || q.SortDirection != model.SortAsc {
		t.Fatalf("expected preference applied, got %+v", q)
	}
	if len(p.prefs) != 0 || len(p.snapshots) != 0 {
		t.Fatalf("loading must not write")
	}
}

func TestFilterSetters(t *testing.T) {
	svc, _ := newTestService(t)
	svc.ToggleCategoryFilter("work")
	svc.ToggleCategoryFilter(model.NoCategory)
	svc.ToggleCategoryFilter("work")
	if got := svc.Query().CategoryFilters; !equalStrings(got, []string{model.NoCategory}) {
		t.Fatalf("unexpected category filters %v", got)
	}
	svc.SetTagFilters([]string{" Urgent", "urgent", "", "home"})
	if got := svc.Query().TagFilters; !equalStrings(got, []string{"urgent", "home"}) {
		t.Fatalf("unexpected tag filters %v", got)
	}
	svc.ToggleTagFilter("   ")
	svc.ToggleTagFilter("HOME")
	if got := svc.Query().TagFilters; !equalStrings(got, []string{"urgent"}) {
		t.Fatalf("unexpected tag filters %v", got)
	}
	_ = svc.SetFilter(model.FilterActive)
	_ = svc.SetSortBy(model.SortTitle)
	svc.SetSearchQuery("x")

	svc.ClearAllFilters()
	q := svc.Query()
	if q.Filter != model.FilterAll || len(q.CategoryFilters) != 0 || len(q.TagFilters) != 0 || q.SearchQuery != "" {
		t.Fatalf("expected filters cleared, got %+v", q)
	}
	if q.SortBy != model.SortTitle {
		t.Fatalf("clearing filters must keep sort")
	}
}

func TestHydrationKeepsFiltersAndDropsTransientState(t *testing.T) {
	src, _ := newTestService(t)
	task := mustAddTask(t, src, "a")
	src.ToggleTagFilter("x")
	_ = src.SetFilter(model.FilterActive)
	src.SelectTask(task.ID)
	src.SetSearchQuery("a")

	svc := NewService(src.Snapshot())
	q := svc.Query()
	if q.Filter != model.FilterActive || !equalStrings(q.TagFilters, []string{"x"}) {
		t.Fatalf("expected persisted filters restored, got %+v", q)
	}
	if len(q.SelectedTaskIDs) != 0 || q.SearchQuery != "" {
		t.Fatalf("selection and search must start empty, got %+v", q)
	}

	// ids and timestamps continue monotonically after hydration
	next, err := svc.AddTask(TaskInput{Title: "b"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !next.CreatedAt.After(task.CreatedAt) {
		t.Fatalf("expected createdAt after hydrated data")
	}
}

func TestCategoryCRUD(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.AddCategory(CategoryInput{Name: "  "}); err == nil || err.Error() != "Category name is required" {
		t.Fatalf("expected name required, got %v", err)
	}
	if _, err := svc.AddCategory(CategoryInput{Name: strings.Repeat("c", 51)}); err == nil || err.Error() != "Category name must not exceed 50 characters" {
		t.Fatalf("expected name too long, got %v", err)
	}

	work, err := svc.AddCategory(CategoryInput{Name: " Work "})
	if err != nil {
		t.Fatalf("add category failed: %v", err)
	}
	if work.Name != "Work" || work.Color != DefaultCategoryColor {
		t.Fatalf("unexpected category %+v", work)
	}

	renamed, err := svc.UpdateCategory(work.ID, CategoryPatch{Name: strPtr("Job"), Color: strPtr("#ff0000")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if renamed.Name != "Job" || renamed.Color != "#ff0000" || !renamed.UpdatedAt.After(work.UpdatedAt) {
		t.Fatalf("unexpected update %+v", renamed)
	}
	if _, err := svc.UpdateCategory("missing", CategoryPatch{}); err == nil || err.Error() != "Category not found" {
		t.Fatalf("expected Category not found, got %v", err)
	}

	task := mustAddTaskWith(t, svc, TaskInput{Title: "t", CategoryID: &work.ID})
	svc.ToggleCategoryFilter(work.ID)
	if !svc.DeleteCategory(work.ID) {
		t.Fatalf("expected delete to succeed")
	}
	if svc.DeleteCategory(work.ID) {
		t.Fatalf("second delete must report false")
	}
	if len(svc.Query().CategoryFilters) != 0 {
		t.Fatalf("expected category filter dropped")
	}
	got, _ := svc.GetTask(task.ID)
	if got.CategoryID == nil || *got.CategoryID != work.ID {
		t.Fatalf("tasks keep their category id after delete")
	}
}

func TestUndoStackLimit(t *testing.T) {
	svc, _ := newTestService(t)
	for i := 0; i < undoStackLimit+5; i++ {
		mustAddTask(t, svc, "t")
	}
	undone := 0
	for svc.CanUndo() {
		if err := svc.Undo(); err != nil {
			t.Fatalf("undo failed: %v", err)
		}
		undone++
	}
	if undone != undoStackLimit {
		t.Fatalf("expected %d undo steps, got %d", undoStackLimit, undone)
	}
	if len(svc.Tasks()) != 5 {
		t.Fatalf("expected 5 tasks left, got %d", len(svc.Tasks()))
	}
	if err := svc.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}
