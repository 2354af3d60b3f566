package app

import (
	"errors"
	"strings"
	"testing"
)

func TestAddTagToTaskIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	task := mustAddTask(t, svc, "x")

	first, err := svc.AddTagToTask(task.ID, "  Urgent ")
	if err != nil {
		t.Fatalf("add tag failed: %v", err)
	}
	if !equalStrings(first.Tags, []string{"urgent"}) {
		t.Fatalf("unexpected tags %v", first.Tags)
	}
	second, err := svc.AddTagToTask(task.ID, "URGENT")
	if err != nil {
		t.Fatalf("re-adding tag must not fail: %v", err)
	}
	if !equalStrings(second.Tags, first.Tags) || !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Fatalf("re-adding changed the task: %+v", second)
	}
}

func TestAddTagToTaskValidation(t *testing.T) {
	svc, _ := newTestService(t)
	task := mustAddTask(t, svc, "x")

	if _, err := svc.AddTagToTask("missing", "a"); err == nil || err.Error() != "Task not found" {
		t.Fatalf("expected Task not found, got %v", err)
	}
	if _, err := svc.AddTagToTask(task.ID, "   "); err == nil || err.Error() != "Tag name cannot be empty" {
		t.Fatalf("expected empty tag error, got %v", err)
	}
	if _, err := svc.AddTagToTask(task.ID, strings.Repeat("t", 31)); err == nil || err.Error() != "Tag name must not exceed 30 characters" {
		t.Fatalf("expected tag length error, got %v", err)
	}
	for i := 0; i < MaxTagsPerTask; i++ {
		if _, err := svc.AddTagToTask(task.ID, string(rune('a'+i))); err != nil {
			t.Fatalf("add tag %d failed: %v", i, err)
		}
	}
	if _, err := svc.AddTagToTask(task.ID, "overflow"); err == nil || err.Error() != "Maximum 10 tags per task" {
		t.Fatalf("expected tag limit error, got %v", err)
	}
	// an existing tag is still a silent no-op at the limit
	if _, err := svc.AddTagToTask(task.ID, "a"); err != nil {
		t.Fatalf("expected no-op for existing tag at limit, got %v", err)
	}
}

func TestRemoveTagFromTask(t *testing.T) {
	svc, _ := newTestService(t)
	task := mustAddTaskWith(t, svc, TaskInput{Title: "x", Tags: []string{"a", "b", "c"}})

	got, err := svc.RemoveTagFromTask(task.ID, " B ")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !equalStrings(got.Tags, []string{"a", "c"}) {
		t.Fatalf("unexpected tags %v", got.Tags)
	}
	again, err := svc.RemoveTagFromTask(task.ID, "b")
	if err != nil || !again.UpdatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("removing absent tag must be a no-op, got %v", err)
	}
	if _, err := svc.RemoveTagFromTask("missing", "a"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetTaskTags(t *testing.T) {
	svc, _ := newTestService(t)
	task := mustAddTaskWith(t, svc, TaskInput{Title: "x", Tags: []string{"old"}})
	got, err := svc.SetTaskTags(task.ID, []string{"New", "new", "other"})
	if err != nil {
		t.Fatalf("set tags failed: %v", err)
	}
	if !equalStrings(got.Tags, []string{"new", "other"}) {
		t.Fatalf("unexpected tags %v", got.Tags)
	}
	if _, err := svc.SetTaskTags(task.ID, []string{""}); !errors.Is(err, ErrTagEmpty) {
		t.Fatalf("expected ErrTagEmpty, got %v", err)
	}
}

func TestRenameTag(t *testing.T) {
	svc, _ := newTestService(t)
	a := mustAddTaskWith(t, svc, TaskInput{Title: "a", Tags: []string{"x", "old", "y"}})
	b := mustAddTaskWith(t, svc, TaskInput{Title: "b", Tags: []string{"old"}})
	mustAddTaskWith(t, svc, TaskInput{Title: "c", Tags: []string{"taken"}})

	if _, err := svc.RenameTag("nope", "new"); err == nil || err.Error() != "Tag not found" {
		t.Fatalf("expected Tag not found, got %v", err)
	}
	if _, err := svc.RenameTag("old", "   "); !errors.Is(err, ErrTagEmpty) {
		t.Fatalf("expected ErrTagEmpty, got %v", err)
	}
	if _, err := svc.RenameTag("old", "TAKEN"); err == nil || err.Error() != "Tag already exists" {
		t.Fatalf("expected Tag already exists, got %v", err)
	}

	n, err := svc.RenameTag("OLD", " Fresh ")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 tasks renamed, got %d", n)
	}
	gotA, _ := svc.GetTask(a.ID)
	gotB, _ := svc.GetTask(b.ID)
	if !equalStrings(gotA.Tags, []string{"x", "fresh", "y"}) || !equalStrings(gotB.Tags, []string{"fresh"}) {
		t.Fatalf("unexpected tags after rename: %v %v", gotA.Tags, gotB.Tags)
	}
	if n, err := svc.RenameTag("fresh", "FRESH"); err != nil || n != 0 {
		t.Fatalf("renaming to itself should be a no-op, got %d %v", n, err)
	}
}

func TestDeleteTag(t *testing.T) {
	svc, _ := newTestService(t)
	mustAddTaskWith(t, svc, TaskInput{Title: "a", Tags: []string{"x", "gone"}})
	mustAddTaskWith(t, svc, TaskInput{Title: "b", Tags: []string{"gone"}})
	svc.ToggleTagFilter("gone")

	if n := svc.DeleteTag("GONE"); n != 2 {
		t.Fatalf("expected 2 tasks changed, got %d", n)
	}
	if svc.GetTagCount("gone") != 0 {
		t.Fatalf("expected tag removed everywhere")
	}
	if len(svc.Query().TagFilters) != 0 {
		t.Fatalf("expected tag filter dropped, got %v", svc.Query().TagFilters)
	}
	if n := svc.DeleteTag("gone"); n != 0 {
		t.Fatalf("expected deleting an absent tag to be a no-op")
	}
}

func TestMergeTags(t *testing.T) {
	svc, _ := newTestService(t)
	a := mustAddTaskWith(t, svc, TaskInput{Title: "a", Tags: []string{"js", "web", "javascript"}})
	b := mustAddTaskWith(t, svc, TaskInput{Title: "b", Tags: []string{"other", "javascript"}})
	c := mustAddTaskWith(t, svc, TaskInput{Title: "c", Tags: []string{"other"}})

	if _, err := svc.MergeTags(nil, "js"); !errors.Is(err, ErrMergeSourceEmpty) {
		t.Fatalf("expected ErrMergeSourceEmpty, got %v", err)
	}
	if _, err := svc.MergeTags([]string{"js"}, " "); !errors.Is(err, ErrTagEmpty) {
		t.Fatalf("expected ErrTagEmpty, got %v", err)
	}

	n, err := svc.MergeTags([]string{"JS", "javascript"}, "ecmascript")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 tasks changed, got %d", n)
	}
	gotA, _ := svc.GetTask(a.ID)
	gotB, _ := svc.GetTask(b.ID)
	gotC, _ := svc.GetTask(c.ID)
	if !equalStrings(gotA.Tags, []string{"ecmascript", "web"}) {
		t.Fatalf("unexpected merged tags for a: %v", gotA.Tags)
	}
	if !equalStrings(gotB.Tags, []string{"other", "ecmascript"}) {
		t.Fatalf("unexpected merged tags for b: %v", gotB.Tags)
	}
	if !equalStrings(gotC.Tags, []string{"other"}) || !gotC.UpdatedAt.Equal(c.UpdatedAt) {
		t.Fatalf("untouched task changed: %+v", gotC)
	}
}
