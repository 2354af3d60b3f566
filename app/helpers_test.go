package app

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"taskboard/model"
)

var baseTime = time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)

// manualClock returns a fixed time until advanced.
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func sequentialIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type recordingPersister struct {
	snapshots []model.Snapshot
	prefs     []model.SortPreference
	stored    *model.SortPreference
	loadErr   error
	saveErr   error
}

func (p *recordingPersister) SaveSnapshot(snap model.Snapshot) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.snapshots = append(p.snapshots, snap)
	return nil
}

func (p *recordingPersister) SaveSortPreference(pref model.SortPreference) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.prefs = append(p.prefs, pref)
	return nil
}

func (p *recordingPersister) LoadSortPreference() (model.SortPreference, error) {
	if p.loadErr != nil {
		return model.SortPreference{}, p.loadErr
	}
	if p.stored == nil {
		return model.SortPreference{}, errors.New("not found")
	}
	return *p.stored, nil
}

func newTestService(t *testing.T, opts ...Option) (*Service, *manualClock) {
	t.Helper()
	clock := &manualClock{now: baseTime}
	all := append([]Option{
		WithClock(clock),
		WithIDGenerator(sequentialIDs("task")),
		WithLocation(time.UTC),
	}, opts...)
	return NewService(model.NewSnapshot(), all...), clock
}

func mustAddTask(t *testing.T, svc *Service, title string) model.Task {
	t.Helper()
	task, err := svc.AddTask(TaskInput{Title: title})
	if err != nil {
		t.Fatalf("add task %q failed: %v", title, err)
	}
	return task
}

func mustAddTaskWith(t *testing.T, svc *Service, in TaskInput) model.Task {
	t.Helper()
	task, err := svc.AddTask(in)
	if err != nil {
		t.Fatalf("add task %q failed: %v", in.Title, err)
	}
	return task
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func assertTitles(t *testing.T, got []model.Task, want ...string) {
	t.Helper()
	g := titles(got)
	if len(g) != len(want) {
		t.Fatalf("expected titles %v, got %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("expected titles %v, got %v", want, g)
		}
	}
}

func assertCompletedInvariant(t *testing.T, svc *Service) {
	t.Helper()
	for _, task := range svc.Tasks() {
		if (task.CompletedAt != nil) != (task.Status == model.StatusCompleted) {
			t.Fatalf("completedAt/status mismatch on %s: status=%s completedAt=%v", task.ID, task.Status, task.CompletedAt)
		}
	}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func strPtr(s string) *string { return &s }
