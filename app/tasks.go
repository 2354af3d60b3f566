package app

import (
	"sort"
	"strings"
	"time"

	"taskboard/model"
)

// TaskInput describes a new task. Zero Priority means MEDIUM.
type TaskInput struct {
	Title       string
	Description string
	Priority    model.Priority
	DueDate     *time.Time
	CategoryID  *string
	Tags        []string
}

// TaskPatch is a partial edit; nil fields are left untouched.
// A CategoryID pointing at model.NoCategory clears the category.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *model.Priority
	DueDate     *time.Time
	CategoryID  *string
}

// Tasks returns all tasks in canonical (insertion) order.
func (s *Service) Tasks() []model.Task {
	return model.CloneTasks(s.tasks)
}

// GetTask returns a task by id.
func (s *Service) GetTask(id string) (model.Task, error) {
	idx := s.indexOfTask(id)
	if idx < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	return s.tasks[idx].Clone(), nil
}

func (s *Service) AddTask(in TaskInput) (model.Task, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if err := ValidateTaskFields(&title, &description); err != nil {
		return model.Task{}, err
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return model.Task{}, ErrInvalidPriority
	}
	if in.DueDate != nil {
		if err := ValidateDueDate(*in.DueDate, s.now(), s.loc); err != nil {
			return model.Task{}, err
		}
	}
	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return model.Task{}, err
	}

	now := s.tick()
	task := model.Task{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		Status:      model.StatusPending,
		Priority:    priority,
		DueDate:     copyTime(in.DueDate),
		CategoryID:  categoryRef(in.CategoryID),
		Tags:        tags,
		CustomOrder: len(s.tasks),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.pushUndo()
	s.tasks = append(s.tasks, task)
	s.commit()
	return task.Clone(), nil
}

func (s *Service) UpdateTask(id string, patch TaskPatch) (model.Task, error) {
	idx := s.indexOfTask(id)
	if idx < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	var title, description *string
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		title = &t
	}
	if patch.Description != nil {
		d := strings.TrimSpace(*patch.Description)
		description = &d
	}
	if err := ValidateTaskFields(title, description); err != nil {
		return model.Task{}, err
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return model.Task{}, ErrInvalidPriority
	}
	if patch.DueDate != nil {
		if err := ValidateDueDate(*patch.DueDate, s.now(), s.loc); err != nil {
			return model.Task{}, err
		}
	}

	s.pushUndo()
	t := &s.tasks[idx]
	if title != nil {
		t.Title = *title
	}
	if description != nil {
		t.Description = *description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		t.DueDate = copyTime(patch.DueDate)
	}
	if patch.CategoryID != nil {
		t.CategoryID = categoryRef(patch.CategoryID)
	}
	t.UpdatedAt = s.tick()
	s.commit()
	return t.Clone(), nil
}

// DeleteTask removes a task and drops it from the selection. Remaining tasks
// keep their customOrder. It reports whether anything was removed.
func (s *Service) DeleteTask(id string) bool {
	idx := s.indexOfTask(id)
	if idx < 0 {
		return false
	}
	s.pushUndo()
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.query.SelectedTaskIDs = removeString(s.query.SelectedTaskIDs, id)
	s.commit()
	return true
}

// ToggleTaskComplete flips PENDING and COMPLETED. Unknown ids are ignored.
func (s *Service) ToggleTaskComplete(id string) (model.Task, bool) {
	idx := s.indexOfTask(id)
	if idx < 0 {
		return model.Task{}, false
	}
	s.pushUndo()
	t := &s.tasks[idx]
	now := s.tick()
	if t.IsCompleted() {
		t.Status = model.StatusPending
		t.CompletedAt = nil
	} else {
		t.Status = model.StatusCompleted
		t.CompletedAt = &now
	}
	t.UpdatedAt = now
	s.commit()
	return t.Clone(), true
}

func (s *Service) SetPriority(id string, priority model.Priority) (model.Task, error) {
	idx := s.indexOfTask(id)
	if idx < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	if !priority.Valid() {
		return model.Task{}, ErrInvalidPriority
	}
	s.pushUndo()
	t := &s.tasks[idx]
	t.Priority = priority
	t.UpdatedAt = s.tick()
	s.commit()
	return t.Clone(), nil
}

func (s *Service) SetDueDate(id string, date time.Time) (model.Task, error) {
	idx := s.indexOfTask(id)
	if idx < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	if err := ValidateDueDate(date, s.now(), s.loc); err != nil {
		return model.Task{}, err
	}
	s.pushUndo()
	t := &s.tasks[idx]
	t.DueDate = &date
	t.UpdatedAt = s.tick()
	s.commit()
	return t.Clone(), nil
}

// ClearDueDate removes the due date. Unknown ids are ignored.
func (s *Service) ClearDueDate(id string) bool {
	idx := s.indexOfTask(id)
	if idx < 0 {
		return false
	}
	s.pushUndo()
	t := &s.tasks[idx]
	t.DueDate = nil
	t.UpdatedAt = s.tick()
	s.commit()
	return true
}

// ReorderTasks rewrites customOrder densely as 0..n-1: listed ids first in
// the given order, then every unlisted task in its previous relative order.
// Unknown and repeated ids are ignored.
func (s *Service) ReorderTasks(orderedIDs []string) {
	if len(s.tasks) == 0 {
		return
	}
	rank := make(map[string]int, len(s.tasks))
	for _, id := range orderedIDs {
		if _, seen := rank[id]; seen || s.indexOfTask(id) < 0 {
			continue
		}
		rank[id] = len(rank)
	}

	indexes := make([]int, len(s.tasks))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(i, j int) bool {
		a, b := s.tasks[indexes[i]], s.tasks[indexes[j]]
		ra, aListed := rank[a.ID]
		rb, bListed := rank[b.ID]
		if aListed != bListed {
			return aListed
		}
		if aListed {
			return ra < rb
		}
		return a.CustomOrder < b.CustomOrder
	})

	s.pushUndo()
	changed := false
	for order, idx := range indexes {
		t := &s.tasks[idx]
		if t.CustomOrder == order {
			continue
		}
		t.CustomOrder = order
		t.UpdatedAt = s.tick()
		changed = true
	}
	if !changed {
		s.undo = s.undo[:len(s.undo)-1]
		return
	}
	s.commit()
}

// MoveTask places a task at position toIndex of the custom order, clamped to the valid range.
func (s *Service) MoveTask(id string, toIndex int) error {
	if s.indexOfTask(id) < 0 {
		return ErrTaskNotFound
	}
	ordered := s.GetTasksInCustomOrder()
	ids := make([]string, 0, len(ordered))
	for _, t := range ordered {
		if t.ID != id {
			ids = append(ids, t.ID)
		}
	}
	toIndex = clamp(toIndex, 0, len(ids))
	ids = append(ids[:toIndex], append([]string{id}, ids[toIndex:]...)...)
	s.ReorderTasks(ids)
	return nil
}

func (s *Service) indexOfTask(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func categoryRef(id *string) *string {
	if id == nil {
		return nil
	}
	c := strings.TrimSpace(*id)
	if c == model.NoCategory {
		return nil
	}
	return &c
}

func removeString(values []string, v string) []string {
	out := values[:0]
	for _, x := range values {
		if x != v {
			out = append(out, x)
		}
	}
	return out
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
