package app

import (
	"taskboard/model"
)

// The selection is transient: it is never persisted and is not part of undo.

// SelectedTaskIDs returns selected ids in selection order.
func (s *Service) SelectedTaskIDs() []string {
	return append([]string{}, s.query.SelectedTaskIDs...)
}

func (s *Service) IsTaskSelected(id string) bool {
	return containsString(s.query.SelectedTaskIDs, id)
}

func (s *Service) SelectTask(id string) {
	if !s.IsTaskSelected(id) {
		s.query.SelectedTaskIDs = append(s.query.SelectedTaskIDs, id)
	}
}

func (s *Service) DeselectTask(id string) {
	s.query.SelectedTaskIDs = removeString(s.query.SelectedTaskIDs, id)
}

func (s *Service) ToggleTaskSelection(id string) {
	if s.IsTaskSelected(id) {
		s.DeselectTask(id)
		return
	}
	s.SelectTask(id)
}

// SelectAllTasks replaces the selection with ids.
func (s *Service) SelectAllTasks(ids []string) {
	s.query.SelectedTaskIDs = uniqueStrings(ids)
}

func (s *Service) ClearSelection() {
	s.query.SelectedTaskIDs = []string{}
}

// AreAllTasksSelected reports whether every id in ids is selected. An empty
// ids list is never "all selected".
func (s *Service) AreAllTasksSelected(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.IsTaskSelected(id) {
			return false
		}
	}
	return true
}

// BulkCompleteTasks marks every known task in ids completed, leaving already
// completed tasks untouched, then clears the selection. It returns the number
// of tasks that changed.
func (s *Service) BulkCompleteTasks(ids []string) int {
	return s.bulk(ids, func(t *model.Task) bool {
		if t.IsCompleted() {
			return false
		}
		now := s.tick()
		t.Status = model.StatusCompleted
		t.CompletedAt = &now
		t.UpdatedAt = now
		return true
	})
}

// BulkDeleteTasks removes every known task in ids and clears the selection.
func (s *Service) BulkDeleteTasks(ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	s.pushUndo()
	kept := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if _, ok := drop[t.ID]; ok {
			continue
		}
		kept = append(kept, t)
	}
	removed := len(s.tasks) - len(kept)
	s.tasks = kept
	s.ClearSelection()
	s.finishBulk(removed)
	return removed
}

// BulkChangeCategory sets categoryId on every known task in ids. The id is
// stored as given, without checking it against the category collection; nil
// or model.NoCategory clears it.
func (s *Service) BulkChangeCategory(ids []string, categoryID *string) int {
	ref := categoryRef(categoryID)
	return s.bulk(ids, func(t *model.Task) bool {
		if sameRef(t.CategoryID, ref) {
			return false
		}
		t.CategoryID = copyRef(ref)
		t.UpdatedAt = s.tick()
		return true
	})
}

func (s *Service) BulkSetPriority(ids []string, priority model.Priority) (int, error) {
	if !priority.Valid() {
		return 0, ErrInvalidPriority
	}
	return s.bulk(ids, func(t *model.Task) bool {
		if t.Priority == priority {
			return false
		}
		t.Priority = priority
		t.UpdatedAt = s.tick()
		return true
	}), nil
}

// BulkAddTag adds tag to every known task in ids. Tasks that already carry
// it, or are full, are skipped.
func (s *Service) BulkAddTag(ids []string, tag string) (int, error) {
	normalized, err := ValidateTagName(tag)
	if err != nil {
		return 0, err
	}
	return s.bulk(ids, func(t *model.Task) bool {
		if t.HasTag(normalized) || ValidateTagCount(len(t.Tags)) != nil {
			return false
		}
		t.Tags = append(t.Tags, normalized)
		t.UpdatedAt = s.tick()
		return true
	}), nil
}

// bulk applies mutate to each known task in ids and clears the selection.
// Empty ids is a no-op.
func (s *Service) bulk(ids []string, mutate func(t *model.Task) bool) int {
	if len(ids) == 0 {
		return 0
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	s.pushUndo()
	changed := 0
	for i := range s.tasks {
		if _, ok := wanted[s.tasks[i].ID]; !ok {
			continue
		}
		if mutate(&s.tasks[i]) {
			changed++
		}
	}
	s.ClearSelection()
	s.finishBulk(changed)
	return changed
}

func (s *Service) finishBulk(changed int) {
	if changed == 0 {
		s.undo = s.undo[:len(s.undo)-1]
		return
	}
	s.commit()
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyRef(p *string) *string {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
