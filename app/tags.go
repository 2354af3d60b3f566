package app

import (
	"taskboard/model"
)

// Tags are plain normalized strings stored on each task; there is no tag
// table. Registry operations below are a full pass over the task collection,
// O(tasks × tags).

// AddTagToTask attaches a tag. Adding a tag the task already has is a no-op.
func (s *Service) AddTagToTask(id, tag string) (model.Task, error) {
	idx := s.indexOfTask(id)
	if idx < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	normalized, err := ValidateTagName(tag)
	if err != nil {
		return model.Task{}, err
	}
	t := &s.tasks[idx]
	if t.HasTag(normalized) {
		return t.Clone(), nil
	}
	if err := ValidateTagCount(len(t.Tags)); err != nil {
		return model.Task{}, err
	}
	s.pushUndo()
	t = &s.tasks[idx]
	t.Tags = append(t.Tags, normalized)
	t.UpdatedAt = s.tick()
	s.commit()
	return t.Clone(), nil
}

// RemoveTagFromTask detaches a tag; a tag the task does not carry is a no-op.
func (s *Service) RemoveTagFromTask(id, tag string) (model.Task, error) {
	idx := s.indexOfTask(id)
	if idx < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	normalized := model.NormalizeTag(tag)
	t := &s.tasks[idx]
	if !t.HasTag(normalized) {
		return t.Clone(), nil
	}
	s.pushUndo()
	t = &s.tasks[idx]
	t.Tags = without(t.Tags, normalized)
	t.UpdatedAt = s.tick()
	s.commit()
	return t.Clone(), nil
}

// SetTaskTags replaces every tag on a task.
func (s *Service) SetTaskTags(id string, tags []string) (model.Task, error) {
	idx := s.indexOfTask(id)
	if idx < 0 {
		return model.Task{}, ErrTaskNotFound
	}
	normalized, err := normalizeTags(tags)
	if err != nil {
		return model.Task{}, err
	}
	s.pushUndo()
	t := &s.tasks[idx]
	t.Tags = normalized
	t.UpdatedAt = s.tick()
	s.commit()
	return t.Clone(), nil
}

// RenameTag rewrites oldTag to newTag on every task, keeping tag order.
// It returns the number of tasks changed.
func (s *Service) RenameTag(oldTag, newTag string) (int, error) {
	from := model.NormalizeTag(oldTag)
	if from == "" || s.GetTagCount(from) == 0 {
		return 0, ErrTagNotFound
	}
	to, err := ValidateTagName(newTag)
	if err != nil {
		return 0, err
	}
	if to == from {
		return 0, nil
	}
	if s.GetTagCount(to) > 0 {
		return 0, ErrTagExists
	}

	s.pushUndo()
	changed := 0
	for i := range s.tasks {
		t := &s.tasks[i]
		for j, tag := range t.Tags {
			if tag == from {
				t.Tags[j] = to
				t.UpdatedAt = s.tick()
				changed++
				break
			}
		}
	}
	s.commit()
	return changed, nil
}

// DeleteTag removes a tag from every task and from the tag filters.
// It returns the number of tasks changed; an unused tag is a no-op.
func (s *Service) DeleteTag(tag string) int {
	normalized := model.NormalizeTag(tag)
	if normalized == "" || s.GetTagCount(normalized) == 0 {
		return 0
	}
	s.pushUndo()
	changed := 0
	for i := range s.tasks {
		t := &s.tasks[i]
		if !t.HasTag(normalized) {
			continue
		}
		t.Tags = without(t.Tags, normalized)
		t.UpdatedAt = s.tick()
		changed++
	}
	s.query.TagFilters = removeString(s.query.TagFilters, normalized)
	s.commit()
	return changed
}

// MergeTags replaces every tag in sources with target on every task,
// deduplicating while keeping the first occurrence's position.
// It returns the number of tasks changed.
func (s *Service) MergeTags(sources []string, target string) (int, error) {
	merge := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		if n := model.NormalizeTag(src); n != "" {
			merge[n] = struct{}{}
		}
	}
	if len(merge) == 0 {
		return 0, ErrMergeSourceEmpty
	}
	to, err := ValidateTagName(target)
	if err != nil {
		return 0, err
	}

	s.pushUndo()
	changed := 0
	for i := range s.tasks {
		t := &s.tasks[i]
		merged := make([]string, 0, len(t.Tags))
		for _, tag := range t.Tags {
			if _, ok := merge[tag]; ok {
				tag = to
			}
			if !containsString(merged, tag) {
				merged = append(merged, tag)
			}
		}
		if equalStrings(merged, t.Tags) {
			continue
		}
		t.Tags = merged
		t.UpdatedAt = s.tick()
		changed++
	}
	if changed == 0 {
		s.undo = s.undo[:len(s.undo)-1]
		return 0, nil
	}
	s.commit()
	return changed, nil
}

func without(tags []string, tag string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
