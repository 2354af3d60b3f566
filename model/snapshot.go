package model

import (
	"strings"
	"time"
)

// SnapshotVersion is bumped whenever the persisted shape changes incompatibly.
const SnapshotVersion = 1

// Snapshot is the persisted subset of the store.
type Snapshot struct {
	Version         int           `json:"version"`
	Tasks           []Task        `json:"tasks"`
	Categories      []Category    `json:"categories"`
	CurrentFilter   Filter        `json:"currentFilter"`
	SortBy          SortField     `json:"sortBy"`
	SortDirection   SortDirection `json:"sortDirection"`
	CategoryFilters []string      `json:"categoryFilters"`
	TagFilters      []string      `json:"tagFilters"`
}

// NewSnapshot returns an initialized empty snapshot.
func NewSnapshot() Snapshot {
	q := NewQueryState()
	return Snapshot{
		Version:         SnapshotVersion,
		Tasks:           []Task{},
		Categories:      []Category{},
		CurrentFilter:   q.Filter,
		SortBy:          q.SortBy,
		SortDirection:   q.SortDirection,
		CategoryFilters: []string{},
		TagFilters:      []string{},
	}
}

// NormalizeTag trims and lowercases a tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Normalize fills absent fields with defaults and repairs records that would
// break store invariants: unknown enums fall back to defaults, tags are
// normalized and deduplicated, completedAt follows status, and tasks without
// an id (or repeating one) are dropped.
func (s Snapshot) Normalize() Snapshot {
	if s.Version == 0 {
		s.Version = SnapshotVersion
	}
	if !s.CurrentFilter.Valid() {
		s.CurrentFilter = FilterAll
	}
	pref := DefaultSortPreference()
	if !s.SortBy.Valid() {
		s.SortBy = pref.SortBy
	}
	if !s.SortDirection.Valid() {
		s.SortDirection = pref.SortDirection
	}

	seen := make(map[string]struct{}, len(s.Tasks))
	tasks := make([]Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if strings.TrimSpace(t.ID) == "" {
			continue
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, normalizeTask(t.Clone()))
	}
	s.Tasks = tasks

	catSeen := make(map[string]struct{}, len(s.Categories))
	cats := make([]Category, 0, len(s.Categories))
	for _, c := range s.Categories {
		if strings.TrimSpace(c.ID) == "" {
			continue
		}
		if _, dup := catSeen[c.ID]; dup {
			continue
		}
		catSeen[c.ID] = struct{}{}
		if c.UpdatedAt.Before(c.CreatedAt) {
			c.UpdatedAt = c.CreatedAt
		}
		cats = append(cats, c)
	}
	s.Categories = cats

	s.CategoryFilters = dedupe(s.CategoryFilters, strings.TrimSpace, true)
	s.TagFilters = dedupe(s.TagFilters, NormalizeTag, false)
	return s
}

func normalizeTask(t Task) Task {
	if !t.Status.Valid() {
		t.Status = StatusPending
	}
	if !t.Priority.Valid() {
		t.Priority = PriorityMedium
	}
	t.Tags = dedupe(t.Tags, NormalizeTag, false)
	if t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = t.CreatedAt
	}
	switch {
	case t.Status == StatusCompleted && t.CompletedAt == nil:
		at := t.UpdatedAt
		t.CompletedAt = &at
	case t.Status == StatusPending:
		t.CompletedAt = nil
	}
	return t
}

// dedupe normalizes values, keeping first occurrences. Empty values survive
// only when keepEmpty is set, since an empty category filter means NoCategory.
func dedupe(values []string, norm func(string) string, keepEmpty bool) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = norm(v)
		if _, ok := seen[v]; ok {
			continue
		}
		if v == "" && !keepEmpty {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// LatestTimestamp returns the newest timestamp recorded anywhere in the snapshot.
func (s Snapshot) LatestTimestamp() time.Time {
	var latest time.Time
	bump := func(t time.Time) {
		if t.After(latest) {
			latest = t
		}
	}
	for _, t := range s.Tasks {
		bump(t.CreatedAt)
		bump(t.UpdatedAt)
		if t.CompletedAt != nil {
			bump(*t.CompletedAt)
		}
	}
	for _, c := range s.Categories {
		bump(c.CreatedAt)
		bump(c.UpdatedAt)
	}
	return latest
}
