package app

import (
	"sort"
	"strings"
	"time"

	"taskboard/model"
)

// Views are recomputed from canonical state on every call; collections are
// small enough that nothing is cached.

// TagCount pairs a tag with the number of tasks carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Stats summarizes the task collection.
type Stats struct {
	Total      int                    `json:"total"`
	Active     int                    `json:"active"`
	Completed  int                    `json:"completed"`
	Overdue    int                    `json:"overdue"`
	ByPriority map[model.Priority]int `json:"byPriority"`
}

// FilterTasks keeps tasks matching the status filter, preserving order.
func FilterTasks(tasks []model.Task, filter model.Filter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesFilter(filter, t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// SearchTasks keeps tasks whose title or description contains the trimmed
// query, case-insensitively. An empty query keeps everything.
func SearchTasks(tasks []model.Task, query string) []model.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesSearch(q, t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// SortTasks returns a stably sorted copy of tasks.
func SortTasks(tasks []model.Task, field model.SortField, dir model.SortDirection) []model.Task {
	out := model.CloneTasks(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return CompareTasks(out[i], out[j], field, dir) < 0
	})
	return out
}

// CompareTasks orders two tasks for the given sort. DESC negates the primary
// comparison only: priority ties fall back to createdAt ascending, and tasks
// without a due date sort after dated ones, in either direction.
func CompareTasks(a, b model.Task, field model.SortField, dir model.SortDirection) int {
	directed := func(c int) int {
		if dir == model.SortDesc {
			return -c
		}
		return c
	}
	switch field {
	case model.SortPriority:
		if c := compareInts(a.Priority.Rank(), b.Priority.Rank()); c != 0 {
			return directed(c)
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	case model.SortTitle:
		return directed(strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)))
	case model.SortDueDate:
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		return directed(a.DueDate.Compare(*b.DueDate))
	default:
		return directed(a.CreatedAt.Compare(b.CreatedAt))
	}
}

func (s *Service) GetFilteredTasks() []model.Task {
	return FilterTasks(s.tasks, s.query.Filter)
}

func (s *Service) GetSortedTasks() []model.Task {
	return SortTasks(s.tasks, s.query.SortBy, s.query.SortDirection)
}

func (s *Service) GetSearchResults() []model.Task {
	return SearchTasks(s.tasks, s.query.SearchQuery)
}

func (s *Service) GetFilteredAndSortedTasks() []model.Task {
	return SortTasks(FilterTasks(s.tasks, s.query.Filter), s.query.SortBy, s.query.SortDirection)
}

func (s *Service) GetFilteredAndSearchedTasks() []model.Task {
	return SearchTasks(FilterTasks(s.tasks, s.query.Filter), s.query.SearchQuery)
}

func (s *Service) GetSearchedAndSortedTasks() []model.Task {
	return SortTasks(SearchTasks(s.tasks, s.query.SearchQuery), s.query.SortBy, s.query.SortDirection)
}

func (s *Service) GetFilteredSearchedAndSortedTasks() []model.Task {
	return SortTasks(s.GetFilteredAndSearchedTasks(), s.query.SortBy, s.query.SortDirection)
}

// GetVisibleTasks applies every active query: status filter, category
// filters, tag filters (any match), search, then sort.
func (s *Service) GetVisibleTasks() []model.Task {
	filtered := FilterTasks(s.tasks, s.query.Filter)
	if len(s.query.CategoryFilters) > 0 {
		kept := filtered[:0]
		for _, t := range filtered {
			if inAnyCategory(t, s.query.CategoryFilters) {
				kept = append(kept, t)
			}
		}
		filtered = kept
	}
	if len(s.query.TagFilters) > 0 {
		kept := filtered[:0]
		for _, t := range filtered {
			if hasAnyTag(t, s.query.TagFilters) {
				kept = append(kept, t)
			}
		}
		filtered = kept
	}
	return SortTasks(SearchTasks(filtered, s.query.SearchQuery), s.query.SortBy, s.query.SortDirection)
}

// GetTasksInCustomOrder returns tasks ordered by customOrder, ties by insertion order.
func (s *Service) GetTasksInCustomOrder() []model.Task {
	out := model.CloneTasks(s.tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CustomOrder < out[j].CustomOrder
	})
	return out
}

func (s *Service) GetFilterCount(filter model.Filter) int {
	n := 0
	for _, t := range s.tasks {
		if matchesFilter(filter, t) {
			n++
		}
	}
	return n
}

func (s *Service) GetSearchResultCount() int {
	q := strings.ToLower(strings.TrimSpace(s.query.SearchQuery))
	n := 0
	for _, t := range s.tasks {
		if matchesSearch(q, t) {
			n++
		}
	}
	return n
}

func (s *Service) GetPriorityCount(priority model.Priority) int {
	n := 0
	for _, t := range s.tasks {
		if t.Priority == priority {
			n++
		}
	}
	return n
}

// GetTagCount counts tasks carrying tag.
func (s *Service) GetTagCount(tag string) int {
	tag = model.NormalizeTag(tag)
	n := 0
	for _, t := range s.tasks {
		if t.HasTag(tag) {
			n++
		}
	}
	return n
}

// GetCategoryTaskCount counts tasks in a category; model.NoCategory counts uncategorized tasks.
func (s *Service) GetCategoryTaskCount(categoryID string) int {
	n := 0
	for _, t := range s.tasks {
		if t.InCategory(categoryID) {
			n++
		}
	}
	return n
}

// GetAllTags returns the distinct tags in use, sorted ascending.
func (s *Service) GetAllTags() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range s.tasks {
		for _, tag := range t.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

// GetTagsWithCount returns tag usage, most used first; ties keep the order in
// which tags first appear across tasks.
func (s *Service) GetTagsWithCount() []TagCount {
	index := make(map[string]int)
	out := make([]TagCount, 0)
	for _, t := range s.tasks {
		for _, tag := range t.Tags {
			if i, ok := index[tag]; ok {
				out[i].Count++
				continue
			}
			index[tag] = len(out)
			out = append(out, TagCount{Tag: tag, Count: 1})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

func (s *Service) GetTasksByTag(tag string) []model.Task {
	return s.GetTasksByTags([]string{tag})
}

// GetTasksByTags returns tasks carrying any of tags.
func (s *Service) GetTasksByTags(tags []string) []model.Task {
	wanted := normalizeAll(tags)
	return s.collect(func(t model.Task) bool { return hasAnyTag(t, wanted) })
}

// GetTasksWithAllTags returns tasks carrying every one of tags.
func (s *Service) GetTasksWithAllTags(tags []string) []model.Task {
	wanted := normalizeAll(tags)
	return s.collect(func(t model.Task) bool {
		for _, tag := range wanted {
			if !t.HasTag(tag) {
				return false
			}
		}
		return true
	})
}

func (s *Service) GetTasksByCategory(categoryID string) []model.Task {
	return s.collect(func(t model.Task) bool { return t.InCategory(categoryID) })
}

func (s *Service) GetTasksByPriority(priority model.Priority) []model.Task {
	return s.collect(func(t model.Task) bool { return t.Priority == priority })
}

// IsOverdue reports whether a pending task's due date lies before now.
func (s *Service) IsOverdue(t model.Task) bool {
	return t.DueDate != nil && !t.IsCompleted() && t.DueDate.Before(s.now())
}

// GetOverdueTasks returns pending tasks due before now. Completed tasks are never overdue.
func (s *Service) GetOverdueTasks() []model.Task {
	return s.collect(s.IsOverdue)
}

// GetTasksDueToday returns tasks due on today's calendar day.
func (s *Service) GetTasksDueToday() []model.Task {
	start := startOfDay(s.now(), s.loc)
	return s.dueBetween(start, start.AddDate(0, 0, 1))
}

// GetTasksDueThisWeek returns tasks due from the start of today through the
// end of the sixth following day.
func (s *Service) GetTasksDueThisWeek() []model.Task {
	start := startOfDay(s.now(), s.loc)
	return s.dueBetween(start, start.AddDate(0, 0, 7))
}

func (s *Service) GetStats() Stats {
	st := Stats{ByPriority: make(map[model.Priority]int, len(model.Priorities))}
	for _, p := range model.Priorities {
		st.ByPriority[p] = 0
	}
	for _, t := range s.tasks {
		st.Total++
		if t.IsCompleted() {
			st.Completed++
		} else {
			st.Active++
		}
		if s.IsOverdue(t) {
			st.Overdue++
		}
		st.ByPriority[t.Priority]++
	}
	return st
}

func (s *Service) dueBetween(from, to time.Time) []model.Task {
	return s.collect(func(t model.Task) bool {
		return t.DueDate != nil && !t.DueDate.Before(from) && t.DueDate.Before(to)
	})
}

func (s *Service) collect(keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

func matchesFilter(filter model.Filter, t model.Task) bool {
	switch filter {
	case model.FilterActive:
		return t.Status == model.StatusPending
	case model.FilterCompleted:
		return t.Status == model.StatusCompleted
	default:
		return true
	}
}

// matchesSearch expects q already trimmed and lowercased.
func matchesSearch(q string, t model.Task) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

func hasAnyTag(t model.Task, tags []string) bool {
	for _, tag := range tags {
		if t.HasTag(tag) {
			return true
		}
	}
	return false
}

func inAnyCategory(t model.Task, ids []string) bool {
	for _, id := range ids {
		if t.InCategory(id) {
			return true
		}
	}
	return false
}

func normalizeAll(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if n := model.NormalizeTag(tag); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
