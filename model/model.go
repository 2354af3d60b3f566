package model

import (
	"strings"
	"time"
)

// Status is the completion state of a task.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Priority is a task priority. Ordering is LOW < MEDIUM < HIGH < CRITICAL.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Rank returns the ordinal of p, or -1 when p is unknown.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityCritical:
		return 3
	default:
		return -1
	}
}

func (p Priority) Valid() bool {
	return p.Rank() >= 0
}

// ParsePriority accepts any casing of a priority name.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Filter represents how tasks should be shown.
type Filter string

const (
	FilterAll       Filter = "ALL"
	FilterActive    Filter = "ACTIVE"
	FilterCompleted Filter = "COMPLETED"
)

func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// SortField selects the primary key of the sorted view.
type SortField string

const (
	SortDateCreated SortField = "DATE_CREATED"
	SortPriority    SortField = "PRIORITY"
	SortTitle       SortField = "TITLE"
	SortDueDate     SortField = "DUE_DATE"
)

func (f SortField) Valid() bool {
	switch f {
	case SortDateCreated, SortPriority, SortTitle, SortDueDate:
		return true
	}
	return false
}

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

func (d SortDirection) Valid() bool {
	return d == SortAsc || d == SortDesc
}

// Opposite flips the direction.
func (d SortDirection) Opposite() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// NoCategory stands for "tasks without a category" inside category filters.
const NoCategory = ""

// Category is a named, colored grouping of tasks.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Task is an individual actionable item.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	CategoryID  *string    `json:"categoryId"`
	Tags        []string   `json:"tags"`
	CustomOrder int        `json:"customOrder"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// HasTag reports whether the task carries the already-normalized tag.
func (t Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// InCategory matches categoryID against the task; NoCategory matches uncategorized tasks.
func (t Task) InCategory(categoryID string) bool {
	if categoryID == NoCategory {
		return t.CategoryID == nil
	}
	return t.CategoryID != nil && *t.CategoryID == categoryID
}

// Clone returns a deep copy so callers cannot alias store internals.
func (t Task) Clone() Task {
	out := t
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	if t.CategoryID != nil {
		c := *t.CategoryID
		out.CategoryID = &c
	}
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		out.CompletedAt = &c
	}
	out.Tags = append([]string{}, t.Tags...)
	return out
}

// CloneTasks deep-copies a task slice.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}
	return out
}

// QueryState is the view configuration applied by the derivation engine.
// SearchQuery and SelectedTaskIDs are transient and never persisted.
type QueryState struct {
	Filter          Filter
	SortBy          SortField
	SortDirection   SortDirection
	SearchQuery     string
	CategoryFilters []string
	TagFilters      []string
	SelectedTaskIDs []string
}

// SortPreference is the standalone persisted sort choice.
type SortPreference struct {
	SortBy        SortField     `json:"sortBy"`
	SortDirection SortDirection `json:"sortDirection"`
}

// DefaultSortPreference is DATE_CREATED, newest first.
func DefaultSortPreference() SortPreference {
	return SortPreference{SortBy: SortDateCreated, SortDirection: SortDesc}
}

// NewQueryState returns the default query state.
func NewQueryState() QueryState {
	pref := DefaultSortPreference()
	return QueryState{
		Filter:          FilterAll,
		SortBy:          pref.SortBy,
		SortDirection:   pref.SortDirection,
		CategoryFilters: []string{},
		TagFilters:      []string{},
		SelectedTaskIDs: []string{},
	}
}
