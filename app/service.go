package app

import (
	"time"

	"go.uber.org/zap"

	"taskboard/model"
)

const undoStackLimit = 20

// Persister receives committed state. Errors it returns are logged and dropped.
type Persister interface {
	SaveSnapshot(snap model.Snapshot) error
	SaveSortPreference(pref model.SortPreference) error
	LoadSortPreference() (model.SortPreference, error)
}

// Service holds the canonical task and category collections together with
// the query state, and exposes every mutation and derived view over them.
// It is not safe for concurrent use; one caller drives it at a time.
type Service struct {
	tasks      []model.Task
	categories []model.Category
	query      model.QueryState
	undo       []undoEntry

	clock     Clock
	newID     IDGenerator
	loc       *time.Location
	logger    *zap.Logger
	persister Persister

	last time.Time
}

type undoEntry struct {
	tasks      []model.Task
	categories []model.Category
}

// Option configures a Service.
type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLocation sets the zone used for calendar-day logic (due dates, today, this week).
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPersister makes the service write a snapshot after every committed mutation.
func WithPersister(p Persister) Option {
	return func(s *Service) {
		s.persister = p
	}
}

// NewService hydrates a service from snap. The snapshot is normalized first,
// so partially shaped input is safe.
func NewService(snap model.Snapshot, opts ...Option) *Service {
	snap = snap.Normalize()
	s := &Service{
		tasks:      model.CloneTasks(snap.Tasks),
		categories: append([]model.Category{}, snap.Categories...),
		query: model.QueryState{
			Filter:          snap.CurrentFilter,
			SortBy:          snap.SortBy,
			SortDirection:   snap.SortDirection,
			CategoryFilters: append([]string{}, snap.CategoryFilters...),
			TagFilters:      append([]string{}, snap.TagFilters...),
			SelectedTaskIDs: []string{},
		},
		undo:   []undoEntry{},
		clock:  SystemClock,
		newID:  UUIDGenerator,
		loc:    time.Local,
		logger: zap.NewNop(),
		last:   snap.LatestTimestamp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the persistable subset of the current state.
func (s *Service) Snapshot() model.Snapshot {
	return model.Snapshot{
		Version:         model.SnapshotVersion,
		Tasks:           model.CloneTasks(s.tasks),
		Categories:      append([]model.Category{}, s.categories...),
		CurrentFilter:   s.query.Filter,
		SortBy:          s.query.SortBy,
		SortDirection:   s.query.SortDirection,
		CategoryFilters: append([]string{}, s.query.CategoryFilters...),
		TagFilters:      append([]string{}, s.query.TagFilters...),
	}
}

// Query returns a copy of the current query state.
func (s *Service) Query() model.QueryState {
	q := s.query
	q.CategoryFilters = append([]string{}, s.query.CategoryFilters...)
	q.TagFilters = append([]string{}, s.query.TagFilters...)
	q.SelectedTaskIDs = append([]string{}, s.query.SelectedTaskIDs...)
	return q
}

// Location is the zone used for calendar-day logic.
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) SetFilter(filter model.Filter) error {
	if !filter.Valid() {
		return ErrInvalidFilter
	}
	s.query.Filter = filter
	s.commit()
	return nil
}

func (s *Service) SetSortBy(field model.SortField) error {
	if !field.Valid() {
		return ErrInvalidSortField
	}
	s.query.SortBy = field
	s.commitSort()
	return nil
}

func (s *Service) SetSortDirection(dir model.SortDirection) error {
	if !dir.Valid() {
		return ErrInvalidSortDirection
	}
	s.query.SortDirection = dir
	s.commitSort()
	return nil
}

func (s *Service) ToggleSortDirection() model.SortDirection {
	s.query.SortDirection = s.query.SortDirection.Opposite()
	s.commitSort()
	return s.query.SortDirection
}

// LoadSortPreference reads the standalone sort preference and applies it.
// A missing or unreadable preference yields the defaults without error.
func (s *Service) LoadSortPreference() model.SortPreference {
	pref := model.DefaultSortPreference()
	if s.persister != nil {
		loaded, err := s.persister.LoadSortPreference()
		switch {
		case err != nil:
			s.logger.Debug("sort preference unavailable, using defaults", zap.Error(err))
		case loaded.SortBy.Valid() && loaded.SortDirection.Valid():
			pref = loaded
		}
	}
	s.query.SortBy = pref.SortBy
	s.query.SortDirection = pref.SortDirection
	return pref
}

// SetSearchQuery stores the raw query; it is trimmed when applied.
func (s *Service) SetSearchQuery(query string) {
	s.query.SearchQuery = query
}

func (s *Service) ClearSearch() {
	s.query.SearchQuery = ""
}

// ToggleCategoryFilter adds or removes a category id (NoCategory for uncategorized).
func (s *Service) ToggleCategoryFilter(categoryID string) {
	s.query.CategoryFilters = toggleString(s.query.CategoryFilters, categoryID)
	s.commit()
}

func (s *Service) SetCategoryFilters(ids []string) {
	s.query.CategoryFilters = uniqueStrings(ids)
	s.commit()
}

func (s *Service) ClearCategoryFilters() {
	s.query.CategoryFilters = []string{}
	s.commit()
}

// ToggleTagFilter adds or removes a tag filter. Tags are normalized first;
// an empty tag is ignored.
func (s *Service) ToggleTagFilter(tag string) {
	tag = model.NormalizeTag(tag)
	if tag == "" {
		return
	}
	s.query.TagFilters = toggleString(s.query.TagFilters, tag)
	s.commit()
}

func (s *Service) SetTagFilters(tags []string) {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = model.NormalizeTag(t); t != "" && !containsString(out, t) {
			out = append(out, t)
		}
	}
	s.query.TagFilters = out
	s.commit()
}

func (s *Service) ClearTagFilters() {
	s.query.TagFilters = []string{}
	s.commit()
}

// ClearAllFilters resets status, category, tag and search filters. Sort is kept.
func (s *Service) ClearAllFilters() {
	s.query.Filter = model.FilterAll
	s.query.CategoryFilters = []string{}
	s.query.TagFilters = []string{}
	s.query.SearchQuery = ""
	s.commit()
}

// Undo reverts the latest entity mutation. Query state is not part of undo;
// selected ids that no longer exist are dropped.
func (s *Service) Undo() error {
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.tasks = last.tasks
	s.categories = last.categories

	kept := s.query.SelectedTaskIDs[:0]
	for _, id := range s.query.SelectedTaskIDs {
		if s.indexOfTask(id) >= 0 {
			kept = append(kept, id)
		}
	}
	s.query.SelectedTaskIDs = kept
	s.commit()
	return nil
}

// CanUndo reports whether Undo has anything to revert.
func (s *Service) CanUndo() bool {
	return len(s.undo) > 0
}

func (s *Service) pushUndo() {
	s.undo = append(s.undo, undoEntry{
		tasks:      model.CloneTasks(s.tasks),
		categories: append([]model.Category{}, s.categories...),
	})
	if len(s.undo) > undoStackLimit {
		s.undo = s.undo[len(s.undo)-undoStackLimit:]
	}
}

// commit hands the committed state to the persister. Write failures never
// reach the caller and never roll back the in-memory change.
func (s *Service) commit() {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveSnapshot(s.Snapshot()); err != nil {
		s.logger.Warn("snapshot write dropped", zap.Error(err))
	}
}

func (s *Service) commitSort() {
	s.commit()
	if s.persister == nil {
		return
	}
	pref := model.SortPreference{SortBy: s.query.SortBy, SortDirection: s.query.SortDirection}
	if err := s.persister.SaveSortPreference(pref); err != nil {
		s.logger.Warn("sort preference write dropped", zap.Error(err))
	}
}

func toggleString(values []string, v string) []string {
	out := make([]string, 0, len(values)+1)
	found := false
	for _, x := range values {
		if x == v {
			found = true
			continue
		}
		out = append(out, x)
	}
	if !found {
		out = append(out, v)
	}
	return out
}

func uniqueStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !containsString(out, v) {
			out = append(out, v)
		}
	}
	return out
}
