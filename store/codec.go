package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"taskboard/model"
)

// EncodeSnapshot serializes a snapshot with ISO-8601 dates.
func EncodeSnapshot(snap model.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeSnapshot parses a snapshot written by EncodeSnapshot or by an older
// client. Dates may be ISO-8601 strings or epoch milliseconds; absent fields
// take their defaults. The result is normalized.
func DecodeSnapshot(data []byte) (model.Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return model.Snapshot{}, io.ErrUnexpectedEOF
	}
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return model.Snapshot{}, err
	}
	return w.snapshot().Normalize(), nil
}

func EncodeSortPreference(pref model.SortPreference) ([]byte, error) {
	return json.Marshal(pref)
}

// DecodeSortPreference rejects unknown sort fields and directions.
func DecodeSortPreference(data []byte) (model.SortPreference, error) {
	var pref model.SortPreference
	if err := json.Unmarshal(data, &pref); err != nil {
		return model.SortPreference{}, err
	}
	if !pref.SortBy.Valid() || !pref.SortDirection.Valid() {
		return model.SortPreference{}, fmt.Errorf("invalid sort preference %q/%q", pref.SortBy, pref.SortDirection)
	}
	return pref, nil
}

// isCorruptError reports whether err came from undecodable content rather
// than from the storage medium.
func isCorruptError(err error) bool {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return true
	}
	var timeErr *flexTimeError
	if errors.As(err, &timeErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

type wireSnapshot struct {
	Version         int                 `json:"version"`
	Tasks           []wireTask          `json:"tasks"`
	Categories      []wireCategory      `json:"categories"`
	CurrentFilter   model.Filter        `json:"currentFilter"`
	SortBy          model.SortField     `json:"sortBy"`
	SortDirection   model.SortDirection `json:"sortDirection"`
	CategoryFilters []*string           `json:"categoryFilters"`
	TagFilters      []string            `json:"tagFilters"`
}

type wireTask struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      model.Status   `json:"status"`
	Priority    model.Priority `json:"priority"`
	DueDate     flexTime       `json:"dueDate"`
	CategoryID  *string        `json:"categoryId"`
	Tags        []string       `json:"tags"`
	CustomOrder int            `json:"customOrder"`
	CreatedAt   flexTime       `json:"createdAt"`
	UpdatedAt   flexTime       `json:"updatedAt"`
	CompletedAt flexTime       `json:"completedAt"`
}

type wireCategory struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	CreatedAt flexTime `json:"createdAt"`
	UpdatedAt flexTime `json:"updatedAt"`
}

func (w wireSnapshot) snapshot() model.Snapshot {
	snap := model.Snapshot{
		Version:         w.Version,
		Tasks:           make([]model.Task, 0, len(w.Tasks)),
		Categories:      make([]model.Category, 0, len(w.Categories)),
		CurrentFilter:   w.CurrentFilter,
		SortBy:          w.SortBy,
		SortDirection:   w.SortDirection,
		CategoryFilters: make([]string, 0, len(w.CategoryFilters)),
		TagFilters:      w.TagFilters,
	}
	for _, t := range w.Tasks {
		snap.Tasks = append(snap.Tasks, t.task())
	}
	for _, c := range w.Categories {
		snap.Categories = append(snap.Categories, model.Category{
			ID:        c.ID,
			Name:      c.Name,
			Color:     c.Color,
			CreatedAt: c.CreatedAt.Time,
			UpdatedAt: c.UpdatedAt.Time,
		})
	}
	// a null entry stands for "uncategorized"
	for _, id := range w.CategoryFilters {
		if id == nil {
			snap.CategoryFilters = append(snap.CategoryFilters, model.NoCategory)
			continue
		}
		snap.CategoryFilters = append(snap.CategoryFilters, *id)
	}
	return snap
}

func (w wireTask) task() model.Task {
	t := model.Task{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Status:      w.Status,
		Priority:    w.Priority,
		DueDate:     w.DueDate.ptr(),
		Tags:        w.Tags,
		CustomOrder: w.CustomOrder,
		CreatedAt:   w.CreatedAt.Time,
		UpdatedAt:   w.UpdatedAt.Time,
		CompletedAt: w.CompletedAt.ptr(),
	}
	if w.CategoryID != nil && strings.TrimSpace(*w.CategoryID) != "" {
		id := *w.CategoryID
		t.CategoryID = &id
	}
	return t
}

// flexTime accepts null, an ISO-8601 string, or epoch milliseconds.
type flexTime struct {
	Time  time.Time
	Valid bool
}

type flexTimeError struct {
	raw string
}

func (e *flexTimeError) Error() string {
	return fmt.Sprintf("unrecognized date %s", e.raw)
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*f = flexTime{}
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = flexTime{}
			return nil
		}
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				*f = flexTime{Time: t.UTC(), Valid: true}
				return nil
			}
		}
		return &flexTimeError{raw: raw}
	}
	var ms float64
	if err := json.Unmarshal(b, &ms); err != nil {
		return &flexTimeError{raw: raw}
	}
	*f = flexTime{Time: time.UnixMilli(int64(ms)).UTC(), Valid: true}
	return nil
}

func (f flexTime) ptr() *time.Time {
	if !f.Valid {
		return nil
	}
	t := f.Time
	return &t
}
