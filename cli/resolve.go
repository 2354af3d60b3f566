package cli

import (
	"fmt"
	"strings"
	"time"

	"taskboard/app"
	"taskboard/model"
)

// noCategoryArg selects uncategorized tasks wherever a category is expected.
const noCategoryArg = "none"

// resolveTaskID accepts a full task id or a unique prefix of one.
func resolveTaskID(svc *app.Service, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", app.ErrTaskNotFound
	}
	var matches []string
	for _, t := range svc.Tasks() {
		if t.ID == arg {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", app.ErrTaskNotFound
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task id %q is ambiguous (%d matches)", arg, len(matches))
	}
}

func resolveTaskIDs(svc *app.Service, args []string) ([]string, error) {
	ids := make([]string, 0, len(args))
	for _, arg := range args {
		id, err := resolveTaskID(svc, arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// resolveCategoryID accepts an id, an id prefix or a case-insensitive name.
// "none" resolves to model.NoCategory.
func resolveCategoryID(svc *app.Service, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if strings.EqualFold(arg, noCategoryArg) {
		return model.NoCategory, nil
	}
	var byPrefix []string
	for _, c := range svc.Categories() {
		if c.ID == arg || strings.EqualFold(c.Name, arg) {
			return c.ID, nil
		}
		if arg != "" && strings.HasPrefix(c.ID, arg) {
			byPrefix = append(byPrefix, c.ID)
		}
	}
	if len(byPrefix) == 1 {
		return byPrefix[0], nil
	}
	return "", app.ErrCategoryNotFound
}

func parsePriority(arg string) (model.Priority, error) {
	p, ok := model.ParsePriority(arg)
	if !ok {
		return "", app.ErrInvalidPriority
	}
	return p, nil
}

var dueLayouts = []string{"2006-01-02", "2006-01-02 15:04", time.RFC3339}

// parseDue reads a date in loc. "today" and "tomorrow" are accepted.
func parseDue(arg string, now time.Time, loc *time.Location) (time.Time, error) {
	arg = strings.TrimSpace(arg)
	now = now.In(loc)
	switch strings.ToLower(arg) {
	case "today":
		return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, loc), nil
	case "tomorrow":
		return time.Date(now.Year(), now.Month(), now.Day()+1, 23, 59, 0, 0, loc), nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, arg, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", arg)
}

func parseFilter(arg string) (model.Filter, error) {
	f := model.Filter(strings.ToUpper(strings.TrimSpace(arg)))
	if !f.Valid() {
		return "", app.ErrInvalidFilter
	}
	return f, nil
}

var sortAliases = map[string]model.SortField{
	"created":  model.SortDateCreated,
	"date":     model.SortDateCreated,
	"priority": model.SortPriority,
	"title":    model.SortTitle,
	"due":      model.SortDueDate,
}

func parseSortField(arg string) (model.SortField, error) {
	arg = strings.TrimSpace(arg)
	if f, ok := sortAliases[strings.ToLower(arg)]; ok {
		return f, nil
	}
	f := model.SortField(strings.ToUpper(arg))
	if !f.Valid() {
		return "", app.ErrInvalidSortField
	}
	return f, nil
}

func parseSortDirection(arg string) (model.SortDirection, error) {
	d := model.SortDirection(strings.ToUpper(strings.TrimSpace(arg)))
	if !d.Valid() {
		return "", app.ErrInvalidSortDirection
	}
	return d, nil
}
