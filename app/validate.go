package app

import (
	"strings"
	"time"
	"unicode/utf8"

	"taskboard/model"
)

const (
	MaxTitleLength        = 100
	MaxDescriptionLength  = 500
	MaxTagLength          = 30
	MaxTagsPerTask        = 10
	MaxCategoryNameLength = 50
)

// ValidateTaskFields checks only the fields that are present (non-nil), so it
// serves both creation and partial edits.
func ValidateTaskFields(title, description *string) error {
	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return ErrTitleRequired
		}
		if utf8.RuneCountInString(t) > MaxTitleLength {
			return ErrTitleTooLong
		}
	}
	if description != nil && utf8.RuneCountInString(*description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// ValidateDueDate rejects dates whose calendar day precedes today's in loc.
// Time of day is ignored.
func ValidateDueDate(date, now time.Time, loc *time.Location) error {
	if startOfDay(date, loc).Before(startOfDay(now, loc)) {
		return ErrDueDateInPast
	}
	return nil
}

// ValidateTagName checks the trimmed tag and returns its normalized form.
func ValidateTagName(tag string) (string, error) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return "", ErrTagEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxTagLength {
		return "", ErrTagTooLong
	}
	return model.NormalizeTag(trimmed), nil
}

// ValidateTagCount fails when one more tag would exceed the per-task limit.
func ValidateTagCount(existing int) error {
	if existing+1 > MaxTagsPerTask {
		return ErrTooManyTags
	}
	return nil
}

// ValidateCategoryName returns the trimmed name.
func ValidateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrCategoryNameRequired
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return "", ErrCategoryNameTooLong
	}
	return name, nil
}

// normalizeTags validates and normalizes a full tag list, dropping duplicates
// while keeping first-occurrence order.
func normalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		tag, err := ValidateTagName(raw)
		if err != nil {
			return nil, err
		}
		if containsString(out, tag) {
			continue
		}
		if err := ValidateTagCount(len(out)); err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func containsString(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
