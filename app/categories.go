package app

import (
	"strings"

	"taskboard/model"
)

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#6b7280"

type CategoryInput struct {
	Name  string
	Color string
}

// CategoryPatch is a partial category edit; nil fields are left untouched.
type CategoryPatch struct {
	Name  *string
	Color *string
}

// Categories returns all categories in creation order.
func (s *Service) Categories() []model.Category {
	out := make([]model.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Service) GetCategory(id string) (model.Category, error) {
	idx := s.indexOfCategory(id)
	if idx < 0 {
		return model.Category{}, ErrCategoryNotFound
	}
	return s.categories[idx], nil
}

func (s *Service) AddCategory(in CategoryInput) (model.Category, error) {
	name, err := ValidateCategoryName(in.Name)
	if err != nil {
		return model.Category{}, err
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = DefaultCategoryColor
	}
	now := s.tick()
	c := model.Category{
		ID:        s.newID(),
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.pushUndo()
	s.categories = append(s.categories, c)
	s.commit()
	return c, nil
}

func (s *Service) UpdateCategory(id string, patch CategoryPatch) (model.Category, error) {
	idx := s.indexOfCategory(id)
	if idx < 0 {
		return model.Category{}, ErrCategoryNotFound
	}
	var name string
	if patch.Name != nil {
		n, err := ValidateCategoryName(*patch.Name)
		if err != nil {
			return model.Category{}, err
		}
		name = n
	}
	s.pushUndo()
	c := &s.categories[idx]
	if patch.Name != nil {
		c.Name = name
	}
	if patch.Color != nil {
		if color := strings.TrimSpace(*patch.Color); color != "" {
			c.Color = color
		}
	}
	c.UpdatedAt = s.tick()
	s.commit()
	return *c, nil
}

// DeleteCategory removes a category and drops it from the category filters.
// Tasks that reference it keep their categoryId; callers that want them
// uncategorized clear it explicitly (see BulkChangeCategory).
func (s *Service) DeleteCategory(id string) bool {
	idx := s.indexOfCategory(id)
	if idx < 0 {
		return false
	}
	s.pushUndo()
	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)
	s.query.CategoryFilters = removeString(s.query.CategoryFilters, id)
	s.commit()
	return true
}

func (s *Service) indexOfCategory(id string) int {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return i
		}
	}
	return -1
}
