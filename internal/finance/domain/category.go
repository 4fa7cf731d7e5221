package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrBlankCategoryName     = errors.New("category name must not be blank")
	ErrDuplicateCategoryName = errors.New("category name already exists")
	ErrCategoryNotFound      = errors.New("category not found")
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategorySet is the user's category list, kept in stored order. The last
// entry doubles as the fallback bucket for expenses whose category no
// longer matches any entry.
type CategorySet []Category

var defaultCategoryNames = []string{
	"Food",
	"Housing",
	"Transport",
	"Health",
	"Entertainment and Hobbies",
	"Personal Care",
	"Education",
	"Travel",
	"Family and Kids",
	"Other",
}

func DefaultCategories() CategorySet {
	categories := make(CategorySet, 0, len(defaultCategoryNames))
	for _, name := range defaultCategoryNames {
		categories = append(categories, Category{ID: uuid.NewString(), Name: name})
	}
	return categories
}

// Add appends a new category. Names are trimmed, blank names and
// case-insensitive duplicates are rejected.
func (s CategorySet) Add(name string) (CategorySet, Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return s, Category{}, ErrBlankCategoryName
	}
	for _, category := range s {
		if strings.EqualFold(category.Name, trimmed) {
			return s, Category{}, ErrDuplicateCategoryName
		}
	}
	newCategory := Category{ID: uuid.NewString(), Name: trimmed}
	return append(s, newCategory), newCategory, nil
}

// Remove drops the category with the given id. Expenses already tagged
// with the removed name are not touched, the fallback bucket absorbs them.
func (s CategorySet) Remove(id string) (CategorySet, error) {
	for i, category := range s {
		if category.ID == id {
			out := make(CategorySet, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...), nil
		}
	}
	return s, ErrCategoryNotFound
}

func (s CategorySet) ContainsName(name string) bool {
	for _, category := range s {
		if strings.EqualFold(category.Name, name) {
			return true
		}
	}
	return false
}

// Fallback returns the last configured category.
func (s CategorySet) Fallback() (Category, bool) {
	if len(s) == 0 {
		return Category{}, false
	}
	return s[len(s)-1], true
}
