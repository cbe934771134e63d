package engine

import (
	"fmt"
	"strings"
)

// Category is one of the five fixed life areas a task belongs to.
// The set is closed and never extended at runtime.
type Category string

const (
	CategoryIntelligence  Category = "Intelligence"
	CategoryPhysical      Category = "Physical"
	CategorySocial        Category = "Social"
	CategoryDiscipline    Category = "Discipline"
	CategoryDetermination Category = "Determination"
)

// Categories lists all five categories in display order.
var Categories = []Category{
	CategoryIntelligence,
	CategoryPhysical,
	CategorySocial,
	CategoryDiscipline,
	CategoryDetermination,
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryIntelligence, CategoryPhysical, CategorySocial,
		CategoryDiscipline, CategoryDetermination:
		return true
	default:
		return false
	}
}

func ParseCategory(input string) (Category, error) {
	s := strings.TrimSpace(input)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", ValidationError{Field: "category", Message: fmt.Sprintf("invalid category: %q", input)}
}
