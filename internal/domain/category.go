package domain

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// StandardCategories is the fixed category vocabulary. Anything else a user
// types becomes a custom category.
var StandardCategories = []string{
	"Produce",
	"Dairy",
	"Fridge",
	"Freezer",
	"Bakery",
	"Pantry",
	"Disposable",
	"Hygiene",
	"Canned Goods",
	"Organics",
	"Deli",
	"Other",
}

// Category is either one of StandardCategories or a user-defined name.
type Category struct {
	Name     string
	Standard bool
}

// ParseCategory normalizes raw input. Standard names match case-insensitively
// and come back in their canonical spelling; custom names are trimmed and
// NFC-normalized. An empty result means no category was given.
func ParseCategory(raw string) Category {
	name := norm.NFC.String(strings.TrimSpace(raw))
	for _, std := range StandardCategories {
		if strings.EqualFold(name, std) {
			return Category{Name: std, Standard: true}
		}
	}
	return Category{Name: name}
}

// IsCustom reports whether c should be recorded in the user's custom set.
func (c Category) IsCustom() bool {
	return c.Name != "" && !c.Standard
}

// CategoryRepository persists the per-user set of custom category names.
type CategoryRepository interface {
	// Add inserts name into the user's set. It reports false when the name was
	// already present.
	Add(ctx context.Context, userID, name string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]string, error)
}
