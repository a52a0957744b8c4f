package service

import (
	"context"
	"fmt"

	"github.com/msomdec/shoplist/internal/domain"
)

// CategoryService tracks each user's custom category names.
type CategoryService struct {
	store domain.Store
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(store domain.Store) *CategoryService {
	return &CategoryService{store: store}
}

// EnsureCustomCategory records name in the user's custom set unless it is
// empty, standard, or already present.
func (s *CategoryService) EnsureCustomCategory(ctx context.Context, userID, name string) error {
	return EnsureCustomCategories(ctx, s.store, userID, name)
}

// ListCustom returns the user's custom category names.
func (s *CategoryService) ListCustom(ctx context.Context, userID string) ([]string, error) {
	return s.store.Categories().ListByUser(ctx, userID)
}

// EnsureCustomCategories registers every distinct custom name once. It runs on
// whatever store it is given, so callers inside a transaction pass the
// transactional store.
func EnsureCustomCategories(ctx context.Context, store domain.Store, userID string, names ...string) error {
	seen := make(map[string]bool, len(names))
	for _, raw := range names {
		c := domain.ParseCategory(raw)
		if !c.IsCustom() || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		if _, err := store.Categories().Add(ctx, userID, c.Name); err != nil {
			return fmt.Errorf("register category %q: %w", c.Name, err)
		}
	}
	return nil
}
