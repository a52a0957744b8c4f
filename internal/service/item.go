package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/msomdec/shoplist/internal/domain"
)

const (
	maxItemNameLength = 200
	maxCategoryLength = 100
	maxUnitsLength    = 32
	maxNotesLength    = 2000
	maxImageLength    = 2 << 20
)

// ItemService handles CRUD on individual items. Every write is authorized
// against the item's own owner, never through a list.
type ItemService struct {
	store domain.DataStore
}

// NewItemService creates a new ItemService.
func NewItemService(store domain.DataStore) *ItemService {
	return &ItemService{store: store}
}

// Create adds a standalone item for the user and registers its category.
func (s *ItemService) Create(ctx context.Context, userID string, in domain.ItemInput) (*domain.Item, error) {
	item, err := newItem(userID, in)
	if err != nil {
		return nil, err
	}

	err = runUnit(ctx, s.store, "item.create", func(ctx context.Context, st domain.Store) error {
		if err := st.Items().Create(ctx, item); err != nil {
			return err
		}
		return EnsureCustomCategories(ctx, st, userID, item.Category)
	})
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

// Update applies patch to the user's item. Absent fields are left untouched;
// explicit zero values are written.
func (s *ItemService) Update(ctx context.Context, userID, itemID string, patch domain.ItemPatch) (*domain.Item, error) {
	itemID, err := parseID("item", itemID)
	if err != nil {
		return nil, err
	}

	var item *domain.Item
	err = runUnit(ctx, s.store, "item.update", func(ctx context.Context, st domain.Store) error {
		current, err := st.Items().Get(ctx, userID, itemID)
		if err != nil {
			return err
		}
		categoryChanged, err := applyPatch(current, patch)
		if err != nil {
			return err
		}
		if err := st.Items().Update(ctx, current); err != nil {
			return err
		}
		if categoryChanged {
			if err := EnsureCustomCategories(ctx, st, userID, current.Category); err != nil {
				return err
			}
		}
		item = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the user's item. List references to it go with it.
func (s *ItemService) Delete(ctx context.Context, userID, itemID string) error {
	itemID, err := parseID("item", itemID)
	if err != nil {
		return err
	}
	return runUnit(ctx, s.store, "item.delete", func(ctx context.Context, st domain.Store) error {
		return st.Items().Delete(ctx, userID, itemID)
	})
}

// ListForUser returns all of the user's items, most recently updated first.
func (s *ItemService) ListForUser(ctx context.Context, userID string) ([]domain.Item, error) {
	return s.store.Items().ListByUser(ctx, userID)
}

// DeleteCompleted removes every completed item the user owns.
func (s *ItemService) DeleteCompleted(ctx context.Context, userID string) (int64, error) {
	return s.deleteMatching(ctx, userID, "item.delete_completed", domain.ItemFilter{Completed: true})
}

// DeleteByCategory removes every item of the user in category.
func (s *ItemService) DeleteByCategory(ctx context.Context, userID, category string) (int64, error) {
	c := domain.ParseCategory(category)
	if c.Name == "" {
		return 0, fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}
	return s.deleteMatching(ctx, userID, "item.delete_category", domain.ItemFilter{Category: c.Name})
}

func (s *ItemService) deleteMatching(ctx context.Context, userID, operation string, filter domain.ItemFilter) (int64, error) {
	var deleted int64
	err := runUnit(ctx, s.store, operation, func(ctx context.Context, st domain.Store) error {
		ids, err := st.Items().FindIDs(ctx, userID, filter)
		if err != nil {
			return err
		}
		deleted, err = st.Items().DeleteByIDs(ctx, userID, ids)
		return err
	})
	return deleted, err
}

// newItem validates input and builds a fresh item with defaults applied.
func newItem(userID string, in domain.ItemInput) (*domain.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: item name is required", domain.ErrInvalidInput)
	}
	category := domain.ParseCategory(in.Category)
	if category.Name == "" {
		return nil, fmt.Errorf("%w: item category is required", domain.ErrInvalidInput)
	}

	item := &domain.Item{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     name,
		Category: category.Name,
		Quantity: domain.DefaultQuantity,
		Amount:   domain.DefaultAmount,
		Units:    domain.DefaultUnits,
		Image:    in.Image,
		Priority: domain.PriorityMedium,
		Notes:    in.Notes,
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.Amount != nil {
		item.Amount = *in.Amount
	}
	if in.Units != nil && strings.TrimSpace(*in.Units) != "" {
		item.Units = strings.TrimSpace(*in.Units)
	}
	if in.Completed != nil {
		item.Completed = *in.Completed
	}
	if in.Priority != "" {
		item.Priority = in.Priority
	}

	if err := checkItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// applyPatch merges patch into item and reports whether the category changed.
// Explicit null clears image and notes; it is rejected for every other field.
func applyPatch(item *domain.Item, p domain.ItemPatch) (bool, error) {
	if p.Name.Set {
		name := strings.TrimSpace(p.Name.Value)
		if p.Name.Null || name == "" {
			return false, fmt.Errorf("%w: item name cannot be empty", domain.ErrInvalidInput)
		}
		item.Name = name
	}

	categoryChanged := false
	if p.Category.Set {
		c := domain.ParseCategory(p.Category.Value)
		if p.Category.Null || c.Name == "" {
			return false, fmt.Errorf("%w: item category cannot be empty", domain.ErrInvalidInput)
		}
		categoryChanged = c.Name != item.Category
		item.Category = c.Name
	}

	if p.Quantity.Set {
		if p.Quantity.Null {
			return false, fmt.Errorf("%w: quantity cannot be null", domain.ErrInvalidInput)
		}
		item.Quantity = p.Quantity.Value
	}
	if p.Amount.Set {
		if p.Amount.Null {
			return false, fmt.Errorf("%w: amount cannot be null", domain.ErrInvalidInput)
		}
		item.Amount = p.Amount.Value
	}
	if p.Units.Set {
		units := strings.TrimSpace(p.Units.Value)
		if p.Units.Null || units == "" {
			return false, fmt.Errorf("%w: units cannot be empty", domain.ErrInvalidInput)
		}
		item.Units = units
	}
	if p.Completed.Set {
		if p.Completed.Null {
			return false, fmt.Errorf("%w: completed cannot be null", domain.ErrInvalidInput)
		}
		item.Completed = p.Completed.Value
	}
	if p.Priority.Set {
		if p.Priority.Null {
			return false, fmt.Errorf("%w: priority cannot be null", domain.ErrInvalidInput)
		}
		item.Priority = p.Priority.Value
	}
	if p.Image.Set {
		item.Image = p.Image.Value
	}
	if p.Notes.Set {
		item.Notes = p.Notes.Value
	}

	return categoryChanged, checkItem(item)
}

func checkItem(item *domain.Item) error {
	switch {
	case len(item.Name) > maxItemNameLength:
		return fmt.Errorf("%w: item name must be %d characters or fewer", domain.ErrInvalidInput, maxItemNameLength)
	case len(item.Category) > maxCategoryLength:
		return fmt.Errorf("%w: category must be %d characters or fewer", domain.ErrInvalidInput, maxCategoryLength)
	case len(item.Units) > maxUnitsLength:
		return fmt.Errorf("%w: units must be %d characters or fewer", domain.ErrInvalidInput, maxUnitsLength)
	case len(item.Notes) > maxNotesLength:
		return fmt.Errorf("%w: notes must be %d characters or fewer", domain.ErrInvalidInput, maxNotesLength)
	case len(item.Image) > maxImageLength:
		return fmt.Errorf("%w: image is too large", domain.ErrInvalidInput)
	case item.Quantity < 0:
		return fmt.Errorf("%w: quantity cannot be negative", domain.ErrInvalidInput)
	case item.Amount < 0:
		return fmt.Errorf("%w: amount cannot be negative", domain.ErrInvalidInput)
	case !item.Priority.Valid():
		return fmt.Errorf("%w: priority must be Low, Medium, or High", domain.ErrInvalidInput)
	}
	return nil
}
