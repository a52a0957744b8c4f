package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/msomdec/shoplist/internal/domain"
)

const maxListNameLength = 100

// ListService manages shopping lists and keeps each list's item references
// consistent with the items themselves.
type ListService struct {
	store domain.DataStore
}

// NewListService creates a new ListService.
func NewListService(store domain.DataStore) *ListService {
	return &ListService{store: store}
}

// Create adds an empty list for the user.
func (s *ListService) Create(ctx context.Context, userID, name string) (*domain.ShoppingList, error) {
	name, err := listName(name)
	if err != nil {
		return nil, err
	}

	list := &domain.ShoppingList{
		ID:      uuid.NewString(),
		UserID:  userID,
		Name:    name,
		ItemIDs: []string{},
		Items:   []domain.Item{},
	}
	if err := s.store.Lists().Create(ctx, list); err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	return list, nil
}

// ListForUser returns the user's lists, most recently updated first, with
// their items resolved in list order.
func (s *ListService) ListForUser(ctx context.Context, userID string) ([]domain.ShoppingList, error) {
	lists, err := s.store.Lists().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		if err := s.populate(ctx, s.store, &lists[i]); err != nil {
			return nil, err
		}
	}
	return lists, nil
}

// Get returns one of the user's lists with its items resolved.
func (s *ListService) Get(ctx context.Context, userID, listID string) (*domain.ShoppingList, error) {
	listID, err := parseID("list", listID)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, s.store, userID, listID)
}

// Rename changes the display name of one of the user's lists.
func (s *ListService) Rename(ctx context.Context, userID, listID, name string) (*domain.ShoppingList, error) {
	listID, err := parseID("list", listID)
	if err != nil {
		return nil, err
	}
	name, err = listName(name)
	if err != nil {
		return nil, err
	}

	if err := s.store.Lists().Rename(ctx, userID, listID, name); err != nil {
		return nil, err
	}
	return s.get(ctx, s.store, userID, listID)
}

// Delete removes the list and every item it references in one transaction.
func (s *ListService) Delete(ctx context.Context, userID, listID string) error {
	listID, err := parseID("list", listID)
	if err != nil {
		return err
	}

	return runUnit(ctx, s.store, "list.delete", func(ctx context.Context, st domain.Store) error {
		if _, err := st.Lists().Get(ctx, userID, listID); err != nil {
			return err
		}
		ids, err := st.Items().FindIDs(ctx, userID, domain.ItemFilter{ListID: listID})
		if err != nil {
			return err
		}
		if _, err := st.Items().DeleteByIDs(ctx, userID, ids); err != nil {
			return err
		}
		return st.Lists().Delete(ctx, userID, listID)
	})
}

// AddItem creates an item and appends it to the list. The item, its
// category and the list reference are written together.
func (s *ListService) AddItem(ctx context.Context, userID, listID string, in domain.ItemInput) (*domain.Item, error) {
	listID, err := parseID("list", listID)
	if err != nil {
		return nil, err
	}
	item, err := newItem(userID, in)
	if err != nil {
		return nil, err
	}

	err = runUnit(ctx, s.store, "list.add_item", func(ctx context.Context, st domain.Store) error {
		if _, err := st.Lists().Get(ctx, userID, listID); err != nil {
			return err
		}
		if err := st.Items().Create(ctx, item); err != nil {
			return err
		}
		if err := EnsureCustomCategories(ctx, st, userID, item.Category); err != nil {
			return err
		}
		if err := st.Lists().AppendItems(ctx, listID, item.ID); err != nil {
			return err
		}
		return st.Lists().Touch(ctx, listID)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem patches an item reached through a list route. Authorization is
// decided by the item's own owner; the list id only has to be well formed.
func (s *ListService) UpdateItem(ctx context.Context, userID, listID, itemID string, patch domain.ItemPatch) (*domain.Item, error) {
	if _, err := parseID("list", listID); err != nil {
		return nil, err
	}
	return NewItemService(s.store).Update(ctx, userID, itemID, patch)
}

// RemoveItem deletes an item that the list references and drops the
// reference with it.
func (s *ListService) RemoveItem(ctx context.Context, userID, listID, itemID string) error {
	listID, err := parseID("list", listID)
	if err != nil {
		return err
	}
	itemID, err = parseID("item", itemID)
	if err != nil {
		return err
	}

	return runUnit(ctx, s.store, "list.remove_item", func(ctx context.Context, st domain.Store) error {
		list, err := st.Lists().Get(ctx, userID, listID)
		if err != nil {
			return err
		}
		if !slices.Contains(list.ItemIDs, itemID) {
			return fmt.Errorf("%w: item is not in this list", domain.ErrNotFound)
		}
		if err := st.Lists().RemoveItems(ctx, listID, itemID); err != nil {
			return err
		}
		if err := st.Items().Delete(ctx, userID, itemID); err != nil {
			return err
		}
		return st.Lists().Touch(ctx, listID)
	})
}

// DeleteItemsInCategory deletes the list's items in category and pulls their
// references.
func (s *ListService) DeleteItemsInCategory(ctx context.Context, userID, listID, category string) (int64, error) {
	c := domain.ParseCategory(category)
	if c.Name == "" {
		return 0, fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}
	return s.deleteMatching(ctx, userID, listID, "list.delete_category", domain.ItemFilter{Category: c.Name})
}

// DeleteCompletedItems deletes the list's completed items and pulls their
// references.
func (s *ListService) DeleteCompletedItems(ctx context.Context, userID, listID string) (int64, error) {
	return s.deleteMatching(ctx, userID, listID, "list.delete_completed", domain.ItemFilter{Completed: true})
}

func (s *ListService) deleteMatching(ctx context.Context, userID, listID, operation string, filter domain.ItemFilter) (int64, error) {
	listID, err := parseID("list", listID)
	if err != nil {
		return 0, err
	}
	filter.ListID = listID

	var deleted int64
	err = runUnit(ctx, s.store, operation, func(ctx context.Context, st domain.Store) error {
		if _, err := st.Lists().Get(ctx, userID, listID); err != nil {
			return err
		}
		ids, err := st.Items().FindIDs(ctx, userID, filter)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := st.Lists().RemoveItems(ctx, listID, ids...); err != nil {
			return err
		}
		if deleted, err = st.Items().DeleteByIDs(ctx, userID, ids); err != nil {
			return err
		}
		return st.Lists().Touch(ctx, listID)
	})
	return deleted, err
}

func (s *ListService) get(ctx context.Context, st domain.Store, userID, listID string) (*domain.ShoppingList, error) {
	list, err := st.Lists().Get(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	if err := s.populate(ctx, st, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *ListService) populate(ctx context.Context, st domain.Store, list *domain.ShoppingList) error {
	items, err := st.Items().ListByList(ctx, list.ID)
	if err != nil {
		return fmt.Errorf("populate list %s: %w", list.ID, err)
	}
	if items == nil {
		items = []domain.Item{}
	}
	list.Items = items
	return nil
}

func listName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: list name is required", domain.ErrInvalidInput)
	}
	if len(name) > maxListNameLength {
		return "", fmt.Errorf("%w: list name must be %d characters or fewer", domain.ErrInvalidInput, maxListNameLength)
	}
	return name, nil
}
