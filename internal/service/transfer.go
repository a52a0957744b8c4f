package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/msomdec/shoplist/internal/domain"
)

// DefaultMaxImportItems bounds a single import batch when no limit is configured.
const DefaultMaxImportItems = 500

// TransferService moves items into and out of a list in bulk.
type TransferService struct {
	store    domain.DataStore
	lists    *ListService
	maxItems int
}

// NewTransferService creates a new TransferService. A non-positive maxItems
// selects DefaultMaxImportItems.
func NewTransferService(store domain.DataStore, maxItems int) *TransferService {
	if maxItems <= 0 {
		maxItems = DefaultMaxImportItems
	}
	return &TransferService{store: store, lists: NewListService(store), maxItems: maxItems}
}

// Export returns the resolved items of one of the user's lists in list order.
func (s *TransferService) Export(ctx context.Context, userID, listID string) ([]domain.Item, error) {
	list, err := s.lists.Get(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// Import materializes every record as a new item with a fresh id and
// appends them all to the list. Ids carried by the records are never used.
func (s *TransferService) Import(ctx context.Context, userID, listID string, records []domain.ItemInput) ([]domain.Item, error) {
	listID, err := parseID("list", listID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		return nil, fmt.Errorf("%w: items must be an array", domain.ErrInvalidInput)
	}
	if len(records) > s.maxItems {
		return nil, fmt.Errorf("%w: cannot import more than %d items at once", domain.ErrInvalidInput, s.maxItems)
	}

	items := make([]domain.Item, 0, len(records))
	ids := make([]string, 0, len(records))
	categories := make([]string, 0, len(records))
	for i, rec := range records {
		item, err := newItem(userID, rec)
		if err != nil {
			return nil, recordError(i, err)
		}
		items = append(items, *item)
		ids = append(ids, item.ID)
		categories = append(categories, item.Category)
	}

	err = runUnit(ctx, s.store, "transfer.import", func(ctx context.Context, st domain.Store) error {
		if _, err := st.Lists().Get(ctx, userID, listID); err != nil {
			return err
		}
		for i := range items {
			if err := st.Items().Create(ctx, &items[i]); err != nil {
				return err
			}
		}
		if err := EnsureCustomCategories(ctx, st, userID, categories...); err != nil {
			return err
		}
		if err := st.Lists().AppendItems(ctx, listID, ids...); err != nil {
			return err
		}
		return st.Lists().Touch(ctx, listID)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// recordError names the failing record while keeping the sentinel at the front
// of the message.
func recordError(i int, err error) error {
	if !errors.Is(err, domain.ErrInvalidInput) {
		return fmt.Errorf("item %d: %w", i, err)
	}
	msg := strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": ")
	return fmt.Errorf("%w: item %d: %s", domain.ErrInvalidInput, i, msg)
}
