package domain

import (
	"context"
	"time"
)

// DefaultListName is the name of the list created for every new user.
const DefaultListName = "Shopping List"

// ShoppingList is a named, ordered collection of item references owned by a
// user. Items are resolved from the references at read time.
type ShoppingList struct {
	ID        string
	UserID    string
	Name      string
	ItemIDs   []string
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListRepository handles shopping list persistence and the list's item
// reference collection. Every lookup is scoped by the owning user.
type ListRepository interface {
	Create(ctx context.Context, list *ShoppingList) error
	Get(ctx context.Context, userID, id string) (*ShoppingList, error)
	ListByUser(ctx context.Context, userID string) ([]ShoppingList, error)
	Rename(ctx context.Context, userID, id, name string) error
	Delete(ctx context.Context, userID, id string) error
	// Touch bumps updated_at after the reference collection changed.
	Touch(ctx context.Context, id string) error
	// AppendItems adds references at the end of the list, keeping the given order.
	AppendItems(ctx context.Context, listID string, itemIDs ...string) error
	// RemoveItems deletes exactly the given references and nothing else.
	RemoveItems(ctx context.Context, listID string, itemIDs ...string) error
	ItemIDs(ctx context.Context, listID string) ([]string, error)
}
