package domain

import (
	"context"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

const (
	DefaultQuantity = 1
	DefaultAmount   = 1.0
	DefaultUnits    = "pcs"
)

// Item is a single shopping item. UserID is the item's own owner and is the
// only field consulted when authorizing writes to the item.
type Item struct {
	ID        string
	UserID    string
	Name      string
	Category  string
	Quantity  int
	Amount    float64
	Units     string
	Image     string // data URI or external URL
	Completed bool
	Priority  Priority
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemInput carries the fields of a new item. Nil pointers select defaults.
type ItemInput struct {
	Name      string
	Category  string
	Quantity  *int
	Amount    *float64
	Units     *string
	Image     string
	Completed *bool
	Priority  Priority
	Notes     string
}

// ItemPatch is a partial update. Each field distinguishes absent, explicit
// null and explicit value.
type ItemPatch struct {
	Name      Optional[string]
	Category  Optional[string]
	Quantity  Optional[int]
	Amount    Optional[float64]
	Units     Optional[string]
	Image     Optional[string]
	Completed Optional[bool]
	Priority  Optional[Priority]
	Notes     Optional[string]
}

// ItemFilter selects items for bulk deletes. Zero values match everything.
type ItemFilter struct {
	ListID    string // restrict to items referenced by this list
	Category  string
	Completed bool // only completed items
}

type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	Get(ctx context.Context, userID, id string) (*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, userID, id string) error
	ListByUser(ctx context.Context, userID string) ([]Item, error)
	// ListByList returns the items referenced by a list in reference order.
	ListByList(ctx context.Context, listID string) ([]Item, error)
	// FindIDs returns the ids of the user's items matching filter.
	FindIDs(ctx context.Context, userID string, filter ItemFilter) ([]string, error)
	// DeleteByIDs removes the user's items with the given ids and returns how
	// many rows were deleted.
	DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error)
}
