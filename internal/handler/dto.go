package handler

import (
	"time"

	"github.com/msomdec/shoplist/internal/domain"
	"github.com/msomdec/shoplist/internal/service"
)

// UserDTO is the public JSON representation of a user. It never carries the
// password hash or the stored API key.
type UserDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// ItemDTO is the JSON representation of an item.
type ItemDTO struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	Amount    float64 `json:"amount"`
	Units     string  `json:"units"`
	Image     string  `json:"image,omitempty"`
	Completed bool    `json:"completed"`
	Priority  string  `json:"priority"`
	Notes     string  `json:"notes"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toItemDTO(i *domain.Item) ItemDTO {
	return ItemDTO{
		ID:        i.ID,
		UserID:    i.UserID,
		Name:      i.Name,
		Category:  i.Category,
		Quantity:  i.Quantity,
		Amount:    i.Amount,
		Units:     i.Units,
		Image:     i.Image,
		Completed: i.Completed,
		Priority:  string(i.Priority),
		Notes:     i.Notes,
		CreatedAt: i.CreatedAt.Format(time.RFC3339),
		UpdatedAt: i.UpdatedAt.Format(time.RFC3339),
	}
}

func toItemDTOs(items []domain.Item) []ItemDTO {
	dtos := make([]ItemDTO, len(items))
	for i := range items {
		dtos[i] = toItemDTO(&items[i])
	}
	return dtos
}

// ListDTO is the JSON representation of a shopping list with its items resolved.
type ListDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Items     []ItemDTO `json:"items"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

func toListDTO(l *domain.ShoppingList) ListDTO {
	return ListDTO{
		ID:        l.ID,
		UserID:    l.UserID,
		Name:      l.Name,
		Items:     toItemDTOs(l.Items),
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
		UpdatedAt: l.UpdatedAt.Format(time.RFC3339),
	}
}

func toListDTOs(lists []domain.ShoppingList) []ListDTO {
	dtos := make([]ListDTO, len(lists))
	for i := range lists {
		dtos[i] = toListDTO(&lists[i])
	}
	return dtos
}

// ProfileDTO is the signed-in user's own account view.
type ProfileDTO struct {
	User             UserDTO  `json:"user"`
	CustomCategories []string `json:"customCategories"`
	HasAPIKey        bool     `json:"hasApiKey"`
}

func toProfileDTO(p *service.Profile) ProfileDTO {
	return ProfileDTO{
		User:             toUserDTO(p.User),
		CustomCategories: p.CustomCategories,
		HasAPIKey:        p.HasAPIKey,
	}
}

// itemRequest is the body of an item create or import record. Any id the
// client sends is ignored.
type itemRequest struct {
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  *int            `json:"quantity"`
	Amount    *float64        `json:"amount"`
	Units     *string         `json:"units"`
	Image     string          `json:"image"`
	Completed *bool           `json:"completed"`
	Priority  domain.Priority `json:"priority"`
	Notes     string          `json:"notes"`
}

func (req itemRequest) input() domain.ItemInput {
	return domain.ItemInput{
		Name:      req.Name,
		Category:  req.Category,
		Quantity:  req.Quantity,
		Amount:    req.Amount,
		Units:     req.Units,
		Image:     req.Image,
		Completed: req.Completed,
		Priority:  req.Priority,
		Notes:     req.Notes,
	}
}

func itemInputs(reqs []itemRequest) []domain.ItemInput {
	if reqs == nil {
		return nil
	}
	out := make([]domain.ItemInput, len(reqs))
	for i, req := range reqs {
		out[i] = req.input()
	}
	return out
}

// itemPatchRequest is the body of an item update. Absent keys leave the
// field untouched.
type itemPatchRequest struct {
	Name      domain.Optional[string]          `json:"name"`
	Category  domain.Optional[string]          `json:"category"`
	Quantity  domain.Optional[int]             `json:"quantity"`
	Amount    domain.Optional[float64]         `json:"amount"`
	Units     domain.Optional[string]          `json:"units"`
	Image     domain.Optional[string]          `json:"image"`
	Completed domain.Optional[bool]            `json:"completed"`
	Priority  domain.Optional[domain.Priority] `json:"priority"`
	Notes     domain.Optional[string]          `json:"notes"`
}

func (req itemPatchRequest) patch() domain.ItemPatch {
	return domain.ItemPatch{
		Name:      req.Name,
		Category:  req.Category,
		Quantity:  req.Quantity,
		Amount:    req.Amount,
		Units:     req.Units,
		Image:     req.Image,
		Completed: req.Completed,
		Priority:  req.Priority,
		Notes:     req.Notes,
	}
}
