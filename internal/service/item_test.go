package service_test

import (
	"context"
	"testing"

	"github.com/msomdec/shoplist/internal/domain"
	"github.com/msomdec/shoplist/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestItemService_CreateAppliesDefaults(t *testing.T) {
	auth, db := newTestAuthService(t)
	items := service.NewItemService(db)
	ctx := context.Background()
	alice := registerUser(t, auth, "alice")

	item, err := items.Create(ctx, alice.ID, domain.ItemInput{Name: "  Milk ", Category: "dairy"})
	require.NoError(t, err)
	assert.Equal(t, "Milk", item.Name)
	assert.Equal(t, "Dairy", item.Category)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, 1.0, item.Amount)
	assert.Equal(t, "pcs", item.Units)
	assert.Equal(t, domain.PriorityMedium, item.Priority)
	assert.False(t, item.Completed)
	assert.Equal(t, alice.ID, item.UserID)

	custom, err := db.Categories().ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, custom, "standard categories are not recorded")
}

func TestItemService_CreateValidation(t *testing.T) {
	auth, db := newTestAuthService(t)
	items := service.NewItemService(db)
	ctx := context.Background()
	alice := registerUser(t, auth, "alice")

	tests := map[string]domain.ItemInput{
		"missing name":      {Category: "Dairy"},
		"missing category":  {Name: "Milk", Category: "  "},
		"negative quantity": {Name: "Milk", Category: "Dairy", Quantity: ptr(-1)},
		"bad priority":      {Name: "Milk", Category: "Dairy", Priority: "Urgent"},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := items.Create(ctx, alice.ID, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestItemService_CreateRegistersCustomCategoryOnce(t *testing.T) {
	auth, db := newTestAuthService(t)
	items := service.NewItemService(db)
	ctx := context.Background()
	alice := registerUser(t, auth, "alice")

	_, err := items.Create(ctx, alice.ID, domain.ItemInput{Name: "Chips", Category: "Snacks"})
	require.NoError(t, err)
	_, err = items.Create(ctx, alice.ID, domain.ItemInput{Name: "Pretzels", Category: "Snacks"})
	require.NoError(t, err)

	custom, err := db.Categories().ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Snacks"}, custom)
}

func TestItemService_UpdateTriState(t *testing.T) {
	auth, db := newTestAuthService(t)
	items := service.NewItemService(db)
	ctx := context.Background()
	alice := registerUser(t, auth, "alice")

	item, err := items.Create(ctx, alice.ID, domain.ItemInput{
		Name: "Eggs", Category: "Fridge", Quantity: ptr(12), Notes: "free range", Completed: ptr(true),
	})
	require.NoError(t, err)

	// Explicit zero and false are written; absent fields are kept.
	updated, err := items.Update(ctx, alice.ID, item.ID, domain.ItemPatch{
		Quantity:  domain.Some(0),
		Completed: domain.Some(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)
	assert.False(t, updated.Completed)
	assert.Equal(t, "Eggs", updated.Name)
	assert.Equal(t, "free range", updated.Notes)

	// Null clears nullable fields.
	updated, err = items.Update(ctx, alice.ID, item.ID, domain.ItemPatch{Notes: domain.Null[string]()})
	require.NoError(t, err)
	assert.Empty(t, updated.Notes)

	// Null is rejected for required fields.
	_, err = items.Update(ctx, alice.ID, item.ID, domain.ItemPatch{Name: domain.Null[string]()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = items.Update(ctx, alice.ID, item.ID, domain.ItemPatch{Quantity: domain.Null[int]()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, err := db.Items().Get(ctx, alice.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Eggs", stored.Name)
	assert.Equal(t, 0, stored.Quantity)
}

func TestItemService_UpdateCategoryRegistersCustom(t *testing.T) {
	auth, db := newTestAuthService(t)
	items := service.NewItemService(db)
	ctx := context.Background()
	alice := registerUser(t, auth, "alice")

	item, err := items.Create(ctx, alice.ID, domain.ItemInput{Name: "Candles", Category: "Other"})
	require.NoError(t, err)

	updated, err := items.Update(ctx, alice.ID, item.ID, domain.ItemPatch{Category: domain.Some("Party Supplies")})
	require.NoError(t, err)
	assert.Equal(t, "Party Supplies", updated.Category)

	custom, err := db.Categories().ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Party Supplies"}, custom)
}

func TestItemService_OwnerScoping(t *testing.T) {
	auth, db := newTestAuthService(t)
	items := service.NewItemService(db)
	ctx := context.Background()
	alice := registerUser(t, auth, "alice")
	bob := registerUser(t, auth, "bob")

	item, err := items.Create(ctx, alice.ID, domain.ItemInput{Name: "Bread", Category: "Bakery"})
	require.NoError(t, err)

	_, err = items.Update(ctx, bob.ID, item.ID, domain.ItemPatch{Name: domain.Some("Stolen")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, items.Delete(ctx, bob.ID, item.ID), domain.ErrNotFound)

	bobItems, err := items.ListForUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobItems)

	_, err = db.Items().Get(ctx, alice.ID, item.ID)
	assert.NoError(t, err)
}

func TestItemService_MalformedIDs(t *testing.T) {
	auth, db := newTestAuthService(t)
	items := service.NewItemService(db)
	ctx := context.Background()
	alice := registerUser(t, auth, "alice")

	_, err := items.Update(ctx, alice.ID, "not-a-valid-id", domain.ItemPatch{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, items.Delete(ctx, alice.ID, "not-a-valid-id"), domain.ErrInvalidInput)
}

func TestItemService_BulkDeletes(t *testing.T) {
	auth, db := newTestAuthService(t)
	items := service.NewItemService(db)
	ctx := context.Background()
	alice := registerUser(t, auth, "alice")
	bob := registerUser(t, auth, "bob")

	create := func(userID, name, category string, done bool) {
		_, err := items.Create(ctx, userID, domain.ItemInput{Name: name, Category: category, Completed: ptr(done)})
		require.NoError(t, err)
	}
	create(alice.ID, "Apples", "Produce", true)
	create(alice.ID, "Pears", "Produce", false)
	create(alice.ID, "Cheese", "Dairy", true)
	create(bob.ID, "Kale", "Produce", true)

	n, err := items.DeleteCompleted(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = items.DeleteByCategory(ctx, alice.ID, "produce")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	left, err := items.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	bobLeft, err := items.ListForUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobLeft, 1)

	_, err = items.DeleteByCategory(ctx, alice.ID, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
