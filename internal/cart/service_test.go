package cart

import (
	"context"
	"testing"
	"time"

	product "github.com/angelmondragon/medmart-backend/internal/products"
	"github.com/angelmondragon/medmart-backend/pkg/db/dbtest"
	"github.com/angelmondragon/medmart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (Service, *Repository, *models.Product) {
	t.Helper()
	conn := dbtest.Open(t)
	products := product.NewRepository(conn)
	listing, err := products.CreateProduct(context.Background(), &models.Product{
		Name:        "Napa",
		UnitPrice:   decimal.NewFromInt(10),
		SellerEmail: "s@x.com",
		SellerName:  "Pharma",
	})
	require.NoError(t, err)

	repo := NewRepository(conn)
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Products: products,
		Now:      func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc, repo, listing
}

func TestAddItemSnapshotsListing(t *testing.T) {
	svc, _, listing := setup(t)
	ctx := context.Background()

	entry, err := svc.AddItem(ctx, "a@x.com", AddItemInput{ProductID: listing.ID, Quantity: 2, BuyerName: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "Napa", entry.ProductName)
	assert.Equal(t, "s@x.com", entry.SellerEmail)
	assert.True(t, entry.UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.True(t, entry.LineTotal.Equal(decimal.NewFromInt(20)))

	items, err := svc.ListItems(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, entry.ID, items[0].ID)

	others, err := svc.ListItems(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestAddItemValidation(t *testing.T) {
	svc, _, listing := setup(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "a@x.com", AddItemInput{ProductID: listing.ID, Quantity: 0})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.AddItem(ctx, "a@x.com", AddItemInput{Quantity: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.AddItem(ctx, "a@x.com", AddItemInput{ProductID: uuid.New(), Quantity: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateQuantityScopedToOwner(t *testing.T) {
	svc, _, listing := setup(t)
	ctx := context.Background()

	entry, err := svc.AddItem(ctx, "a@x.com", AddItemInput{ProductID: listing.ID, Quantity: 1})
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(ctx, "a@x.com", entry.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
	assert.True(t, updated.LineTotal.Equal(decimal.NewFromInt(30)))

	_, err = svc.UpdateQuantity(ctx, "b@x.com", entry.ID, 5)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	_, err = svc.UpdateQuantity(ctx, "a@x.com", uuid.New(), 5)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRemoveAndClear(t *testing.T) {
	svc, repo, listing := setup(t)
	ctx := context.Background()

	first, err := svc.AddItem(ctx, "a@x.com", AddItemInput{ProductID: listing.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "a@x.com", AddItemInput{ProductID: listing.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "b@x.com", AddItemInput{ProductID: listing.ID, Quantity: 2})
	require.NoError(t, err)

	err = svc.RemoveItem(ctx, "b@x.com", first.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	require.NoError(t, svc.RemoveItem(ctx, "a@x.com", first.ID))
	_, err = repo.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	removed, err := svc.Clear(ctx, "a@x.com")
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestDeleteOwnedIgnoresForeignEntries(t *testing.T) {
	svc, repo, listing := setup(t)
	ctx := context.Background()

	mine, err := svc.AddItem(ctx, "a@x.com", AddItemInput{ProductID: listing.ID, Quantity: 1})
	require.NoError(t, err)
	theirs, err := svc.AddItem(ctx, "b@x.com", AddItemInput{ProductID: listing.ID, Quantity: 1})
	require.NoError(t, err)

	removed, err := repo.DeleteOwned(ctx, "a@x.com", []uuid.UUID{mine.ID, theirs.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, theirs.ID, pending[0].ID)
}
