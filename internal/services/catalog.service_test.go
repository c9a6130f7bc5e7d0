package services

import (
	"context"
	"testing"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCRUD(t *testing.T) {
	svc := NewCatalogService(newTestStore(t))
	ctx := context.Background()

	item, err := svc.Create(ctx, model.CatalogCreateRequest{
		Name: "Forro PVC", Type: model.CatalogProduct, Price: 50,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)

	price := 55.0
	updated, ok := svc.Update(ctx, item.ID, model.CatalogPatch{Price: &price})
	require.True(t, ok)
	assert.Equal(t, 55.0, updated.Price)

	badPrice := -1.0
	_, ok = svc.Update(ctx, item.ID, model.CatalogPatch{Price: &badPrice})
	assert.False(t, ok)

	svc.Delete(ctx, item.ID)
	assert.Empty(t, svc.List())
}

func TestCatalogCreateRejectsBadType(t *testing.T) {
	svc := NewCatalogService(newTestStore(t))

	_, err := svc.Create(context.Background(), model.CatalogCreateRequest{
		Name: "x", Type: "BUNDLE", Price: 10,
	})
	assert.Error(t, err)
}

func TestCustomerCreateRequiresName(t *testing.T) {
	svc := NewCustomerService(newTestStore(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "contact", "addr")
	assert.ErrorIs(t, err, ErrCustomerNameRequired)

	first, err := svc.Create(ctx, "Maria", "1111", "")
	require.NoError(t, err)

	// Same name again returns the existing record instead of a duplicate.
	second, err := svc.Create(ctx, "maria", "2222", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, svc.List(), 1)
}
