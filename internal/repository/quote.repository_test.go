package repository

import (
	"context"
	"testing"
	"time"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteRoundTripKeepsItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuoteRepository(db.DB)
	ctx := context.Background()

	quote := &model.Quote{
		ID:              "ORC-AAAAA",
		CustomerID:      "CLI-AAAAA",
		CustomerName:    "Maria",
		CustomerContact: "11 98888-0000",
		Items: []model.QuoteItem{
			{Name: "Forro PVC", Type: model.CatalogProduct, Price: 50, Quantity: 2},
			{Name: "Instalação", Type: model.CatalogService, Price: 120, Quantity: 1},
		},
		Total:     220,
		Status:    model.QuotePending,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Upsert(ctx, quote))

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Items, 2)
	assert.Equal(t, "Forro PVC", got[0].Items[0].Name)
	assert.Equal(t, 2, got[0].Items[0].Quantity)
	assert.Equal(t, 220.0, got[0].Total)
	assert.Equal(t, model.QuotePending, got[0].Status)
}

func TestQuoteUpsertUpdatesStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuoteRepository(db.DB)
	ctx := context.Background()

	quote := &model.Quote{
		ID: "ORC-AAAAA", CustomerName: "Maria",
		Items:  []model.QuoteItem{{Name: "Forro PVC", Price: 50, Quantity: 1}},
		Total:  50,
		Status: model.QuotePending,
	}
	require.NoError(t, repo.Upsert(ctx, quote))

	quote.Status = model.QuoteApproved
	require.NoError(t, repo.Upsert(ctx, quote))

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.QuoteApproved, got[0].Status)
}

func TestPartnerGetByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPartnerRepository(db.DB)
	ctx := context.Background()

	require.NoError(t, db.rawDB.Create(&PartnerEntity{
		ID: "PRT-1", Name: "Juninho", Email: "juninho@jpforros.com.br", PasswordHash: "hash",
	}).Error)

	partner, err := repo.GetByEmail(ctx, "juninho@jpforros.com.br")
	require.NoError(t, err)
	assert.Equal(t, "PRT-1", partner.ID)
	assert.Equal(t, "hash", partner.PasswordHash)

	_, err = repo.GetByEmail(ctx, "nobody@jpforros.com.br")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPartnerListAllOrdersByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPartnerRepository(db.DB)

	for _, p := range []*PartnerEntity{
		{ID: "PRT-2", Name: "Paulo", Email: "paulo@jpforros.com.br", PasswordHash: "hash"},
		{ID: "PRT-1", Name: "Juninho", Email: "juninho@jpforros.com.br", PasswordHash: "hash"},
	} {
		require.NoError(t, db.rawDB.Create(p).Error)
	}

	partners, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, partners, 2)
	assert.Equal(t, "Juninho", partners[0].Name)
	assert.Equal(t, "Paulo", partners[1].Name)
}
