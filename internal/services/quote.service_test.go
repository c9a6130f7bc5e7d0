package services

import (
	"context"
	"testing"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteFixture() model.QuoteCreateRequest {
	return model.QuoteCreateRequest{
		CustomerName:    "Maria",
		CustomerContact: "11 98888-0000",
		Items: []model.QuoteItem{
			{Name: "Forro PVC", Type: model.CatalogProduct, Price: 50, Quantity: 2},
		},
	}
}

func TestQuoteCreateComputesTotalAndCustomer(t *testing.T) {
	st := newTestStore(t)
	svc := NewQuoteService(st)

	quote, err := svc.Create(context.Background(), quoteFixture())
	require.NoError(t, err)

	assert.Equal(t, 100.0, quote.Total)
	assert.Equal(t, model.QuotePending, quote.Status)
	require.NotEmpty(t, quote.CustomerID)

	customers := st.Customers()
	require.Len(t, customers, 1)
	assert.Equal(t, quote.CustomerID, customers[0].ID)
}

func TestConvertToOrder(t *testing.T) {
	st := newTestStore(t)
	quotes := NewQuoteService(st)
	ctx := context.Background()

	quote, err := quotes.Create(ctx, quoteFixture())
	require.NoError(t, err)

	order, err := quotes.ConvertToOrder(ctx, quote.ID)
	require.NoError(t, err)

	assert.Equal(t, quote.ID, order.QuoteID)
	assert.Equal(t, "Maria", order.CustomerName)
	assert.Equal(t, "2x Forro PVC", order.Description)
	assert.Equal(t, 100.0, order.TotalValue)
	assert.Equal(t, model.OrderApproved, order.Status)
	assert.Equal(t, 30, order.Progress)
	assert.False(t, order.Archived)

	got, err := quotes.Get(quote.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuoteApproved, got.Status)
}

func TestConvertTwiceFails(t *testing.T) {
	st := newTestStore(t)
	quotes := NewQuoteService(st)
	ctx := context.Background()

	quote, err := quotes.Create(ctx, quoteFixture())
	require.NoError(t, err)

	_, err = quotes.ConvertToOrder(ctx, quote.ID)
	require.NoError(t, err)

	_, err = quotes.ConvertToOrder(ctx, quote.ID)
	assert.ErrorIs(t, err, ErrQuoteAlreadyConverted)
	assert.Len(t, st.Orders(), 1, "a rejected conversion must not leave a second order behind")
}

func TestConvertMissingQuote(t *testing.T) {
	quotes := NewQuoteService(newTestStore(t))

	_, err := quotes.ConvertToOrder(context.Background(), "QT-MISSING")
	assert.ErrorIs(t, err, ErrQuoteNotFound)
}

func TestConvertCopiesCustomerAddress(t *testing.T) {
	st := newTestStore(t)
	quotes := NewQuoteService(st)
	ctx := context.Background()

	// Customer exists beforehand with an address; the quote only carries
	// name and contact.
	st.EnsureCustomer(ctx, "Maria", "11 98888-0000", "Rua das Flores 10")

	quote, err := quotes.Create(ctx, quoteFixture())
	require.NoError(t, err)

	order, err := quotes.ConvertToOrder(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rua das Flores 10", order.CustomerAddress)
}
