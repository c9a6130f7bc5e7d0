package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncRoundTrip(t *testing.T) {
	source := newTestStore(t)
	ctx := context.Background()

	transactions := NewTransactionService(source)
	_, err := transactions.Create(ctx, model.TransactionCreateRequest{
		Type: model.TransactionIncome, Amount: 1000, Description: "pagamento",
		PartnerID: "PRT-1", PartnerName: "Juninho",
	})
	require.NoError(t, err)

	orders := NewOrderService(source)
	_, err = orders.Create(ctx, model.OrderCreateRequest{
		CustomerName: "Maria", Description: "Forro PVC", TotalValue: 1000,
	})
	require.NoError(t, err)

	code, err := NewSyncService(source).Export()
	require.NoError(t, err)

	target := newTestStore(t)
	require.NoError(t, NewSyncService(target).Import(ctx, code))

	assert.Len(t, target.Transactions(), 1)
	assert.Len(t, target.Orders(), 1)
	assert.Len(t, target.Customers(), 1)
	assert.Equal(t, source.Orders()[0].ID, target.Orders()[0].ID)
}

func TestImportGarbageDoesNotMutate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := NewTransactionService(st).Create(ctx, model.TransactionCreateRequest{
		Type: model.TransactionIncome, Amount: 10, Description: "x", PartnerID: "PRT-1",
	})
	require.NoError(t, err)

	svc := NewSyncService(st)
	assert.ErrorIs(t, svc.Import(ctx, "not base64 at all!!"), ErrInvalidSyncCode)

	garbage := base64.StdEncoding.EncodeToString([]byte("][ not json"))
	assert.ErrorIs(t, svc.Import(ctx, garbage), ErrInvalidSyncCode)

	assert.Len(t, st.Transactions(), 1)
}

func TestImportRejectsWrongVersion(t *testing.T) {
	st := newTestStore(t)

	raw, err := json.Marshal(&model.Snapshot{Version: model.SnapshotVersion + 1})
	require.NoError(t, err)

	err = NewSyncService(st).Import(context.Background(), base64.StdEncoding.EncodeToString(raw))
	assert.Error(t, err)
}
