package services

import (
	"context"
	"testing"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleBalanceCreatesRemainingIncome(t *testing.T) {
	st := newTestStore(t)
	svc := NewOrderService(st)
	ctx := context.Background()

	order, err := svc.Create(ctx, model.OrderCreateRequest{
		CustomerName: "Maria", Description: "Forro PVC", TotalValue: 1000,
	})
	require.NoError(t, err)

	// A down payment already covers part of the contract.
	_, err = svc.RecordPartialCost(ctx, order.ID, model.TransactionCreateRequest{
		Type: model.TransactionIncome, Amount: 400, Description: "sinal",
		PartnerID: "PRT-1", PartnerName: "Juninho",
	})
	require.NoError(t, err)

	settlement, err := svc.SettleBalance(ctx, order.ID, "PRT-1", "Juninho")
	require.NoError(t, err)
	require.NotNil(t, settlement)

	assert.Equal(t, model.TransactionIncome, settlement.Type)
	assert.Equal(t, 600.0, settlement.Amount)
	assert.Equal(t, model.CategorySettlement, settlement.Category)
	assert.Equal(t, order.ID, settlement.OSID)

	got, err := svc.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaid, got.Status)
	assert.Equal(t, 100, got.Progress)
}

func TestSettleBalanceIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	svc := NewOrderService(st)
	ctx := context.Background()

	order, err := svc.Create(ctx, model.OrderCreateRequest{
		CustomerName: "Maria", Description: "Forro PVC", TotalValue: 500,
	})
	require.NoError(t, err)

	first, err := svc.SettleBalance(ctx, order.ID, "PRT-1", "Juninho")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 500.0, first.Amount)

	second, err := svc.SettleBalance(ctx, order.ID, "PRT-1", "Juninho")
	require.NoError(t, err)
	assert.Nil(t, second, "settling a covered order must not create another transaction")

	count := 0
	for _, tr := range st.Transactions() {
		if tr.OSID == order.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSettleBalanceMissingOrder(t *testing.T) {
	svc := NewOrderService(newTestStore(t))

	_, err := svc.SettleBalance(context.Background(), "OS-MISSING", "PRT-1", "Juninho")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSetStatusRewritesProgress(t *testing.T) {
	svc := NewOrderService(newTestStore(t))
	ctx := context.Background()

	order, err := svc.Create(ctx, model.OrderCreateRequest{
		CustomerName: "Maria", Description: "Forro PVC",
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderQuoted, order.Status)
	assert.Equal(t, 10, order.Progress)

	updated, err := svc.SetStatus(ctx, order.ID, model.OrderFinished)
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)

	_, err = svc.SetStatus(ctx, order.ID, "SHIPPED")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestArchiveHidesFromActiveList(t *testing.T) {
	svc := NewOrderService(newTestStore(t))
	ctx := context.Background()

	order, err := svc.Create(ctx, model.OrderCreateRequest{
		CustomerName: "Maria", Description: "Forro PVC",
	})
	require.NoError(t, err)

	_, err = svc.Archive(ctx, order.ID, true)
	require.NoError(t, err)

	assert.Empty(t, svc.List(false))
	assert.Len(t, svc.List(true), 1)
}

func TestProfitShare(t *testing.T) {
	st := newTestStore(t)
	svc := NewOrderService(st)
	ctx := context.Background()

	order, err := svc.Create(ctx, model.OrderCreateRequest{
		CustomerName: "Maria", Description: "Forro PVC", TotalValue: 1000,
	})
	require.NoError(t, err)

	_, err = svc.RecordPartialCost(ctx, order.ID, model.TransactionCreateRequest{
		Type: model.TransactionIncome, Amount: 1000, Description: "pagamento",
		PartnerID: "PRT-1", PartnerName: "Juninho",
	})
	require.NoError(t, err)
	_, err = svc.RecordPartialCost(ctx, order.ID, model.TransactionCreateRequest{
		Type: model.TransactionExpense, Amount: 300, Description: "material",
		PartnerID: "PRT-2", PartnerName: "Paulo",
	})
	require.NoError(t, err)

	share, err := svc.ProfitShare(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 350.0, share)
}

func TestRecordPartialCostMissingOrder(t *testing.T) {
	svc := NewOrderService(newTestStore(t))

	_, err := svc.RecordPartialCost(context.Background(), "OS-MISSING", model.TransactionCreateRequest{
		Type: model.TransactionExpense, Amount: 10, Description: "x", PartnerID: "PRT-1",
	})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCreateOrderEnsuresCustomer(t *testing.T) {
	st := newTestStore(t)
	svc := NewOrderService(st)

	_, err := svc.Create(context.Background(), model.OrderCreateRequest{
		CustomerName: "Maria", CustomerContact: "11 98888-0000", Description: "Forro PVC",
	})
	require.NoError(t, err)

	customers := st.Customers()
	require.Len(t, customers, 1)
	assert.Equal(t, "Maria", customers[0].Name)
}
