package services

import (
	"testing"
	"time"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(kind model.TransactionType, amount float64, partnerID, partnerName string, date time.Time) *model.Transaction {
	return &model.Transaction{
		ID:          store.NewID(store.TagTransaction),
		Type:        kind,
		Amount:      amount,
		Description: "t",
		PartnerID:   partnerID,
		PartnerName: partnerName,
		Date:        date,
	}
}

func TestTotalsForPeriod(t *testing.T) {
	june := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	july := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	transactions := []*model.Transaction{
		tx(model.TransactionIncome, 1000, "PRT-1", "Juninho", june),
		tx(model.TransactionExpense, 200, "PRT-2", "Paulo", june),
		tx(model.TransactionIncome, 9999, "PRT-1", "Juninho", july),
	}

	totals := TotalsForPeriod(transactions, time.June, 2025)
	assert.Equal(t, 1000.0, totals.Income)
	assert.Equal(t, 200.0, totals.Expense)
	assert.Equal(t, 800.0, totals.Net)
}

func TestPartnerSplit(t *testing.T) {
	june := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	// Net is 800, each half is 400. Juninho netted 600, so he owes 200;
	// Paulo netted 200, so he is due 200.
	transactions := []*model.Transaction{
		tx(model.TransactionIncome, 600, "PRT-1", "Juninho", june),
		tx(model.TransactionIncome, 400, "PRT-2", "Paulo", june),
		tx(model.TransactionExpense, 200, "PRT-2", "Paulo", june),
	}

	balances := PartnerSplit(transactions, time.June, 2025)
	require.Len(t, balances, 2)

	assert.Equal(t, "PRT-1", balances[0].PartnerID)
	assert.Equal(t, 600.0, balances[0].Net)
	assert.Equal(t, -200.0, balances[0].OwedOrDue)

	assert.Equal(t, "PRT-2", balances[1].PartnerID)
	assert.Equal(t, 200.0, balances[1].Net)
	assert.Equal(t, 200.0, balances[1].OwedOrDue)
}

func TestPartnerSplitEmptyPeriod(t *testing.T) {
	assert.Empty(t, PartnerSplit(nil, time.June, 2025))
}
