package services

import (
	"sort"
	"time"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/store"
)

type PeriodTotals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// PartnerBalance is one partner's side of the 50/50 split for a period.
// OwedOrDue is half the period net minus what the partner personally
// netted: negative means the partner is owed money by the other, positive
// means the partner owes.
type PartnerBalance struct {
	PartnerID   string  `json:"partner_id"`
	PartnerName string  `json:"partner_name"`
	Income      float64 `json:"income"`
	Expense     float64 `json:"expense"`
	Net         float64 `json:"net"`
	OwedOrDue   float64 `json:"owed_or_due"`
}

// TotalsForPeriod sums income and expense over the calendar month. Pure,
// safe to recompute on every request.
func TotalsForPeriod(transactions []*model.Transaction, month time.Month, year int) PeriodTotals {
	var totals PeriodTotals
	for _, t := range transactions {
		if t.Date.Month() != month || t.Date.Year() != year {
			continue
		}
		switch t.Type {
		case model.TransactionIncome:
			totals.Income += t.Amount
		case model.TransactionExpense:
			totals.Expense += t.Amount
		}
	}
	totals.Net = totals.Income - totals.Expense
	return totals
}

// PartnerSplit computes each partner's balance against the 50/50 share of
// the period net.
func PartnerSplit(transactions []*model.Transaction, month time.Month, year int) []PartnerBalance {
	totals := TotalsForPeriod(transactions, month, year)
	half := totals.Net / 2

	byPartner := make(map[string]*PartnerBalance)
	for _, t := range transactions {
		if t.Date.Month() != month || t.Date.Year() != year {
			continue
		}
		b, ok := byPartner[t.PartnerID]
		if !ok {
			b = &PartnerBalance{PartnerID: t.PartnerID, PartnerName: t.PartnerName}
			byPartner[t.PartnerID] = b
		}
		switch t.Type {
		case model.TransactionIncome:
			b.Income += t.Amount
		case model.TransactionExpense:
			b.Expense += t.Amount
		}
	}

	balances := make([]PartnerBalance, 0, len(byPartner))
	for _, b := range byPartner {
		b.Net = b.Income - b.Expense
		b.OwedOrDue = half - b.Net
		balances = append(balances, *b)
	}
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].PartnerID < balances[j].PartnerID
	})
	return balances
}

type ReportService struct {
	store *store.Store
}

func NewReportService(store *store.Store) *ReportService {
	return &ReportService{store: store}
}

func (s *ReportService) Summary(month time.Month, year int) PeriodTotals {
	return TotalsForPeriod(s.store.Transactions(), month, year)
}

func (s *ReportService) Split(month time.Month, year int) []PartnerBalance {
	return PartnerSplit(s.store.Transactions(), month, year)
}
