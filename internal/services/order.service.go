package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/store"
)

var (
	ErrOrderNotFound = errors.New("service order not found")
	ErrInvalidStatus = errors.New("unknown order status")
)

type OrderService struct {
	store *store.Store
}

func NewOrderService(store *store.Store) *OrderService {
	return &OrderService{store: store}
}

// Create inserts a new order and guarantees the named customer exists,
// creating it on first appearance. Both land or neither does.
func (s *OrderService) Create(ctx context.Context, p model.OrderCreateRequest) (*model.ServiceOrder, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	status := p.Status
	if status == "" {
		status = model.OrderQuoted
	}

	var created *model.ServiceOrder
	err := s.store.Batch(ctx, func(tx *store.Txn) error {
		tx.EnsureCustomer(p.CustomerName, p.CustomerContact, p.CustomerAddress)
		created = tx.CreateOrder(&model.ServiceOrder{
			QuoteID:         p.QuoteID,
			CustomerName:    p.CustomerName,
			CustomerContact: p.CustomerContact,
			CustomerAddress: p.CustomerAddress,
			Description:     p.Description,
			Status:          status,
			ExpectedDate:    p.ExpectedDate,
			TotalValue:      p.TotalValue,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *OrderService) Update(ctx context.Context, id string, p model.OrderPatch) (*model.ServiceOrder, bool) {
	if p.Status != nil && !p.Status.Valid() {
		return nil, false
	}
	return s.store.UpdateOrder(ctx, id, p)
}

// SetStatus moves the order to any of the five statuses. There is no
// transition graph: the partners jump straight to whichever state matches
// reality. Progress is rewritten from the status mapping.
func (s *OrderService) SetStatus(ctx context.Context, id string, status model.OrderStatus) (*model.ServiceOrder, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	updated, ok := s.store.UpdateOrder(ctx, id, model.OrderPatch{Status: &status})
	if !ok {
		return nil, ErrOrderNotFound
	}
	return updated, nil
}

// Archive flips the archived flag. Orthogonal to status, it only controls
// list visibility.
func (s *OrderService) Archive(ctx context.Context, id string, archived bool) (*model.ServiceOrder, error) {
	updated, ok := s.store.UpdateOrder(ctx, id, model.OrderPatch{Archived: &archived})
	if !ok {
		return nil, ErrOrderNotFound
	}
	return updated, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) {
	s.store.RemoveOrder(ctx, id)
}

func (s *OrderService) Get(id string) (*model.ServiceOrder, error) {
	o, ok := s.store.FindOrder(id)
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) List(includeArchived bool) []*model.ServiceOrder {
	all := s.store.Orders()
	if includeArchived {
		return all
	}
	out := make([]*model.ServiceOrder, 0, len(all))
	for _, o := range all {
		if !o.Archived {
			out = append(out, o)
		}
	}
	return out
}

// RecordPartialCost appends a transaction linked to the order via its id.
// The order status is untouched; the money trail alone tracks how much of
// the contract has been paid or spent.
func (s *OrderService) RecordPartialCost(ctx context.Context, orderID string, p model.TransactionCreateRequest) (*model.Transaction, error) {
	if _, ok := s.store.FindOrder(orderID); !ok {
		return nil, ErrOrderNotFound
	}

	p.OSID = orderID
	if err := p.Validate(); err != nil {
		return nil, err
	}

	t := &model.Transaction{
		Type:        p.Type,
		Amount:      p.Amount,
		Description: p.Description,
		Category:    p.Category,
		PartnerID:   p.PartnerID,
		PartnerName: p.PartnerName,
		Date:        p.Date,
		OSID:        orderID,
		Notes:       p.Notes,
	}
	return s.store.CreateTransaction(ctx, t), nil
}

// SettleBalance records the final outstanding payment on an order and marks
// it paid. remaining = totalValue minus income already linked to the order;
// when nothing remains the order just flips to PAID, so settling an already
// settled order never creates a second transaction.
func (s *OrderService) SettleBalance(ctx context.Context, orderID, partnerID, partnerName string) (*model.Transaction, error) {
	var settlement *model.Transaction

	err := s.store.Batch(ctx, func(tx *store.Txn) error {
		order, ok := tx.FindOrder(orderID)
		if !ok {
			return ErrOrderNotFound
		}

		remaining := order.TotalValue
		for _, t := range tx.Transactions() {
			if t.OSID == orderID && t.Type == model.TransactionIncome {
				remaining -= t.Amount
			}
		}

		if remaining > 0 {
			settlement = tx.CreateTransaction(&model.Transaction{
				Type:        model.TransactionIncome,
				Amount:      remaining,
				Description: fmt.Sprintf("Quitação de saldo - %s", order.CustomerName),
				Category:    model.CategorySettlement,
				PartnerID:   partnerID,
				PartnerName: partnerName,
				OSID:        orderID,
			})
		}

		paid := model.OrderPaid
		tx.UpdateOrder(orderID, model.OrderPatch{Status: &paid})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settlement, nil
}

// ProfitShare is each partner's half of the order's net result.
func (s *OrderService) ProfitShare(orderID string) (float64, error) {
	if _, ok := s.store.FindOrder(orderID); !ok {
		return 0, ErrOrderNotFound
	}

	var income, expense float64
	for _, t := range s.store.Transactions() {
		if t.OSID != orderID {
			continue
		}
		switch t.Type {
		case model.TransactionIncome:
			income += t.Amount
		case model.TransactionExpense:
			expense += t.Amount
		}
	}
	return (income - expense) / 2, nil
}
