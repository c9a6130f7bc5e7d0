package services

import (
	"context"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/store"
)

type TransactionService struct {
	store *store.Store
}

func NewTransactionService(store *store.Store) *TransactionService {
	return &TransactionService{store: store}
}

func (s *TransactionService) Create(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error) {
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
		OSID:        p.OSID,
		Notes:       p.Notes,
	}

	return s.store.CreateTransaction(ctx, t), nil
}

// Update merges the patch into the matching record. An absent id is a
// silent no-op: the second return is false and nothing changes.
func (s *TransactionService) Update(ctx context.Context, id string, p model.TransactionPatch) (*model.Transaction, bool) {
	return s.store.UpdateTransaction(ctx, id, p)
}

func (s *TransactionService) Delete(ctx context.Context, id string) {
	s.store.RemoveTransaction(ctx, id)
}

func (s *TransactionService) List(f model.TransactionFilter) []*model.Transaction {
	all := s.store.Transactions()
	out := make([]*model.Transaction, 0, len(all))
	for _, t := range all {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
