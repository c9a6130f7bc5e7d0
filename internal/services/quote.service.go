package services

import (
	"context"
	"errors"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/store"
)

var (
	ErrQuoteNotFound         = errors.New("quote not found")
	ErrQuoteAlreadyConverted = errors.New("quote was already converted to an order")
)

type QuoteService struct {
	store *store.Store
}

func NewQuoteService(store *store.Store) *QuoteService {
	return &QuoteService{store: store}
}

// Create builds a quote from the request. The total is always recomputed
// from the line items; a client-supplied total is ignored.
func (s *QuoteService) Create(ctx context.Context, p model.QuoteCreateRequest) (*model.Quote, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var created *model.Quote
	err := s.store.Batch(ctx, func(tx *store.Txn) error {
		customer := tx.EnsureCustomer(p.CustomerName, p.CustomerContact, "")
		created = tx.CreateQuote(&model.Quote{
			CustomerID:      customer.ID,
			CustomerName:    p.CustomerName,
			CustomerContact: p.CustomerContact,
			Items:           p.Items,
			Status:          model.QuotePending,
			Observations:    p.Observations,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *QuoteService) Delete(ctx context.Context, id string) {
	s.store.RemoveQuote(ctx, id)
}

func (s *QuoteService) Get(id string) (*model.Quote, error) {
	q, ok := s.store.FindQuote(id)
	if !ok {
		return nil, ErrQuoteNotFound
	}
	return q, nil
}

func (s *QuoteService) List() []*model.Quote {
	return s.store.Quotes()
}

// ConvertToOrder turns an accepted quote into a service order and flips the
// quote to APPROVED. The two writes commit together or not at all. The
// customer lookup is enrichment only: a missing customer means an empty
// address, never a failed conversion.
func (s *QuoteService) ConvertToOrder(ctx context.Context, quoteID string) (*model.ServiceOrder, error) {
	var created *model.ServiceOrder

	err := s.store.Batch(ctx, func(tx *store.Txn) error {
		quote, ok := tx.FindQuote(quoteID)
		if !ok {
			return ErrQuoteNotFound
		}
		if quote.Status == model.QuoteApproved {
			return ErrQuoteAlreadyConverted
		}

		address := ""
		if customer, ok := tx.FindCustomer(quote.CustomerID); ok {
			address = customer.Address
		}

		created = tx.CreateOrder(&model.ServiceOrder{
			QuoteID:         quote.ID,
			CustomerName:    quote.CustomerName,
			CustomerContact: quote.CustomerContact,
			CustomerAddress: address,
			Description:     quote.OrderDescription(),
			Status:          model.OrderApproved,
			TotalValue:      quote.Total,
			Archived:        false,
		})

		tx.SetQuoteStatus(quote.ID, model.QuoteApproved)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
