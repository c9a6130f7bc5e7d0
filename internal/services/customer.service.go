package services

import (
	"context"
	"errors"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/store"
)

var ErrCustomerNameRequired = errors.New("customer name is required")

type CustomerService struct {
	store *store.Store
}

func NewCustomerService(store *store.Store) *CustomerService {
	return &CustomerService{store: store}
}

// Create is the explicit path; customers also appear implicitly when a
// quote or order names someone new. Both funnel into the same
// name-matching, so no duplicates either way.
func (s *CustomerService) Create(ctx context.Context, name, contact, address string) (*model.Customer, error) {
	if name == "" {
		return nil, ErrCustomerNameRequired
	}
	return s.store.EnsureCustomer(ctx, name, contact, address), nil
}

func (s *CustomerService) Update(ctx context.Context, id string, p model.CustomerPatch) (*model.Customer, bool) {
	return s.store.UpdateCustomer(ctx, id, p)
}

func (s *CustomerService) Delete(ctx context.Context, id string) {
	s.store.RemoveCustomer(ctx, id)
}

func (s *CustomerService) List() []*model.Customer {
	return s.store.Customers()
}
