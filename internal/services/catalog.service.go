package services

import (
	"context"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/store"
)

type CatalogService struct {
	store *store.Store
}

func NewCatalogService(store *store.Store) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) Create(ctx context.Context, p model.CatalogCreateRequest) (*model.CatalogItem, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.store.CreateCatalogItem(ctx, &model.CatalogItem{
		Name:  p.Name,
		Price: p.Price,
		Type:  p.Type,
	}), nil
}

func (s *CatalogService) Update(ctx context.Context, id string, p model.CatalogPatch) (*model.CatalogItem, bool) {
	if p.Type != nil && !p.Type.Valid() {
		return nil, false
	}
	if p.Price != nil && *p.Price < 0 {
		return nil, false
	}
	return s.store.UpdateCatalogItem(ctx, id, p)
}

func (s *CatalogService) Delete(ctx context.Context, id string) {
	s.store.RemoveCatalogItem(ctx, id)
}

func (s *CatalogService) List() []*model.CatalogItem {
	return s.store.Catalog()
}
