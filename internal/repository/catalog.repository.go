package repository

import (
	"context"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/pg"
	"gorm.io/gorm/clause"
)

type CatalogRepository struct {
	*pg.DB
}

func NewCatalogRepository(db *pg.DB) *CatalogRepository {
	return &CatalogRepository{
		db,
	}
}

func (r *CatalogRepository) ListAll(ctx context.Context) ([]*model.CatalogItem, error) {
	var entities []*CatalogEntity
	if err := r.Read(ctx).WithContext(ctx).Order("name ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toCatalogModels(entities), nil
}

func (r *CatalogRepository) Upsert(ctx context.Context, c *model.CatalogItem) error {
	entity := toCatalogEntity(c)
	return r.Write(ctx).WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(entity).Error
}

func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	return r.Write(ctx).WithContext(ctx).Delete(&CatalogEntity{}, "id = ?", id).Error
}
