package repository

import (
	"context"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/pg"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	*pg.DB
}

func NewOrderRepository(db *pg.DB) *OrderRepository {
	return &OrderRepository{
		db,
	}
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*model.ServiceOrder, error) {
	var entities []*OrderEntity
	if err := r.Read(ctx).WithContext(ctx).Order("created_at DESC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toOrderModels(entities), nil
}

func (r *OrderRepository) Upsert(ctx context.Context, o *model.ServiceOrder) error {
	entity := toOrderEntity(o)
	return r.Write(ctx).WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(entity).Error
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return r.Write(ctx).WithContext(ctx).Delete(&OrderEntity{}, "id = ?", id).Error
}
