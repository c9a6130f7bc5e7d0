package repository

import (
	"context"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/pg"
	"gorm.io/gorm/clause"
)

type QuoteRepository struct {
	*pg.DB
}

func NewQuoteRepository(db *pg.DB) *QuoteRepository {
	return &QuoteRepository{
		db,
	}
}

func (r *QuoteRepository) ListAll(ctx context.Context) ([]*model.Quote, error) {
	var entities []*QuoteEntity
	if err := r.Read(ctx).WithContext(ctx).Order("created_at DESC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toQuoteModels(entities), nil
}

func (r *QuoteRepository) Upsert(ctx context.Context, q *model.Quote) error {
	entity := toQuoteEntity(q)
	return r.Write(ctx).WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(entity).Error
}

func (r *QuoteRepository) Delete(ctx context.Context, id string) error {
	return r.Write(ctx).WithContext(ctx).Delete(&QuoteEntity{}, "id = ?", id).Error
}
