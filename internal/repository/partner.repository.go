package repository

import (
	"context"
	"errors"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/pkg/pg"
	"gorm.io/gorm"
)

type PartnerRepository struct {
	*pg.DB
}

func NewPartnerRepository(db *pg.DB) *PartnerRepository {
	return &PartnerRepository{
		db,
	}
}

// ListAll returns the fixed partner roster.
func (r *PartnerRepository) ListAll(ctx context.Context) ([]*model.Partner, error) {
	var entities []*PartnerEntity
	if err := r.Read(ctx).WithContext(ctx).Order("name ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toPartnerModels(entities), nil
}

func (r *PartnerRepository) GetByEmail(ctx context.Context, email string) (*model.Partner, error) {
	var entity PartnerEntity
	err := r.Read(ctx).WithContext(ctx).Where("email = ?", email).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toPartnerModel(&entity), nil
}
