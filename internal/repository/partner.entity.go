package repository

import (
	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
)

type PartnerEntity struct {
	ID           string `db:"id"            gorm:"primaryKey;column:id"`
	Name         string `db:"name"          gorm:"column:name;not null"`
	Email        string `db:"email"         gorm:"column:email;not null;uniqueIndex"`
	Avatar       string `db:"avatar"        gorm:"column:avatar"`
	PasswordHash string `db:"password_hash" gorm:"column:password_hash;not null"`
}

func (PartnerEntity) TableName() string {
	return "partners"
}

func toPartnerModel(e *PartnerEntity) *model.Partner {
	if e == nil {
		return nil
	}
	return &model.Partner{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		Avatar:       e.Avatar,
		PasswordHash: e.PasswordHash,
	}
}

func toPartnerModels(entities []*PartnerEntity) []*model.Partner {
	models := make([]*model.Partner, len(entities))
	for i, e := range entities {
		models[i] = toPartnerModel(e)
	}
	return models
}
