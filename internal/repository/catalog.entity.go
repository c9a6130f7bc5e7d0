package repository

import (
	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
)

type CatalogEntity struct {
	ID    string  `db:"id"    gorm:"primaryKey;column:id"`
	Name  string  `db:"name"  gorm:"column:name;not null"`
	Price float64 `db:"price" gorm:"column:price;not null"`
	Type  string  `db:"type"  gorm:"column:type;not null"`
}

func (CatalogEntity) TableName() string {
	return "catalog_items"
}

func toCatalogEntity(m *model.CatalogItem) *CatalogEntity {
	if m == nil {
		return nil
	}
	return &CatalogEntity{
		ID:    m.ID,
		Name:  m.Name,
		Price: m.Price,
		Type:  string(m.Type),
	}
}

func toCatalogModel(e *CatalogEntity) *model.CatalogItem {
	if e == nil {
		return nil
	}
	return &model.CatalogItem{
		ID:    e.ID,
		Name:  e.Name,
		Price: e.Price,
		Type:  model.CatalogType(e.Type),
	}
}

func toCatalogModels(entities []*CatalogEntity) []*model.CatalogItem {
	models := make([]*model.CatalogItem, len(entities))
	for i, e := range entities {
		models[i] = toCatalogModel(e)
	}
	return models
}
