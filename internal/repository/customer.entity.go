package repository

import (
	"time"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
)

type CustomerEntity struct {
	ID        string    `db:"id"         gorm:"primaryKey;column:id"`
	Name      string    `db:"name"       gorm:"column:name;not null;index"`
	Contact   string    `db:"contact"    gorm:"column:contact"`
	Address   string    `db:"address"    gorm:"column:address"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at"`
}

func (CustomerEntity) TableName() string {
	return "customers"
}

func toCustomerEntity(m *model.Customer) *CustomerEntity {
	if m == nil {
		return nil
	}
	return &CustomerEntity{
		ID:        m.ID,
		Name:      m.Name,
		Contact:   m.Contact,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:        e.ID,
		Name:      e.Name,
		Contact:   e.Contact,
		Address:   e.Address,
		CreatedAt: e.CreatedAt,
	}
}

func toCustomerModels(entities []*CustomerEntity) []*model.Customer {
	models := make([]*model.Customer, len(entities))
	for i, e := range entities {
		models[i] = toCustomerModel(e)
	}
	return models
}
