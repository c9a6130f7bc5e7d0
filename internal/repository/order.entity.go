package repository

import (
	"time"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
)

type OrderEntity struct {
	ID              string     `db:"id"               gorm:"primaryKey;column:id"`
	QuoteID         string     `db:"quote_id"         gorm:"column:quote_id;index"`
	CustomerName    string     `db:"customer_name"    gorm:"column:customer_name;not null"`
	CustomerContact string     `db:"customer_contact" gorm:"column:customer_contact"`
	CustomerAddress string     `db:"customer_address" gorm:"column:customer_address"`
	Description     string     `db:"description"      gorm:"column:description;not null"`
	Status          string     `db:"status"           gorm:"column:status;not null;index"`
	Progress        int        `db:"progress"         gorm:"column:progress;not null"`
	CreatedAt       time.Time  `db:"created_at"       gorm:"column:created_at"`
	ExpectedDate    *time.Time `db:"expected_date"    gorm:"column:expected_date"`
	TotalValue      float64    `db:"total_value"      gorm:"column:total_value;not null"`
	Archived        bool       `db:"archived"         gorm:"column:archived;not null"`
}

func (OrderEntity) TableName() string {
	return "service_orders"
}

func toOrderEntity(m *model.ServiceOrder) *OrderEntity {
	if m == nil {
		return nil
	}
	return &OrderEntity{
		ID:              m.ID,
		QuoteID:         m.QuoteID,
		CustomerName:    m.CustomerName,
		CustomerContact: m.CustomerContact,
		CustomerAddress: m.CustomerAddress,
		Description:     m.Description,
		Status:          string(m.Status),
		Progress:        m.Progress,
		CreatedAt:       m.CreatedAt,
		ExpectedDate:    m.ExpectedDate,
		TotalValue:      m.TotalValue,
		Archived:        m.Archived,
	}
}

func toOrderModel(e *OrderEntity) *model.ServiceOrder {
	if e == nil {
		return nil
	}
	return &model.ServiceOrder{
		ID:              e.ID,
		QuoteID:         e.QuoteID,
		CustomerName:    e.CustomerName,
		CustomerContact: e.CustomerContact,
		CustomerAddress: e.CustomerAddress,
		Description:     e.Description,
		Status:          model.OrderStatus(e.Status),
		Progress:        e.Progress,
		CreatedAt:       e.CreatedAt,
		ExpectedDate:    e.ExpectedDate,
		TotalValue:      e.TotalValue,
		Archived:        e.Archived,
	}
}

func toOrderModels(entities []*OrderEntity) []*model.ServiceOrder {
	models := make([]*model.ServiceOrder, len(entities))
	for i, e := range entities {
		models[i] = toOrderModel(e)
	}
	return models
}
