package repository

import (
	"encoding/json"
	"time"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
)

type QuoteEntity struct {
	ID              string    `db:"id"               gorm:"primaryKey;column:id"`
	CustomerID      string    `db:"customer_id"      gorm:"column:customer_id;index"`
	CustomerName    string    `db:"customer_name"    gorm:"column:customer_name;not null"`
	CustomerContact string    `db:"customer_contact" gorm:"column:customer_contact"`
	Items           string    `db:"items"            gorm:"column:items;not null"`
	Total           float64   `db:"total"            gorm:"column:total;not null"`
	Status          string    `db:"status"           gorm:"column:status;not null;index"`
	Observations    string    `db:"observations"     gorm:"column:observations"`
	CreatedAt       time.Time `db:"created_at"       gorm:"column:created_at"`
}

func (QuoteEntity) TableName() string {
	return "quotes"
}

func toQuoteEntity(m *model.Quote) *QuoteEntity {
	if m == nil {
		return nil
	}
	// Items are stored as a JSON document; line items are plain values with
	// no row identity of their own.
	items, _ := json.Marshal(m.Items)
	return &QuoteEntity{
		ID:              m.ID,
		CustomerID:      m.CustomerID,
		CustomerName:    m.CustomerName,
		CustomerContact: m.CustomerContact,
		Items:           string(items),
		Total:           m.Total,
		Status:          string(m.Status),
		Observations:    m.Observations,
		CreatedAt:       m.CreatedAt,
	}
}

func toQuoteModel(e *QuoteEntity) *model.Quote {
	if e == nil {
		return nil
	}
	var items []model.QuoteItem
	if e.Items != "" {
		_ = json.Unmarshal([]byte(e.Items), &items)
	}
	return &model.Quote{
		ID:              e.ID,
		CustomerID:      e.CustomerID,
		CustomerName:    e.CustomerName,
		CustomerContact: e.CustomerContact,
		Items:           items,
		Total:           e.Total,
		Status:          model.QuoteStatus(e.Status),
		Observations:    e.Observations,
		CreatedAt:       e.CreatedAt,
	}
}

func toQuoteModels(entities []*QuoteEntity) []*model.Quote {
	models := make([]*model.Quote, len(entities))
	for i, e := range entities {
		models[i] = toQuoteModel(e)
	}
	return models
}
