package repository

import (
	"time"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
)

type TransactionEntity struct {
	ID          string    `db:"id"           gorm:"primaryKey;column:id"`
	Type        string    `db:"type"         gorm:"column:type;not null"`
	Amount      float64   `db:"amount"       gorm:"column:amount;not null"`
	Description string    `db:"description"  gorm:"column:description;not null"`
	Category    string    `db:"category"     gorm:"column:category"`
	PartnerID   string    `db:"partner_id"   gorm:"column:partner_id;index"`
	PartnerName string    `db:"partner_name" gorm:"column:partner_name"`
	Date        time.Time `db:"date"         gorm:"column:date;index"`
	OSID        string    `db:"os_id"        gorm:"column:os_id;index"`
	Notes       string    `db:"notes"        gorm:"column:notes"`
}

func (TransactionEntity) TableName() string {
	return "transactions"
}

func toTransactionEntity(m *model.Transaction) *TransactionEntity {
	if m == nil {
		return nil
	}
	return &TransactionEntity{
		ID:          m.ID,
		Type:        string(m.Type),
		Amount:      m.Amount,
		Description: m.Description,
		Category:    m.Category,
		PartnerID:   m.PartnerID,
		PartnerName: m.PartnerName,
		Date:        m.Date,
		OSID:        m.OSID,
		Notes:       m.Notes,
	}
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	return &model.Transaction{
		ID:          e.ID,
		Type:        model.TransactionType(e.Type),
		Amount:      e.Amount,
		Description: e.Description,
		Category:    e.Category,
		PartnerID:   e.PartnerID,
		PartnerName: e.PartnerName,
		Date:        e.Date,
		OSID:        e.OSID,
		Notes:       e.Notes,
	}
}

func toTransactionModels(entities []*TransactionEntity) []*model.Transaction {
	models := make([]*model.Transaction, len(entities))
	for i, e := range entities {
		models[i] = toTransactionModel(e)
	}
	return models
}
