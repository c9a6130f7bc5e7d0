package model

import (
	"errors"
	"time"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// CategorySettlement tags the income transaction created when an order
// balance is settled. It is the only category written by the system itself.
const CategorySettlement = "Quitação de OS"

type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	PartnerID   string          `json:"partner_id"`
	PartnerName string          `json:"partner_name"`
	Date        time.Time       `json:"date"`
	OSID        string          `json:"os_id,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// TransactionCreateRequest is the input for recording a transaction.
type TransactionCreateRequest struct {
	Type        TransactionType
	Amount      float64
	Description string
	Category    string
	PartnerID   string
	PartnerName string
	Date        time.Time
	OSID        string
	Notes       string
}

func (p TransactionCreateRequest) Validate() error {
	if !p.Type.Valid() {
		return errors.New("type must be INCOME or EXPENSE")
	}
	if p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if p.Description == "" {
		return errors.New("description is required")
	}
	if p.PartnerID == "" {
		return errors.New("partner_id is required")
	}
	return nil
}

// TransactionPatch carries the fields an edit may change. Type is immutable
// after creation, so it is deliberately absent.
type TransactionPatch struct {
	Amount      *float64   `json:"amount"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Date        *time.Time `json:"date"`
	OSID        *string    `json:"os_id"`
	Notes       *string    `json:"notes"`
}

func (p TransactionPatch) Merge(t *Transaction) {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.OSID != nil {
		t.OSID = *p.OSID
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
}

// TransactionFilter controls list queries.
type TransactionFilter struct {
	Type     *TransactionType
	Category *string
	OSID     *string
	Month    *time.Month
	Year     *int
}

func (f TransactionFilter) Matches(t *Transaction) bool {
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.OSID != nil && t.OSID != *f.OSID {
		return false
	}
	if f.Month != nil && t.Date.Month() != *f.Month {
		return false
	}
	if f.Year != nil && t.Date.Year() != *f.Year {
		return false
	}
	return true
}
