package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type QuoteStatus string

const (
	QuotePending  QuoteStatus = "PENDING"
	QuoteApproved QuoteStatus = "APPROVED"
	QuoteRejected QuoteStatus = "REJECTED"
)

// QuoteItem is a line item copied by value from the catalog, so later
// catalog edits never change an existing quote.
type QuoteItem struct {
	Name     string      `json:"name"`
	Type     CatalogType `json:"type"`
	Price    float64     `json:"price"`
	Quantity int         `json:"quantity"`
}

func (i QuoteItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

type Quote struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customer_id,omitempty"`
	CustomerName    string      `json:"customer_name"`
	CustomerContact string      `json:"customer_contact"`
	Items           []QuoteItem `json:"items"`
	Total           float64     `json:"total"`
	Status          QuoteStatus `json:"status"`
	Observations    string      `json:"observations,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// ComputeTotal sums the line subtotals. The stored Total is always this
// value at save time, never a client-supplied number.
func (q *Quote) ComputeTotal() float64 {
	var total float64
	for _, it := range q.Items {
		total += it.Subtotal()
	}
	return total
}

// OrderDescription renders the item lines as "{qty}x {name}", comma-joined,
// the description a converted service order carries.
func (q *Quote) OrderDescription() string {
	parts := make([]string, 0, len(q.Items))
	for _, it := range q.Items {
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
	}
	return strings.Join(parts, ", ")
}

type QuoteCreateRequest struct {
	CustomerID      string
	CustomerName    string
	CustomerContact string
	Items           []QuoteItem
	Observations    string
}

func (p QuoteCreateRequest) Validate() error {
	if p.CustomerName == "" {
		return errors.New("customer_name is required")
	}
	if len(p.Items) == 0 {
		return errors.New("quote needs at least one item")
	}
	for _, it := range p.Items {
		if it.Name == "" {
			return errors.New("item name is required")
		}
		if it.Quantity <= 0 {
			return errors.New("item quantity must be positive")
		}
		if it.Price < 0 {
			return errors.New("item price cannot be negative")
		}
	}
	return nil
}
