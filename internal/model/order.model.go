package model

import (
	"errors"
	"time"
)

// OrderStatus is the execution state of a service order. Any status may be
// set from any other; Progress is always rewritten from the status.
type OrderStatus string

const (
	OrderQuoted     OrderStatus = "QUOTED"
	OrderApproved   OrderStatus = "APPROVED"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderFinished   OrderStatus = "FINISHED"
	OrderPaid       OrderStatus = "PAID"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderQuoted, OrderApproved, OrderInProgress, OrderFinished, OrderPaid:
		return true
	}
	return false
}

// ProgressFor maps a status to its fixed progress percentage.
func ProgressFor(s OrderStatus) int {
	switch s {
	case OrderQuoted:
		return 10
	case OrderApproved:
		return 30
	case OrderInProgress:
		return 60
	case OrderFinished, OrderPaid:
		return 100
	}
	return 0
}

type ServiceOrder struct {
	ID              string      `json:"id"`
	QuoteID         string      `json:"quote_id,omitempty"`
	CustomerName    string      `json:"customer_name"`
	CustomerContact string      `json:"customer_contact"`
	CustomerAddress string      `json:"customer_address"`
	Description     string      `json:"description"`
	Status          OrderStatus `json:"status"`
	Progress        int         `json:"progress"`
	CreatedAt       time.Time   `json:"created_at"`
	ExpectedDate    *time.Time  `json:"expected_date,omitempty"`
	TotalValue      float64     `json:"total_value"`
	Archived        bool        `json:"archived"`
}

type OrderCreateRequest struct {
	QuoteID         string
	CustomerName    string
	CustomerContact string
	CustomerAddress string
	Description     string
	Status          OrderStatus
	ExpectedDate    *time.Time
	TotalValue      float64
}

func (p OrderCreateRequest) Validate() error {
	if p.CustomerName == "" {
		return errors.New("customer_name is required")
	}
	if p.Description == "" {
		return errors.New("description is required")
	}
	if p.TotalValue < 0 {
		return errors.New("total_value cannot be negative")
	}
	if p.Status != "" && !p.Status.Valid() {
		return errors.New("unknown status")
	}
	return nil
}

// OrderPatch carries the editable fields. Progress is not patchable: setting
// Status rewrites Progress from the mapping during the merge.
type OrderPatch struct {
	CustomerName    *string      `json:"customer_name"`
	CustomerContact *string      `json:"customer_contact"`
	CustomerAddress *string      `json:"customer_address"`
	Description     *string      `json:"description"`
	Status          *OrderStatus `json:"status"`
	ExpectedDate    *time.Time   `json:"expected_date"`
	TotalValue      *float64     `json:"total_value"`
	Archived        *bool        `json:"archived"`
}

// Merge applies the patch and keeps Progress consistent with Status.
func (p OrderPatch) Merge(o *ServiceOrder) {
	if p.CustomerName != nil {
		o.CustomerName = *p.CustomerName
	}
	if p.CustomerContact != nil {
		o.CustomerContact = *p.CustomerContact
	}
	if p.CustomerAddress != nil {
		o.CustomerAddress = *p.CustomerAddress
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.Status != nil {
		o.Status = *p.Status
		o.Progress = ProgressFor(*p.Status)
	}
	if p.ExpectedDate != nil {
		o.ExpectedDate = p.ExpectedDate
	}
	if p.TotalValue != nil {
		o.TotalValue = *p.TotalValue
	}
	if p.Archived != nil {
		o.Archived = *p.Archived
	}
}
