package model

import "errors"

type CatalogType string

const (
	CatalogProduct CatalogType = "PRODUCT"
	CatalogService CatalogType = "SERVICE"
)

func (t CatalogType) Valid() bool {
	return t == CatalogProduct || t == CatalogService
}

// CatalogItem is a reusable priced template for quote line items.
type CatalogItem struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Price float64     `json:"price"`
	Type  CatalogType `json:"type"`
}

type CatalogCreateRequest struct {
	Name  string
	Price float64
	Type  CatalogType
}

func (p CatalogCreateRequest) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if !p.Type.Valid() {
		return errors.New("type must be PRODUCT or SERVICE")
	}
	return nil
}

type CatalogPatch struct {
	Name  *string      `json:"name"`
	Price *float64     `json:"price"`
	Type  *CatalogType `json:"type"`
}

func (p CatalogPatch) Merge(c *CatalogItem) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Price != nil {
		c.Price = *p.Price
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
}
