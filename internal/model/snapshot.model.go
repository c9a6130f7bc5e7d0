package model

import "errors"

// SnapshotVersion is bumped whenever the sync-code shape changes.
const SnapshotVersion = 2

// Snapshot is the full application state carried by a sync code.
type Snapshot struct {
	Version      int             `json:"version"`
	Transactions []*Transaction  `json:"transactions"`
	Orders       []*ServiceOrder `json:"orders"`
	Quotes       []*Quote        `json:"quotes"`
	Catalog      []*CatalogItem  `json:"catalog"`
	Customers    []*Customer     `json:"customers"`
}

func (s *Snapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return errors.New("unsupported sync code version")
	}
	for _, t := range s.Transactions {
		if t == nil || t.ID == "" || !t.Type.Valid() {
			return errors.New("malformed transaction in sync code")
		}
	}
	for _, o := range s.Orders {
		if o == nil || o.ID == "" || !o.Status.Valid() {
			return errors.New("malformed service order in sync code")
		}
	}
	for _, q := range s.Quotes {
		if q == nil || q.ID == "" {
			return errors.New("malformed quote in sync code")
		}
	}
	for _, c := range s.Catalog {
		if c == nil || c.ID == "" {
			return errors.New("malformed catalog item in sync code")
		}
	}
	for _, c := range s.Customers {
		if c == nil || c.ID == "" {
			return errors.New("malformed customer in sync code")
		}
	}
	return nil
}
