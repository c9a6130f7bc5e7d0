package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/juninhokosta/jp-forro-2-sub000/internal/model"
	"github.com/juninhokosta/jp-forro-2-sub000/internal/store"
)

var ErrInvalidSyncCode = errors.New("sync code is not valid")

// SyncService moves full application state between devices as an opaque
// string, for the partners' copy-paste workflow.
type SyncService struct {
	store *store.Store
}

func NewSyncService(store *store.Store) *SyncService {
	return &SyncService{store: store}
}

// Export serializes every collection into a sync code.
func (s *SyncService) Export() (string, error) {
	raw, err := json.Marshal(s.store.Snapshot())
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Import validates the code and replaces all local collections. A code
// that does not decode to the expected shape fails without mutating
// anything.
func (s *SyncService) Import(ctx context.Context, code string) error {
	raw, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return ErrInvalidSyncCode
	}

	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return ErrInvalidSyncCode
	}
	if err := snap.Validate(); err != nil {
		return err
	}

	s.store.ReplaceAll(ctx, &snap)
	return nil
}
