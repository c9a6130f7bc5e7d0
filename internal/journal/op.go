package journal

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	KindUpsert = "upsert"
	KindDelete = "delete"
)

// Op is one persist operation as it travels through the journal stream.
// The ID is assigned at enqueue time and is what the flusher dedupes on,
// so a redelivered stream entry never applies twice.
type Op struct {
	ID         string          `json:"id"`
	Table      string          `json:"table"`
	Kind       string          `json:"kind"`
	RecordID   string          `json:"record_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

func NewUpsertOp(table string, record any) (Op, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return Op{}, err
	}
	return Op{
		ID:         uuid.NewString(),
		Table:      table,
		Kind:       KindUpsert,
		Payload:    payload,
		EnqueuedAt: time.Now(),
	}, nil
}

func NewDeleteOp(table, recordID string) Op {
	return Op{
		ID:         uuid.NewString(),
		Table:      table,
		Kind:       KindDelete,
		RecordID:   recordID,
		EnqueuedAt: time.Now(),
	}
}
