package amqp

import (
	"encoding/json"
	"time"
)

const (
	KindSync   = "sync"
	KindDelete = "delete"
)

// LedgerEvent notifies the export worker that a ledger document changed.
// It carries only the id and kind; the worker re-reads the store, so stale
// or duplicated deliveries are harmless.
type LedgerEvent struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSyncEvent(id string) *LedgerEvent {
	return &LedgerEvent{Kind: KindSync, ID: id, Timestamp: time.Now()}
}

func NewDeleteEvent(id string) *LedgerEvent {
	return &LedgerEvent{Kind: KindDelete, ID: id, Timestamp: time.Now()}
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
