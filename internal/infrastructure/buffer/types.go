package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EntityMember = "member"
	EntityTask   = "task"
	EntityItem   = "item"

	// DefaultPriority keeps household writes in a single FIFO lane so a
	// create and a later delete of the same record replay in order.
	DefaultPriority = 3
)

// Entry is a write that could not reach primary storage and waits for replay.
type Entry struct {
	ID        string          `json:"id"`
	Entity    string          `json:"entity"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
	Priority  int             `json:"priority"`
	Retries   int             `json:"retries"`
	LastError string          `json:"last_error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

// NewEntry serializes payload into an entry for the given entity and operation.
func NewEntry(entity, operation string, payload any) (Entry, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Entity:    entity,
		Operation: operation,
		Data:      data,
		Priority:  DefaultPriority,
	}, nil
}

// Decode unmarshals the entry payload into dst.
func (e Entry) Decode(dst any) error {
	return json.Unmarshal(e.Data, dst)
}

func (e *Entry) normalize() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Priority <= 0 || e.Priority > 5 {
		e.Priority = DefaultPriority
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
}
