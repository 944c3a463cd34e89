package core

import (
	"context"
	"fmt"
	"time"
)

// Persister is the durable storage strategy injected into a Store.
// Implementations hold exactly one record (see StorageKey).
type Persister interface {
	// Save replaces the persisted record with env.
	Save(ctx context.Context, env Envelope) error

	// Load returns the persisted record. A missing record is not an error:
	// it loads as EmptyState with version 0.
	Load(ctx context.Context) (Envelope, error)
}

type operationKey struct{}

// WithOperation records on ctx the store operation a Save persists, e.g.
// "add annotation". Persisters may use it to describe the change.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

// Operation returns the operation recorded by WithOperation.
func Operation(ctx context.Context) (string, bool) {
	op, ok := ctx.Value(operationKey{}).(string)
	return op, ok && op != ""
}

// Watchable is implemented by persisters that can report changes made to the
// record from outside the running process.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// EventType represents the kind of change observed on the record.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to the persisted record.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s at %s", e.Type, e.ID, time.Unix(e.Timestamp, 0).Format(time.RFC3339))
}
