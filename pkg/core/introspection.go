package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Notes         int       `json:"notes"`
	Annotations   int       `json:"annotations"`
	ActiveNoteID  string    `json:"active_note_id,omitempty"`
	Version       int       `json:"version"`
	Mutations     uint64    `json:"mutations"`
	LastSave      time.Time `json:"last_save,omitzero"`
	Subscribers   int       `json:"subscribers"`
	PersisterType string    `json:"persister_type"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	persisterType := "unknown"
	if s.persister != nil {
		persisterType = "persister"
		if comp, ok := s.persister.(introspection.Component); ok {
			persisterType = comp.ComponentType()
		}
	}

	annotations := 0
	for _, n := range s.state.Notes {
		annotations += len(n.Annotations)
	}

	return StoreState{
		Notes:         len(s.state.Notes),
		Annotations:   annotations,
		ActiveNoteID:  s.state.ActiveNoteID,
		Version:       s.version,
		Mutations:     s.mutations,
		LastSave:      s.lastSave,
		Subscribers:   len(s.subs),
		PersisterType: persisterType,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
