package core

import (
	"encoding/json"
	"fmt"
)

// StorageKey names the single persisted record.
const StorageKey = "folio-storage"

// State is the complete durable record: every note (annotations nested
// inline) plus the active-note pointer.
type State struct {
	Notes []Note
	// ActiveNoteID is empty when no note is active (persisted as null).
	ActiveNoteID string
}

// Envelope is the versioned wrapper around State that persisters store.
type Envelope struct {
	State   State
	Version int
}

// EmptyState is the state written by a reset.
func EmptyState() State {
	return State{Notes: []Note{}}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	notes := make([]Note, len(s.Notes))
	for i, n := range s.Notes {
		notes[i] = n.clone()
	}
	return State{Notes: notes, ActiveNoteID: s.ActiveNoteID}
}

// wireState mirrors the persisted layout:
// {"state": {"notes": [...], "activeNoteId": null}, "version": 0}.
type wireState struct {
	Notes        []Note  `json:"notes" yaml:"notes"`
	ActiveNoteID *string `json:"activeNoteId" yaml:"activeNoteId"`
}

type wireEnvelope struct {
	State   wireState `json:"state" yaml:"state"`
	Version int       `json:"version" yaml:"version"`
}

func (e Envelope) toWire() wireEnvelope {
	w := wireEnvelope{Version: e.Version}
	w.State.Notes = e.State.Notes
	if w.State.Notes == nil {
		w.State.Notes = []Note{}
	}
	if e.State.ActiveNoteID != "" {
		id := e.State.ActiveNoteID
		w.State.ActiveNoteID = &id
	}
	return w
}

func (w wireEnvelope) toEnvelope() Envelope {
	e := Envelope{Version: w.Version}
	e.State.Notes = w.State.Notes
	if e.State.Notes == nil {
		e.State.Notes = []Note{}
	}
	for i := range e.State.Notes {
		if e.State.Notes[i].Annotations == nil {
			e.State.Notes[i].Annotations = []Annotation{}
		}
		for j := range e.State.Notes[i].Annotations {
			if e.State.Notes[i].Annotations[j].Tags == nil {
				e.State.Notes[i].Annotations[j].Tags = []string{}
			}
		}
	}
	if w.State.ActiveNoteID != nil {
		e.State.ActiveNoteID = *w.State.ActiveNoteID
	}
	return e
}

// MarshalJSON implements json.Marshaler using the persisted layout.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.toWire())
}

// UnmarshalJSON implements json.Unmarshaler. Optional fields may be absent.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var w wireEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	*e = w.toEnvelope()
	return nil
}

// MarshalYAML implements yaml.Marshaler with the same keys as JSON.
func (e Envelope) MarshalYAML() (interface{}, error) {
	return e.toWire(), nil
}

// UnmarshalYAML uses the legacy unmarshaler form, which yaml.v3 still honours.
func (e *Envelope) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var w wireEnvelope
	if err := unmarshal(&w); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	*e = w.toEnvelope()
	return nil
}
