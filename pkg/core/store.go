package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store owns the collection of notes and their annotations.
//
// Every mutation is synchronous and write-through: the next whole State is
// built, handed to the Persister, and only swapped in once the write
// succeeded. Readers therefore always observe a complete post-mutation
// snapshot. Mutations aimed at unknown ids are silent no-ops.
type Store struct {
	mu        sync.RWMutex
	persister Persister
	state     State
	version   int

	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	subs    map[int]func(State)
	nextSub int

	mutations uint64
	lastSave  time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for mutation and persistence messages.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the generator for note and annotation ids.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithVersion sets the schema version tag written with every save.
func WithVersion(v int) StoreOption {
	return func(s *Store) {
		s.version = v
	}
}

// NewStore creates a Store backed by p. The store starts empty; call Load to
// read the persisted record.
func NewStore(p Persister, opts ...StoreOption) *Store {
	s := &Store{
		persister: p,
		state:     EmptyState(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		newID:     uuid.NewString,
		subs:      make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NotePatch lists the user-editable note fields. Nil fields are left as-is.
type NotePatch struct {
	Title   *string
	Content *string
}

// PDFNoteInput carries the result of a PDF import.
type PDFNoteInput struct {
	Title            string
	Content          string
	Pages            []string
	OriginalFileName string
}

// AnnotationInput is an annotation without its id.
type AnnotationInput struct {
	Type        AnnotationType
	Color       string
	Text        string
	StartOffset int
	EndOffset   int
	Tags        []string
	Page        int
}

// AnnotationPatch lists mutable annotation fields. Nil fields are left as-is.
type AnnotationPatch struct {
	Type        *AnnotationType
	Color       *string
	Text        *string
	StartOffset *int
	EndOffset   *int
	Tags        *[]string
	Page        *int
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}

// Load replaces the in-memory state with the persisted record.
func (s *Store) Load(ctx context.Context) error {
	env, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if env.Version != s.version {
		s.logger.Warn("persisted state version differs", "persisted", env.Version, "current", s.version)
	}

	s.mu.Lock()
	s.state = env.State.Clone()
	snapshot, subs := s.publishLocked()
	s.mu.Unlock()

	s.logger.Debug("state loaded", "notes", len(snapshot.Notes))
	notify(subs, snapshot)
	return nil
}

// Reload is Load under the name used after a reset.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// Reset overwrites the persisted record with an empty state and reloads.
// It is the only supported way to clear everything.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	err := s.persister.Save(WithOperation(ctx, "reset"), Envelope{State: EmptyState(), Version: s.version})
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("reset failed", "error", err)
		return fmt.Errorf("%w: reset: %w", ErrPersist, err)
	}
	s.logger.Info("state reset")
	return s.Reload(ctx)
}

// CreateNote adds a blank note and makes it active.
func (s *Store) CreateNote(ctx context.Context) (Note, error) {
	now := s.now()
	note := Note{
		ID:          s.newID(),
		Title:       DefaultNoteTitle,
		Content:     "",
		CreatedAt:   now,
		UpdatedAt:   now,
		Annotations: []Annotation{},
	}
	err := s.mutate(ctx, "create note", func(st *State) bool {
		st.Notes = append(st.Notes, note)
		st.ActiveNoteID = note.ID
		return true
	})
	if err != nil {
		return Note{}, err
	}
	return note.clone(), nil
}

// CreatePDFNote adds a paginated note built from an imported PDF and makes
// it active. The reader starts on page 1, or stays unset when there are no
// pages.
func (s *Store) CreatePDFNote(ctx context.Context, in PDFNoteInput) (Note, error) {
	now := s.now()
	note := Note{
		ID:               s.newID(),
		Title:            in.Title,
		Content:          in.Content,
		CreatedAt:        now,
		UpdatedAt:        now,
		Annotations:      []Annotation{},
		IsPDF:            true,
		Pages:            slices.Clone(in.Pages),
		OriginalFileName: in.OriginalFileName,
	}
	if len(note.Pages) > 0 {
		note.CurrentPage = 1
	} else {
		note.Pages = []string{}
	}
	err := s.mutate(ctx, "create pdf note", func(st *State) bool {
		st.Notes = append(st.Notes, note)
		st.ActiveNoteID = note.ID
		return true
	})
	if err != nil {
		return Note{}, err
	}
	return note.clone(), nil
}

// UpdateNote merges patch into the note with the given id and refreshes its
// UpdatedAt. Existing annotation offsets are not re-derived.
func (s *Store) UpdateNote(ctx context.Context, id string, patch NotePatch) error {
	return s.mutate(ctx, "update note", func(st *State) bool {
		n := findNote(st, id)
		if n == nil {
			return false
		}
		if patch.Title != nil {
			n.Title = *patch.Title
		}
		if patch.Content != nil {
			n.Content = *patch.Content
		}
		n.UpdatedAt = s.now()
		return true
	})
}

// DeleteNote removes a note together with all of its annotations. Deleting
// the active note clears the active pointer.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete note", func(st *State) bool {
		i := slices.IndexFunc(st.Notes, func(n Note) bool { return n.ID == id })
		if i < 0 {
			return false
		}
		st.Notes = slices.Delete(st.Notes, i, i+1)
		if st.ActiveNoteID == id {
			st.ActiveNoteID = ""
		}
		return true
	})
}

// SetActiveNote moves the active-note pointer. An empty id clears it. The id
// is not validated; readers must cope with a dangling pointer.
func (s *Store) SetActiveNote(ctx context.Context, id string) error {
	return s.mutate(ctx, "set active note", func(st *State) bool {
		st.ActiveNoteID = id
		return true
	})
}

// SetCurrentPage moves the reader of a PDF note. Requests for unknown notes,
// plain notes, or pages outside [1, len(Pages)] are ignored.
func (s *Store) SetCurrentPage(ctx context.Context, noteID string, page int) error {
	return s.mutate(ctx, "set current page", func(st *State) bool {
		n := findNote(st, noteID)
		if n == nil || !n.IsPDF || page < 1 || page > len(n.Pages) {
			return false
		}
		n.CurrentPage = page
		return true
	})
}

// AddAnnotation appends a new annotation to the note and returns it with its
// assigned id. If the note does not exist nothing happens and the zero
// Annotation is returned.
func (s *Store) AddAnnotation(ctx context.Context, noteID string, in AnnotationInput) (Annotation, error) {
	ann := Annotation{
		ID:          s.newID(),
		Type:        in.Type,
		Color:       in.Color,
		Text:        in.Text,
		StartOffset: in.StartOffset,
		EndOffset:   in.EndOffset,
		Tags:        dedupeTags(in.Tags),
		Page:        in.Page,
	}
	added := false
	err := s.mutate(ctx, "add annotation", func(st *State) bool {
		n := findNote(st, noteID)
		if n == nil {
			return false
		}
		n.Annotations = append(n.Annotations, ann)
		n.UpdatedAt = s.now()
		added = true
		return true
	})
	if err != nil || !added {
		return Annotation{}, err
	}
	return ann.clone(), nil
}

// UpdateAnnotation merges patch into an annotation. Unknown note or
// annotation ids are ignored.
func (s *Store) UpdateAnnotation(ctx context.Context, noteID, annotationID string, patch AnnotationPatch) error {
	return s.mutate(ctx, "update annotation", func(st *State) bool {
		n := findNote(st, noteID)
		if n == nil {
			return false
		}
		i := slices.IndexFunc(n.Annotations, func(a Annotation) bool { return a.ID == annotationID })
		if i < 0 {
			return false
		}
		a := &n.Annotations[i]
		if patch.Type != nil {
			a.Type = *patch.Type
		}
		if patch.Color != nil {
			a.Color = *patch.Color
		}
		if patch.Text != nil {
			a.Text = *patch.Text
		}
		if patch.StartOffset != nil {
			a.StartOffset = *patch.StartOffset
		}
		if patch.EndOffset != nil {
			a.EndOffset = *patch.EndOffset
		}
		if patch.Tags != nil {
			a.Tags = dedupeTags(*patch.Tags)
		}
		if patch.Page != nil {
			a.Page = *patch.Page
		}
		n.UpdatedAt = s.now()
		return true
	})
}

// DeleteAnnotation removes one annotation. Unknown ids are ignored.
func (s *Store) DeleteAnnotation(ctx context.Context, noteID, annotationID string) error {
	return s.mutate(ctx, "delete annotation", func(st *State) bool {
		n := findNote(st, noteID)
		if n == nil {
			return false
		}
		i := slices.IndexFunc(n.Annotations, func(a Annotation) bool { return a.ID == annotationID })
		if i < 0 {
			return false
		}
		n.Annotations = slices.Delete(n.Annotations, i, i+1)
		n.UpdatedAt = s.now()
		return true
	})
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Notes returns a copy of every note in insertion order.
func (s *Store) Notes() []Note {
	return s.Snapshot().Notes
}

// Note returns a copy of the note with the given id.
func (s *Store) Note(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.state.Notes {
		if n.ID == id {
			return n.clone(), true
		}
	}
	return Note{}, false
}

// ActiveNote returns the active note. A cleared or dangling pointer yields
// false.
func (s *Store) ActiveNote() (Note, bool) {
	s.mu.RLock()
	id := s.state.ActiveNoteID
	s.mu.RUnlock()
	if id == "" {
		return Note{}, false
	}
	return s.Note(id)
}

// Annotation returns a copy of one annotation of one note.
func (s *Store) Annotation(noteID, annotationID string) (Annotation, bool) {
	n, ok := s.Note(noteID)
	if !ok {
		return Annotation{}, false
	}
	return n.Annotation(annotationID)
}

// Tags returns every tag in use across all notes, first-seen order.
func (s *Store) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Tags(s.state.Notes)
}

// Subscribe registers fn to be called with a snapshot after every successful
// mutation, load or reset. The returned function unregisters it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// mutate applies fn to a copy of the state. When fn reports a change the copy
// is persisted and swapped in; a failed save leaves the old state in place.
func (s *Store) mutate(ctx context.Context, op string, fn func(st *State) bool) error {
	s.mu.Lock()
	next := s.state.Clone()
	if !fn(&next) {
		s.mu.Unlock()
		s.logger.Debug("mutation target not found", "op", op)
		return nil
	}

	if err := s.persister.Save(WithOperation(ctx, op), Envelope{State: next, Version: s.version}); err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to persist state", "op", op, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrPersist, op, err)
	}

	s.state = next
	s.mutations++
	s.lastSave = s.now()
	snapshot, subs := s.publishLocked()
	s.mu.Unlock()

	s.logger.Debug("state mutated", "op", op, "notes", len(snapshot.Notes))
	notify(subs, snapshot)
	return nil
}

// publishLocked copies what subscribers need while s.mu is held.
func (s *Store) publishLocked() (State, []func(State)) {
	subs := make([]func(State), 0, len(s.subs))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	return s.state.Clone(), subs
}

func notify(subs []func(State), snapshot State) {
	for _, fn := range subs {
		fn(snapshot.Clone())
	}
}

func findNote(st *State, id string) *Note {
	for i := range st.Notes {
		if st.Notes[i].ID == id {
			return &st.Notes[i]
		}
	}
	return nil
}
