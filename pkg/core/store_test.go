package core_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/core"
)

// MockPersister keeps the last saved envelope in memory.
type MockPersister struct {
	mu      sync.Mutex
	env     core.Envelope
	saves   int
	lastOp  string
	failErr error
}

func (m *MockPersister) Save(ctx context.Context, env core.Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.env = core.Envelope{State: env.State.Clone(), Version: env.Version}
	m.saves++
	m.lastOp, _ = core.Operation(ctx)
	return nil
}

func (m *MockPersister) Load(ctx context.Context) (core.Envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.env.State.Notes == nil {
		return core.Envelope{State: core.EmptyState()}, nil
	}
	return core.Envelope{State: m.env.State.Clone(), Version: m.env.Version}, nil
}

func (m *MockPersister) ComponentType() string { return "mock" }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func tickingClock() func() time.Time {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func newTestStore(t *testing.T) (*core.Store, *MockPersister) {
	t.Helper()
	p := &MockPersister{}
	s := core.NewStore(p, core.WithIDGenerator(sequentialIDs()), core.WithClock(tickingClock()))
	require.NoError(t, s.Load(context.Background()))
	return s, p
}

func TestStore_Notes(t *testing.T) {
	ctx := context.Background()

	t.Run("Create Note", func(t *testing.T) {
		s, p := newTestStore(t)
		n, err := s.CreateNote(ctx)
		require.NoError(t, err)

		assert.Equal(t, "id-1", n.ID)
		assert.Equal(t, core.DefaultNoteTitle, n.Title)
		assert.Empty(t, n.Content)
		assert.NotNil(t, n.Annotations)
		assert.Equal(t, n.CreatedAt, n.UpdatedAt)
		assert.False(t, n.IsPDF)

		active, ok := s.ActiveNote()
		require.True(t, ok)
		assert.Equal(t, n.ID, active.ID)
		assert.Equal(t, 1, p.saves)
	})

	t.Run("Distinct IDs", func(t *testing.T) {
		s := core.NewStore(&MockPersister{})
		a, err := s.CreateNote(ctx)
		require.NoError(t, err)
		b, err := s.CreateNote(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
		assert.Len(t, s.Notes(), 2)
	})

	t.Run("Update Merges Fields", func(t *testing.T) {
		s, _ := newTestStore(t)
		n, _ := s.CreateNote(ctx)

		require.NoError(t, s.UpdateNote(ctx, n.ID, core.NotePatch{Content: core.Ptr("Hello world")}))
		got, ok := s.Note(n.ID)
		require.True(t, ok)
		assert.Equal(t, "Hello world", got.Content)
		assert.Equal(t, core.DefaultNoteTitle, got.Title)
		assert.True(t, got.UpdatedAt.After(n.UpdatedAt))
		assert.Equal(t, n.CreatedAt, got.CreatedAt)
	})

	t.Run("Unknown ID Is Silent", func(t *testing.T) {
		s, p := newTestStore(t)
		n, _ := s.CreateNote(ctx)
		before := s.Snapshot()

		require.NoError(t, s.UpdateNote(ctx, "missing", core.NotePatch{Title: core.Ptr("x")}))
		require.NoError(t, s.DeleteNote(ctx, "missing"))
		require.NoError(t, s.DeleteAnnotation(ctx, n.ID, "missing"))
		require.NoError(t, s.UpdateAnnotation(ctx, "missing", "missing", core.AnnotationPatch{}))

		assert.Equal(t, before, s.Snapshot())
		assert.Equal(t, 1, p.saves)
	})

	t.Run("Delete Cascades And Clears Active", func(t *testing.T) {
		s, _ := newTestStore(t)
		a, _ := s.CreateNote(ctx)
		b, _ := s.CreateNote(ctx)
		_, err := s.AddAnnotation(ctx, b.ID, core.AnnotationInput{Type: core.Highlight, Color: "yellow", Text: "x"})
		require.NoError(t, err)

		require.NoError(t, s.DeleteNote(ctx, b.ID))
		_, ok := s.Note(b.ID)
		assert.False(t, ok)
		_, ok = s.ActiveNote()
		assert.False(t, ok)
		assert.Empty(t, s.Snapshot().ActiveNoteID)

		_, ok = s.Note(a.ID)
		assert.True(t, ok)
	})

	t.Run("Delete Inactive Keeps Active", func(t *testing.T) {
		s, _ := newTestStore(t)
		a, _ := s.CreateNote(ctx)
		b, _ := s.CreateNote(ctx)

		require.NoError(t, s.DeleteNote(ctx, a.ID))
		assert.Equal(t, b.ID, s.Snapshot().ActiveNoteID)
	})

	t.Run("Dangling Active Pointer", func(t *testing.T) {
		s, _ := newTestStore(t)
		require.NoError(t, s.SetActiveNote(ctx, "ghost"))
		assert.Equal(t, "ghost", s.Snapshot().ActiveNoteID)
		_, ok := s.ActiveNote()
		assert.False(t, ok)
	})
}

func TestStore_PDFNotes(t *testing.T) {
	ctx := context.Background()
	input := core.PDFNoteInput{
		Title:            "report",
		Content:          "## Page 1\n\nA\n\n## Page 2\n\nB\n\n",
		Pages:            []string{"A", "B"},
		OriginalFileName: "report.pdf",
	}

	t.Run("Create Starts On First Page", func(t *testing.T) {
		s, _ := newTestStore(t)
		n, err := s.CreatePDFNote(ctx, input)
		require.NoError(t, err)
		assert.True(t, n.IsPDF)
		assert.Equal(t, 1, n.CurrentPage)
		assert.Equal(t, []string{"A", "B"}, n.Pages)
		assert.Equal(t, n.ID, s.Snapshot().ActiveNoteID)
	})

	t.Run("No Pages Has No Position", func(t *testing.T) {
		s, _ := newTestStore(t)
		n, err := s.CreatePDFNote(ctx, core.PDFNoteInput{Title: "blank", OriginalFileName: "blank.pdf"})
		require.NoError(t, err)
		assert.Zero(t, n.CurrentPage)
		assert.Zero(t, n.Page())
		assert.NotNil(t, n.Pages)

		require.NoError(t, s.SetCurrentPage(ctx, n.ID, 1))
		got, _ := s.Note(n.ID)
		assert.Zero(t, got.CurrentPage)
	})

	t.Run("Page Bounds", func(t *testing.T) {
		s, _ := newTestStore(t)
		n, _ := s.CreatePDFNote(ctx, input)

		require.NoError(t, s.SetCurrentPage(ctx, n.ID, 2))
		got, _ := s.Note(n.ID)
		assert.Equal(t, 2, got.CurrentPage)

		for _, page := range []int{0, -1, 3} {
			require.NoError(t, s.SetCurrentPage(ctx, n.ID, page))
			got, _ = s.Note(n.ID)
			assert.Equal(t, 2, got.CurrentPage, "page %d should be ignored", page)
		}
	})

	t.Run("Page Change Keeps UpdatedAt", func(t *testing.T) {
		s, _ := newTestStore(t)
		n, _ := s.CreatePDFNote(ctx, input)
		require.NoError(t, s.SetCurrentPage(ctx, n.ID, 2))
		got, _ := s.Note(n.ID)
		assert.Equal(t, n.UpdatedAt, got.UpdatedAt)
	})

	t.Run("Plain Note Has No Pages", func(t *testing.T) {
		s, _ := newTestStore(t)
		n, _ := s.CreateNote(ctx)
		require.NoError(t, s.SetCurrentPage(ctx, n.ID, 1))
		got, _ := s.Note(n.ID)
		assert.Zero(t, got.CurrentPage)
	})
}

func TestStore_Annotations(t *testing.T) {
	ctx := context.Background()

	t.Run("Add Assigns ID And Touches Note", func(t *testing.T) {
		s, _ := newTestStore(t)
		n, _ := s.CreateNote(ctx)
		require.NoError(t, s.UpdateNote(ctx, n.ID, core.NotePatch{Content: core.Ptr("Hello world")}))

		a, err := s.AddAnnotation(ctx, n.ID, core.AnnotationInput{
			Type: core.Highlight, Color: "yellow", Text: "world", StartOffset: 6, EndOffset: 11,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, a.ID)
		assert.Equal(t, []string{}, a.Tags)
		assert.Equal(t, "highlight-yellow", a.Class())

		got, _ := s.Annotation(n.ID, a.ID)
		assert.Equal(t, a, got)
	})

	t.Run("Add To Missing Note", func(t *testing.T) {
		s, p := newTestStore(t)
		a, err := s.AddAnnotation(ctx, "missing", core.AnnotationInput{Type: core.Underline, Color: "red", Text: "x"})
		require.NoError(t, err)
		assert.Zero(t, a)
		assert.Zero(t, p.saves)
	})

	t.Run("Unchecked Color", func(t *testing.T) {
		s, _ := newTestStore(t)
		n, _ := s.CreateNote(ctx)
		a, err := s.AddAnnotation(ctx, n.ID, core.AnnotationInput{Type: core.Highlight, Color: "red", Text: "x"})
		require.NoError(t, err)
		assert.Equal(t, "red", a.Color)
		assert.False(t, core.InPalette(a.Type, a.Color))
	})

	t.Run("Tag Add And Remove", func(t *testing.T) {
		s, _ := newTestStore(t)
		n, _ := s.CreateNote(ctx)
		a, _ := s.AddAnnotation(ctx, n.ID, core.AnnotationInput{Type: core.Highlight, Color: "yellow", Text: "x"})

		require.NoError(t, s.UpdateAnnotation(ctx, n.ID, a.ID, core.AnnotationPatch{Tags: &[]string{"todo", "todo", "idea"}}))
		got, _ := s.Annotation(n.ID, a.ID)
		assert.Equal(t, []string{"todo", "idea"}, got.Tags)
		assert.Equal(t, []string{"todo", "idea"}, s.Tags())

		require.NoError(t, s.UpdateAnnotation(ctx, n.ID, a.ID, core.AnnotationPatch{Tags: &[]string{}}))
		got, _ = s.Annotation(n.ID, a.ID)
		assert.Empty(t, got.Tags)
	})

	t.Run("Update Style", func(t *testing.T) {
		s, _ := newTestStore(t)
		n, _ := s.CreateNote(ctx)
		a, _ := s.AddAnnotation(ctx, n.ID, core.AnnotationInput{Type: core.Highlight, Color: "yellow", Text: "x"})

		require.NoError(t, s.UpdateAnnotation(ctx, n.ID, a.ID, core.AnnotationPatch{
			Type:  core.Ptr(core.Underline),
			Color: core.Ptr("orange"),
		}))
		got, _ := s.Annotation(n.ID, a.ID)
		assert.Equal(t, "underline-orange", got.Class())
		assert.Equal(t, "x", got.Text)
	})

	t.Run("Delete", func(t *testing.T) {
		s, _ := newTestStore(t)
		n, _ := s.CreateNote(ctx)
		a, _ := s.AddAnnotation(ctx, n.ID, core.AnnotationInput{Type: core.Highlight, Color: "yellow", Text: "x"})
		b, _ := s.AddAnnotation(ctx, n.ID, core.AnnotationInput{Type: core.Highlight, Color: "green", Text: "y"})

		require.NoError(t, s.DeleteAnnotation(ctx, n.ID, a.ID))
		got, _ := s.Note(n.ID)
		require.Len(t, got.Annotations, 1)
		assert.Equal(t, b.ID, got.Annotations[0].ID)
	})

	t.Run("Offsets Are Not Re-derived", func(t *testing.T) {
		s, _ := newTestStore(t)
		n, _ := s.CreateNote(ctx)
		require.NoError(t, s.UpdateNote(ctx, n.ID, core.NotePatch{Content: core.Ptr("Hello world")}))
		a, _ := s.AddAnnotation(ctx, n.ID, core.AnnotationInput{
			Type: core.Highlight, Color: "yellow", Text: "world", StartOffset: 6, EndOffset: 11,
		})

		require.NoError(t, s.UpdateNote(ctx, n.ID, core.NotePatch{Content: core.Ptr(">>> Hello world")}))
		got, _ := s.Annotation(n.ID, a.ID)
		assert.Equal(t, 6, got.StartOffset)
		assert.Equal(t, 11, got.EndOffset)
	})

	t.Run("Page Annotations", func(t *testing.T) {
		s, _ := newTestStore(t)
		n, _ := s.CreatePDFNote(ctx, core.PDFNoteInput{Title: "p", Pages: []string{"a", "b"}})
		_, _ = s.AddAnnotation(ctx, n.ID, core.AnnotationInput{Type: core.Highlight, Color: "yellow", Text: "a", Page: 1})
		_, _ = s.AddAnnotation(ctx, n.ID, core.AnnotationInput{Type: core.Highlight, Color: "yellow", Text: "b", Page: 2})

		got, _ := s.Note(n.ID)
		page2 := got.PageAnnotations(2)
		require.Len(t, page2, 1)
		assert.Equal(t, "b", page2[0].Text)
	})
}

func TestStore_Persistence(t *testing.T) {
	ctx := context.Background()

	t.Run("Reload Restores State", func(t *testing.T) {
		s, p := newTestStore(t)
		n, _ := s.CreateNote(ctx)
		_, _ = s.AddAnnotation(ctx, n.ID, core.AnnotationInput{Type: core.Highlight, Color: "yellow", Text: "x"})

		other := core.NewStore(p)
		require.NoError(t, other.Load(ctx))
		assert.Equal(t, s.Snapshot(), other.Snapshot())
	})

	t.Run("Reset Clears Everything", func(t *testing.T) {
		s, p := newTestStore(t)
		for i := 0; i < 3; i++ {
			_, err := s.CreateNote(ctx)
			require.NoError(t, err)
		}
		require.Len(t, s.Notes(), 3)

		require.NoError(t, s.Reset(ctx))
		assert.Empty(t, s.Notes())
		assert.Empty(t, s.Snapshot().ActiveNoteID)
		assert.Equal(t, core.EmptyState(), p.env.State)
		assert.Equal(t, "reset", p.lastOp)

		reloaded := core.NewStore(p)
		require.NoError(t, reloaded.Load(ctx))
		assert.Empty(t, reloaded.Notes())
		assert.Empty(t, reloaded.Snapshot().ActiveNoteID)
	})

	t.Run("Failed Save Rolls Back", func(t *testing.T) {
		s, p := newTestStore(t)
		n, _ := s.CreateNote(ctx)
		before := s.Snapshot()

		boom := errors.New("disk full")
		p.failErr = boom

		err := s.UpdateNote(ctx, n.ID, core.NotePatch{Title: core.Ptr("changed")})
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrPersist)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, before, s.Snapshot())

		_, err = s.CreateNote(ctx)
		assert.ErrorIs(t, err, core.ErrPersist)
		assert.Len(t, s.Notes(), 1)
	})

	t.Run("Version Tag", func(t *testing.T) {
		p := &MockPersister{}
		s := core.NewStore(p, core.WithVersion(3))
		_, err := s.CreateNote(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, p.env.Version)
	})
}

func TestStore_OperationContext(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)

	n, err := s.CreateNote(ctx)
	require.NoError(t, err)
	assert.Equal(t, "create note", p.lastOp)

	_, err = s.AddAnnotation(ctx, n.ID, core.AnnotationInput{Type: core.Highlight, Color: "yellow", Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "add annotation", p.lastOp)

	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, "reset", p.lastOp)

	_, ok := core.Operation(ctx)
	assert.False(t, ok)
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var seen []int
	unsubscribe := s.Subscribe(func(st core.State) {
		seen = append(seen, len(st.Notes))
	})

	_, _ = s.CreateNote(ctx)
	_, _ = s.CreateNote(ctx)
	require.NoError(t, s.UpdateNote(ctx, "missing", core.NotePatch{}))
	unsubscribe()
	_, _ = s.CreateNote(ctx)

	assert.Equal(t, []int{1, 2}, seen)
}

func TestStore_Introspection(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	n, _ := s.CreateNote(ctx)
	_, _ = s.AddAnnotation(ctx, n.ID, core.AnnotationInput{Type: core.Highlight, Color: "yellow", Text: "x"})

	st, ok := s.State().(core.StoreState)
	require.True(t, ok)
	assert.Equal(t, 1, st.Notes)
	assert.Equal(t, 1, st.Annotations)
	assert.Equal(t, n.ID, st.ActiveNoteID)
	assert.Equal(t, uint64(2), st.Mutations)
	assert.Equal(t, "mock", st.PersisterType)
	assert.Equal(t, "store", s.ComponentType())
}

func TestStore_Concurrency(t *testing.T) {
	ctx := context.Background()
	s := core.NewStore(&MockPersister{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.CreateNote(ctx)
			if err != nil {
				return
			}
			_, _ = s.AddAnnotation(ctx, n.ID, core.AnnotationInput{Type: core.Highlight, Color: "yellow", Text: "x"})
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	notes := s.Notes()
	assert.Len(t, notes, 20)
	for _, n := range notes {
		assert.Len(t, n.Annotations, 1)
	}
}
