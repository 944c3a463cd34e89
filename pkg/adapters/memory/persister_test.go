package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/adapters/memory"
	"github.com/aretw0/folio/pkg/core"
)

func TestPersister(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing Record Is Empty", func(t *testing.T) {
		env, err := memory.New().Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, core.EmptyState(), env.State)
		assert.Zero(t, env.Version)
	})

	t.Run("Saved Copy Is Isolated", func(t *testing.T) {
		p := memory.New()
		st := core.State{Notes: []core.Note{{ID: "n1", Title: "a", Annotations: []core.Annotation{}}}, ActiveNoteID: "n1"}
		require.NoError(t, p.Save(ctx, core.Envelope{State: st, Version: 1}))
		st.Notes[0].Title = "mutated"

		env, err := p.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "a", env.State.Notes[0].Title)
		assert.Equal(t, 1, env.Version)
		assert.Equal(t, memory.PersisterState{Saves: 1, Stored: true}, p.State())
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.Error(t, memory.New().Save(cctx, core.Envelope{State: core.EmptyState()}))
	})
}
