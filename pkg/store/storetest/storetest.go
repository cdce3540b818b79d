// Package storetest provides the behavioral contract every store.Store
// backend must satisfy, as a reusable test suite.
//
// Backend packages call [Run] from their own tests:
//
//	func TestContract(t *testing.T) {
//	    storetest.Run(t, func(t *testing.T) store.Store {
//	        return newTestStore(t)
//	    })
//	}
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/narrative/pkg/graph"
	"github.com/matzehuels/narrative/pkg/store"
)

// Factory returns a fresh, empty store. It should register cleanup with t.
type Factory func(t *testing.T) store.Store

// Sample returns a small record with an entry link, a choice link, metadata
// and a creation time, suitable for round-trip checks.
func Sample(name string) *graph.Record {
	return &graph.Record{
		Name:    name,
		EntryID: "entry",
		Nodes: []graph.NodeRecord{
			{ID: "a", Text: "Hello", Kind: "dialogue", Position: graph.Position{X: 400, Y: 200}},
			{ID: "b", Text: "Goodbye", Kind: "speech", Position: graph.Position{X: 700, Y: 260.5}},
		},
		Links: []graph.LinkRecord{
			{SourceID: "entry", SourcePortLabel: "Next", TargetID: "a"},
			{SourceID: "a", SourcePortLabel: "Option 1", TargetID: "b"},
		},
		Meta:      map[string]any{"author": "sam"},
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC),
	}
}

// Run executes the full contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		rec, err := s.Get(context.Background(), "missing")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("PutGet", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		want := Sample("intro")

		require.NoError(t, s.Put(ctx, want))
		got, err := s.Get(ctx, "intro")
		require.NoError(t, err)
		require.NotNil(t, got)

		assertRecordEqual(t, want, got)
	})

	t.Run("PutReplaces", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		first := Sample("intro")
		require.NoError(t, s.Put(ctx, first))

		second := Sample("intro")
		second.Nodes = second.Nodes[:1]
		second.Links = second.Links[:1]
		require.NoError(t, s.Put(ctx, second))

		got, err := s.Get(ctx, "intro")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Len(t, got.Nodes, 1)
		assert.Len(t, got.Links, 1)

		names, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"intro"}, names)
	})

	t.Run("ReturnedRecordIsDetached", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Put(ctx, Sample("intro")))

		got, err := s.Get(ctx, "intro")
		require.NoError(t, err)
		got.Nodes[0].Text = "mutated"

		again, err := s.Get(ctx, "intro")
		require.NoError(t, err)
		assert.Equal(t, "Hello", again.Nodes[0].Text)
	})

	t.Run("Delete", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Put(ctx, Sample("intro")))

		require.NoError(t, s.Delete(ctx, "intro"))
		rec, err := s.Get(ctx, "intro")
		require.NoError(t, err)
		assert.Nil(t, rec)

		// Deleting again is not an error.
		assert.NoError(t, s.Delete(ctx, "intro"))
	})

	t.Run("ListSorted", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		for _, name := range []string{"charlie", "alpha", "New Narrative"} {
			require.NoError(t, s.Put(ctx, Sample(name)))
		}

		names, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"New Narrative", "alpha", "charlie"}, names)
	})

	t.Run("ConcurrentPut", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for i := range 8 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- s.Put(ctx, Sample(fmt.Sprintf("rec-%d", i)))
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		names, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, names, 8)
	})
}

func assertRecordEqual(t *testing.T, want, got *graph.Record) {
	t.Helper()
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.EntryID, got.EntryID)
	assert.Equal(t, want.Nodes, got.Nodes)
	assert.Equal(t, want.Links, got.Links)
	assert.Equal(t, "sam", got.Meta["author"])
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "UpdatedAt = %v, want %v", got.UpdatedAt, want.UpdatedAt)
}
