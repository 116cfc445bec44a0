package idgen

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsInvalidWidth(t *testing.T) {
	for _, w := range []Width{0, 5, 7, 12, 64} {
		g, err := New(w, false)
		require.ErrorIs(t, err, ErrInvalidWidth)
		assert.Nil(t, g)
	}

	_, err := NewMixed(Width(8))
	require.ErrorIs(t, err, ErrInvalidWidth)
}

func TestGenerator_FirstIDEncodesOne(t *testing.T) {
	tests := []struct {
		name  string
		width Width
		mixed bool
		want  string
	}{
		{"narrow plain", Narrow, false, "BAAAAA"},
		{"wide plain", Wide, false, "BAAAAAAAAAA"},
		{"narrow mixed", Narrow, true, EncodeNarrowMixed(1).String()},
		{"wide mixed", Wide, true, EncodeWideMixed(1).String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.width, tt.mixed)
			require.NoError(t, err)
			assert.Equal(t, tt.width, g.Width())
			assert.Equal(t, tt.mixed, g.Mixed())
			assert.Zero(t, g.Issued())

			id := g.NextID()
			assert.Equal(t, tt.want, id.String())
			assert.Equal(t, tt.width, id.Width())
			assert.Equal(t, uint64(1), g.Issued())
		})
	}
}

func TestGenerator_NextIDStringOnFreshGenerator(t *testing.T) {
	g := NewNarrow()
	want := Encode(1, Narrow)
	assert.Equal(t, View(&want), g.NextIDString())
	assert.Equal(t, "CAAAAA", g.NextIDString())
}

func TestGenerator_SequentialPlain(t *testing.T) {
	const n = 5000
	for _, g := range []*Generator{NewNarrow(), NewWide()} {
		seen := make(map[string]bool, n)
		for i := uint64(1); i <= n; i++ {
			id := g.NextID()
			require.Equal(t, Encode(i, g.Width()).String(), id.String(), "value %d", i)
			require.False(t, seen[id.String()])
			seen[id.String()] = true
		}
		assert.Equal(t, uint64(n), g.Issued())
	}
}

func TestGenerator_SequentialMixedDistinct(t *testing.T) {
	g, err := NewMixed(Wide)
	require.NoError(t, err)

	const n = 20000
	seen := make(map[ID]struct{}, n)
	for i := 0; i < n; i++ {
		id := g.NextID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestGenerator_Concurrent(t *testing.T) {
	const (
		workers = 8
		perWork = 5000
		total   = workers * perWork
	)

	for _, mixed := range []bool{false, true} {
		g, err := New(Wide, mixed)
		require.NoError(t, err)

		results := make([][]ID, workers)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				ids := make([]ID, 0, perWork)
				for i := 0; i < perWork; i++ {
					ids = append(ids, g.NextID())
				}
				results[w] = ids
			}(w)
		}
		wg.Wait()

		seen := make(map[ID]struct{}, total)
		for _, ids := range results {
			for _, id := range ids {
				seen[id] = struct{}{}
			}
		}
		require.Len(t, seen, total, "mixed=%v", mixed)
		assert.Equal(t, uint64(total), g.Issued())

		if !mixed {
			// plain mode: exactly the encodings of 1..total, no gaps
			for v := uint64(1); v <= total; v++ {
				_, ok := seen[Encode(v, Wide)]
				require.True(t, ok, "missing value %d", v)
			}
		}
	}
}

func TestGenerator_ImplementsSource(t *testing.T) {
	var src Source = NewNarrow()
	code, err := src.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "BAAAAA", code)
}

func TestGenerator_NextIDNoAllocations(t *testing.T) {
	g, err := NewMixed(Wide)
	require.NoError(t, err)
	allocs := testing.AllocsPerRun(1000, func() {
		sinkID = g.NextID()
	})
	assert.Zero(t, allocs)
}

func BenchmarkGenerator_NextID(b *testing.B) {
	g := NewNarrow()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sinkID = g.NextID()
	}
}

func BenchmarkGenerator_NextIDMixedWide(b *testing.B) {
	g, _ := NewMixed(Wide)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sinkID = g.NextID()
	}
}

func BenchmarkGenerator_NextIDString(b *testing.B) {
	g := NewWide()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = g.NextIDString()
	}
}

func BenchmarkGenerator_Parallel(b *testing.B) {
	g := NewWide()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = g.NextID()
		}
	})
}
