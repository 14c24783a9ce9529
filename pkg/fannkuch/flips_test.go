package fannkuch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountFlips(t *testing.T) {
	tests := []struct {
		name string
		perm []int
		want int
	}{
		{"identity", []int{0, 1, 2, 3}, 1},
		{"swap head", []int{1, 0, 2, 3}, 1},
		{"one flip", []int{3, 1, 2, 0}, 1},
		{"two flips", []int{2, 0, 1}, 2},
		{"reverse", []int{3, 2, 1, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scratch := make([]int, len(tt.perm))
			assert.Equal(t, tt.want, CountFlips(tt.perm, scratch))
		})
	}
}

func TestCountFlipsDoesNotMutate(t *testing.T) {
	perm := []int{2, 4, 0, 3, 1}
	orig := append([]int(nil), perm...)
	CountFlips(perm, make([]int, len(perm)))
	assert.Equal(t, orig, perm)
}

func TestTraceLengthMatchesCountFlips(t *testing.T) {
	p := newTestPermuter(t, 6)
	scratch := make([]int, 6)
	total := p.fact.Total()

	for i := 0; i < total; i++ {
		perm := p.Perm()
		if perm[0] != 0 {
			tr := NewTrace(perm)
			require.Equal(t, CountFlips(perm, scratch), tr.Len(), "perm %v", perm)
			require.Equal(t, 0, tr.Stacks[tr.Len()-1][0])
		}
		if i+1 < total {
			p.Advance()
		}
	}
}

func TestTraceIdentity(t *testing.T) {
	tr := NewTrace([]int{0, 1, 2})
	assert.Zero(t, tr.Len())
	assert.Equal(t, []int{0, 1, 2}, tr.Start)
}

func TestTraceAt(t *testing.T) {
	tr, err := TraceAt(4, 23)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 0, 2}, tr.Start)
	assert.Equal(t, [][]int{{2, 0, 1, 3}, {1, 0, 2, 3}, {0, 1, 2, 3}}, tr.Stacks)
	assert.Equal(t, []int{4, 3, 2}, tr.Sizes)

	_, err = TraceAt(4, 24)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = TraceAt(13, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = TraceAt(0, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
