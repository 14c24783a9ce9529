package fannkuch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFactorials(t *testing.T) {
	f, err := NewFactorials(12)
	require.NoError(t, err)
	assert.Equal(t, 12, f.N())
	assert.Equal(t, 479001600, f.Total())
	assert.Equal(t, Factorials{1, 1, 2, 6, 24, 120}, f[:6])
}

func TestNewFactorialsOutOfRange(t *testing.T) {
	for _, n := range []int{-1, 13, 100} {
		_, err := NewFactorials(n)
		assert.ErrorIs(t, err, ErrOutOfRange, "n=%d", n)
	}
}

func TestNewFactorialsZero(t *testing.T) {
	f, err := NewFactorials(0)
	require.NoError(t, err)
	assert.Equal(t, 0, f.N())
	assert.Equal(t, 1, f.Total())
}
