package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetDeduplicatesAndKeepsOrder(t *testing.T) {
	s := NewSet("read", "write", "read", "", "admin")

	require.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"read", "write", "admin"}, s.Names())
	assert.True(t, s.Has("write"))
	assert.False(t, s.Has(""))
}

func TestZeroSetIsEmpty(t *testing.T) {
	var s Set

	assert.True(t, s.IsEmpty())
	assert.False(t, s.Has("read"))
	assert.Empty(t, s.Names())
}

func TestWithDoesNotMutateReceiver(t *testing.T) {
	base := NewSet("a")
	next := base.With("b", "a")

	assert.Equal(t, []string{"a"}, base.Names())
	assert.Equal(t, []string{"a", "b"}, next.Names())
}

func TestNamesReturnsCopy(t *testing.T) {
	s := NewSet("a", "b")
	names := s.Names()
	names[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, s.Names())
}

func TestEqualIgnoresOrder(t *testing.T) {
	assert.True(t, NewSet("a", "b").Equal(NewSet("b", "a")))
	assert.False(t, NewSet("a", "b").Equal(NewSet("a")))
	assert.False(t, NewSet("a", "b").Equal(NewSet("a", "c")))
	assert.True(t, Set{}.Equal(NewSet()))
}
