package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggle_AddsInOrder(t *testing.T) {
	var s Set
	assert.True(t, s.Toggle(5))
	assert.True(t, s.Toggle(7))
	assert.True(t, s.Toggle(1))
	assert.Equal(t, []int{5, 7, 1}, s.IDs())
	assert.Equal(t, 3, s.Len())
}

func TestToggle_IsItsOwnInverse(t *testing.T) {
	s := New(3, 1, 2)
	before := s.IDs()

	assert.True(t, s.Toggle(9))
	assert.False(t, s.Toggle(9))
	assert.Equal(t, before, s.IDs())

	assert.False(t, s.Toggle(1))
	assert.True(t, s.Toggle(1))
	assert.ElementsMatch(t, before, s.IDs())
}

func TestToggle_RemovesFromMiddle(t *testing.T) {
	s := New(3, 1, 2)
	s.Toggle(1)
	assert.Equal(t, []int{3, 2}, s.IDs())
	assert.False(t, s.Contains(1))
}

func TestNew_IgnoresRepeats(t *testing.T) {
	s := New(4, 4, 2)
	assert.Equal(t, []int{4, 2}, s.IDs())
}

func TestIDs_ReturnsCopy(t *testing.T) {
	s := New(1, 2)
	ids := s.IDs()
	ids[0] = 99
	assert.Equal(t, []int{1, 2}, s.IDs())
}

func TestClear(t *testing.T) {
	s := New(1, 2, 3)
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.IDs())
	assert.False(t, s.Contains(2))
	assert.True(t, s.Toggle(2))
}
