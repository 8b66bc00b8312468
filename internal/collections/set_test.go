package collections_test

import (
	"testing"

	"github.com/Tomxuetao/vtc/internal/collections"
	"github.com/stretchr/testify/assert"
)

func TestNewSet(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		s := collections.NewSet[string]()
		assert.NotNil(t, s)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("set with initial values", func(t *testing.T) {
		s := collections.NewSet("a", "b", "c")
		assert.Equal(t, 3, s.Len())
		assert.True(t, s.Has("a"))
		assert.True(t, s.Has("b"))
		assert.True(t, s.Has("c"))
	})

	t.Run("set with duplicate initial values", func(t *testing.T) {
		s := collections.NewSet("a", "b", "a", "c", "b")
		assert.Equal(t, 3, s.Len(), "duplicates should be deduplicated")
	})
}

func TestNewSetFromCSV(t *testing.T) {
	t.Run("plain list", func(t *testing.T) {
		s := collections.NewSetFromCSV("tr,td,th")
		assert.Equal(t, 3, s.Len())
		assert.True(t, s.Has("tr"))
		assert.True(t, s.Has("td"))
		assert.True(t, s.Has("th"))
	})

	t.Run("whitespace and empties are trimmed", func(t *testing.T) {
		s := collections.NewSetFromCSV(" tr , td ,, th ,")
		assert.Equal(t, 3, s.Len())
		assert.True(t, s.Has("tr"))
		assert.False(t, s.Has(" tr "))
		assert.False(t, s.Has(""))
	})

	t.Run("empty string yields empty set", func(t *testing.T) {
		s := collections.NewSetFromCSV("")
		assert.Equal(t, 0, s.Len())
	})
}

func TestSetAddDelete(t *testing.T) {
	s := collections.NewSet[string]()
	s.Add("a", "b", "c")
	assert.Equal(t, 3, s.Len())

	s.Delete("b")
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Has("b"))
	assert.True(t, s.Has("a"))

	s.Delete("nope")
	assert.Equal(t, 2, s.Len(), "deleting a missing value is a no-op")
}

func TestSetHas(t *testing.T) {
	s := collections.NewSet("class", "style", "id")

	assert.True(t, s.Has("class"))
	assert.True(t, s.Has("style"))
	assert.False(t, s.Has("onclick"))
	assert.False(t, s.Has(""))
}

func TestSetMembers(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		members := collections.NewSet[int]().Members()
		assert.NotNil(t, members)
		assert.Len(t, members, 0)
	})

	t.Run("members round trip", func(t *testing.T) {
		s := collections.NewSet(1, 2, 3)
		assert.ElementsMatch(t, []int{1, 2, 3}, s.Members())
	})
}
