package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPeriodSet(t *testing.T) {
	t.Run("orders and deduplicates", func(t *testing.T) {
		set, bad := NewPeriodSet([]string{"3rd", "1st", "3rd", "2nd"})
		require.Empty(t, bad)
		assert.Equal(t, []string{"1st", "2nd", "3rd"}, set.Labels())
	})

	t.Run("rejects unknown label", func(t *testing.T) {
		set, bad := NewPeriodSet([]string{"1st", "6th"})
		assert.Equal(t, "6th", bad)
		assert.Nil(t, set)
	})

	t.Run("empty input yields empty set", func(t *testing.T) {
		set, bad := NewPeriodSet(nil)
		require.Empty(t, bad)
		assert.Len(t, set, 0)
	})
}

func TestPeriodSetIntersect(t *testing.T) {
	a, _ := NewPeriodSet([]string{"2nd", "3rd"})
	b, _ := NewPeriodSet([]string{"3rd", "4th"})
	c, _ := NewPeriodSet([]string{"1st", "2nd"})

	assert.Equal(t, []string{"3rd"}, a.Intersect(b).Labels())
	assert.Empty(t, b.Intersect(c))
	assert.Equal(t, []string{"2nd"}, a.Intersect(c).Labels())
}

func TestParseResourceType(t *testing.T) {
	for _, tag := range []string{"STATION_POOL", "SCIENCE_LAB", "MAKER_LAB", "KITCHEN", "LIBRARY_ROOM", "AUDITORIUM"} {
		rt, ok := ParseResourceType(tag)
		assert.True(t, ok, tag)
		assert.Equal(t, ResourceType(tag), rt)
	}

	_, ok := ParseResourceType("GYM")
	assert.False(t, ok)
}

func TestParseShift(t *testing.T) {
	_, ok := ParseShift("MORNING")
	assert.True(t, ok)

	_, ok = ParseShift("EVENING")
	assert.False(t, ok)
}
