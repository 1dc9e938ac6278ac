package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"afternoon", "night"} {
		kind, err := ParseKind(valid)
		require.NoError(t, err)
		assert.Equal(t, Kind(valid), kind)
	}
	for _, invalid := range []string{"", "morning", "Afternoon"} {
		_, err := ParseKind(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, DefaultRoster, s.Roster)
	assert.Equal(t, DefaultRoster, s.Queue)
	assert.Empty(t, s.History)
	assert.Empty(t, s.Credits)
	assert.Empty(t, s.PINs)
}

func TestCloneIsDeep(t *testing.T) {
	s := Default()
	s.Credits["Alex"] = 1.5
	s.PINs["Alex"] = "1234"

	c := s.Clone()
	c.Roster[0] = "Changed"
	c.Credits["Alex"] = 9
	c.PINs["Alex"] = "0000"
	c.Paused["Drew"] = true

	assert.Equal(t, "Alex", s.Roster[0])
	assert.Equal(t, 1.5, s.Credits["Alex"])
	assert.Equal(t, "1234", s.PINs["Alex"])
	assert.False(t, s.Paused["Drew"])
}

func TestNormalize(t *testing.T) {
	t.Run("nil maps become empty", func(t *testing.T) {
		s := State{Roster: []string{"A"}, Queue: []string{"A"}}
		n := s.Normalize()
		assert.NotNil(t, n.Paused)
		assert.NotNil(t, n.Credits)
		assert.NotNil(t, n.PINs)
		assert.NotNil(t, n.History)
	})

	t.Run("queue rebuilt when not a permutation of the roster", func(t *testing.T) {
		s := State{Roster: []string{"A", "B"}, Queue: []string{"A", "A"}}
		assert.Equal(t, []string{"A", "B"}, s.Normalize().Queue)

		s = State{Roster: []string{"A", "B"}, Queue: []string{"A"}}
		assert.Equal(t, []string{"A", "B"}, s.Normalize().Queue)
	})

	t.Run("valid queue preserved", func(t *testing.T) {
		s := State{Roster: []string{"A", "B"}, Queue: []string{"B", "A"}}
		assert.Equal(t, []string{"B", "A"}, s.Normalize().Queue)
	})
}
