package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mquinn/chorewheel/internal/models"
	"github.com/mquinn/chorewheel/internal/rotation"
)

func testState() models.State {
	s := models.Default()
	s.Roster = []string{"Ana", "Ben"}
	s.Queue = []string{"Ana", "Ben"}
	return s
}

func TestSetPIN(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		wantErr   error
		wantSet   bool
	}{
		{"four digits ok", "1234", nil, true},
		{"eight digits ok", "12345678", nil, true},
		{"whitespace trimmed", "  4321 ", nil, true},
		{"too short", "123", ErrInvalidPIN, false},
		{"too long", "123456789", ErrInvalidPIN, false},
		{"non-numeric", "12a4", ErrInvalidPIN, false},
		{"empty clears", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := SetPIN(testState(), "Ana", tt.candidate)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			_, set := s.PINs["Ana"]
			assert.Equal(t, tt.wantSet, set)
		})
	}

	t.Run("rejected candidate leaves the old pin", func(t *testing.T) {
		s, err := SetPIN(testState(), "Ana", "1234")
		require.NoError(t, err)

		s, err = SetPIN(s, "Ana", "12")
		require.ErrorIs(t, err, ErrInvalidPIN)
		assert.Equal(t, "1234", s.PINs["Ana"])
	})

	t.Run("unknown member fails", func(t *testing.T) {
		_, err := SetPIN(testState(), "Zed", "1234")
		assert.ErrorIs(t, err, rotation.ErrUnknownParticipant)
	})
}

func TestAuthorize(t *testing.T) {
	t.Run("no pin means always allowed", func(t *testing.T) {
		s := testState()
		assert.True(t, Authorize(s, "Ana", ""))
		assert.True(t, Authorize(s, "Ana", "anything"))
	})

	t.Run("pin must match exactly after trimming", func(t *testing.T) {
		s, err := SetPIN(testState(), "Ana", "1234")
		require.NoError(t, err)

		assert.True(t, Authorize(s, "Ana", "1234"))
		assert.True(t, Authorize(s, "Ana", " 1234 "))
		assert.False(t, Authorize(s, "Ana", "0000"))
		assert.False(t, Authorize(s, "Ana", ""))
	})
}
