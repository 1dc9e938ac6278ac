// Package auth implements the PIN gate that guards load completion and
// the short-lived grant tokens used by the two-phase HTTP flow.
//
// A PIN is a locally shared secret, compared in plain text. It keeps
// housemates honest; it is deliberately not a credential. Anyone who can
// read the state file can read every PIN.
package auth

import (
	"errors"
	"regexp"
	"strings"

	"github.com/mquinn/chorewheel/internal/models"
	"github.com/mquinn/chorewheel/internal/rotation"
)

var (
	// ErrInvalidPIN is returned when a candidate PIN is not 4 to 8 digits.
	ErrInvalidPIN = errors.New("pin must be 4 to 8 digits")

	// ErrPINMismatch is returned when a supplied PIN does not match the
	// stored one. The guarded action must not proceed.
	ErrPINMismatch = errors.New("pin does not match")
)

var pinPattern = regexp.MustCompile(`^[0-9]{4,8}$`)

// ValidPIN reports whether candidate is an acceptable stored PIN: 4 to 8
// digits. The empty string is not a PIN; clearing is a separate path.
func ValidPIN(candidate string) bool {
	return pinPattern.MatchString(candidate)
}

// SetPIN sets, replaces or clears the PIN for a roster member. An empty
// candidate (after trimming) clears the PIN, disabling the gate for that
// member. A non-empty candidate must be 4 to 8 digits; otherwise the
// stored PIN is left untouched and ErrInvalidPIN is returned.
func SetPIN(s models.State, name, candidate string) (models.State, error) {
	if !s.HasMember(name) {
		return s, rotation.ErrUnknownParticipant
	}
	candidate = strings.TrimSpace(candidate)

	out := s.Clone()
	if candidate == "" {
		delete(out.PINs, name)
		return out, nil
	}
	if !ValidPIN(candidate) {
		return s, ErrInvalidPIN
	}
	out.PINs[name] = candidate
	return out, nil
}

// Authorize reports whether secret unlocks actions claimed by name.
// A member with no PIN is always allowed. Otherwise the trimmed secret
// must equal the stored PIN exactly. No hashing, no rate limiting, no
// lockout: this is a local equality check, nothing more.
func Authorize(s models.State, name, secret string) bool {
	pin, ok := s.PINs[name]
	if !ok {
		return true
	}
	return strings.TrimSpace(secret) == pin
}
