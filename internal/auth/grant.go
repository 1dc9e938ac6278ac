package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidGrant is returned when a grant token is malformed,
	// expired, or bound to a different member or role.
	ErrInvalidGrant = errors.New("invalid or expired grant")
)

// Role names the step a grant was issued for.
type Role string

const (
	// RoleRun authorizes recording a load's run step.
	RoleRun Role = "run"
	// RoleUnload authorizes recording a load's unload step.
	RoleUnload Role = "unload"
)

// ParseRole validates a role supplied by a client.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleRun, RoleUnload:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q (want %q or %q)", s, RoleRun, RoleUnload)
}

// GrantManager issues and verifies grant tokens. A grant proves a PIN
// check already succeeded for one member and one role, letting the
// interactive surface collect PINs in a separate step from the commit.
// Grants are HS256-signed and expire quickly; they never leave the
// device in normal use.
type GrantManager struct {
	secret []byte
	ttl    time.Duration
}

// GrantClaims are the custom JWT claims carried by a grant token.
type GrantClaims struct {
	Participant string `json:"participant"`
	Role        Role   `json:"role"`
	jwt.RegisteredClaims
}

// NewGrantManager creates a grant manager. With an empty secret a random
// per-process one is generated, which confines grants to the current
// server run.
func NewGrantManager(secret string, ttl time.Duration) *GrantManager {
	if secret == "" {
		buf := make([]byte, 32)
		rand.Read(buf)
		secret = hex.EncodeToString(buf)
	}
	return &GrantManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue creates a grant for the given member and role.
func (m *GrantManager) Issue(participant string, role Role) (string, error) {
	now := time.Now()
	claims := &GrantClaims{
		Participant: participant,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign grant: %w", err)
	}
	return signed, nil
}

// Verify checks a grant token and returns the member it was issued to.
// The grant must carry the expected role.
func (m *GrantManager) Verify(tokenString string, role Role) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&GrantClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidGrant, err)
	}

	claims, ok := token.Claims.(*GrantClaims)
	if !ok || !token.Valid || claims.Role != role {
		return "", ErrInvalidGrant
	}
	return claims.Participant, nil
}
