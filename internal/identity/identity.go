package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrUnauthorized is returned by write paths when no user identity could be
// resolved.
var ErrUnauthorized = errors.New("unauthorized: no user identity")

// Resolve produces the effective user key for a write path, preferring the
// authenticated subject over a caller-supplied guest id.
func Resolve(subject, guestID string) (string, error) {
	if subject != "" {
		return subject, nil
	}
	if guestID != "" {
		return guestID, nil
	}
	return "", ErrUnauthorized
}

// ResolveRead is the read-path variant: with neither identity present it
// returns an empty key, which downstream reads treat as "no record".
func ResolveRead(subject, guestID string) string {
	if subject != "" {
		return subject
	}
	return guestID
}

// NewGuestID issues a fresh guest identity for unauthenticated clients to
// store locally and send back on later requests.
func NewGuestID() string {
	return fmt.Sprintf("guest_%s", uuid.NewString())
}

// SubjectFromToken extracts the subject claim from a bearer token. Signature
// verification is the identity provider's responsibility upstream of this
// service; an unparsable token yields an empty subject.
func SubjectFromToken(tokenString string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
