package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestResolvePrefersSubject(t *testing.T) {
	key, err := Resolve("user_1", "guest_abc")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if key != "user_1" {
		t.Fatalf("expected subject to win, got %q", key)
	}
}

func TestResolveFallsBackToGuest(t *testing.T) {
	key, err := Resolve("", "guest_abc")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if key != "guest_abc" {
		t.Fatalf("expected guest id, got %q", key)
	}
}

func TestResolveWriteHardFails(t *testing.T) {
	_, err := Resolve("", "")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestResolveReadDegrades(t *testing.T) {
	if key := ResolveRead("", ""); key != "" {
		t.Fatalf("expected empty key, got %q", key)
	}
	if key := ResolveRead("user_1", "guest_abc"); key != "user_1" {
		t.Fatalf("expected subject to win, got %q", key)
	}
}

func TestNewGuestID(t *testing.T) {
	id := NewGuestID()
	if !strings.HasPrefix(id, "guest_") {
		t.Fatalf("expected guest_ prefix, got %q", id)
	}
	if id == NewGuestID() {
		t.Fatalf("expected unique guest ids")
	}
}

func TestSubjectFromToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user_42"})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if sub := SubjectFromToken(signed); sub != "user_42" {
		t.Fatalf("expected subject user_42, got %q", sub)
	}
	if sub := SubjectFromToken("not-a-token"); sub != "" {
		t.Fatalf("expected empty subject for garbage token, got %q", sub)
	}
}
