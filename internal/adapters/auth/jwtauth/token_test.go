package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	a := New([]byte("test-secret"), time.Hour)

	token, expiresAt, err := a.Issue(context.Background(), 42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("issue: empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("issue: expiresAt %v not in the future", expiresAt)
	}

	claims, err := a.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.PersonID != 42 {
		t.Fatalf("verify: personID = %d, want 42", claims.PersonID)
	}
}

func TestVerifyExpired(t *testing.T) {
	// TTL negativo: el token nace vencido.
	a := New([]byte("test-secret"), -time.Minute)

	token, _, err := a.Issue(context.Background(), 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := a.Verify(context.Background(), token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("verify expired: err = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := New([]byte("secret-a"), time.Hour)
	verifier := New([]byte("secret-b"), time.Hour)

	token, _, err := issuer.Issue(context.Background(), 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Verify(context.Background(), token); err == nil {
		t.Fatal("verify with wrong secret: expected error")
	}
}

func TestVerifyTampered(t *testing.T) {
	a := New([]byte("test-secret"), time.Hour)

	token, _, err := a.Issue(context.Background(), 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := a.Verify(context.Background(), token+"x"); err == nil {
		t.Fatal("verify tampered token: expected error")
	}
}

func TestVerifyGarbage(t *testing.T) {
	a := New([]byte("test-secret"), time.Hour)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := a.Verify(context.Background(), tok); err == nil {
			t.Fatalf("verify %q: expected error", tok)
		}
	}
}
