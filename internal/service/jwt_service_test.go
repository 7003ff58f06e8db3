package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	svc := NewTokenService("secret")

	token, err := svc.Issue("u1", "a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@x.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_SevenDayExpiry(t *testing.T) {
	svc := NewTokenService("secret")

	token, err := svc.Issue("u1", "a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != 7*24*time.Hour {
		t.Fatalf("expected 7 day lifetime, got %v", lifetime)
	}
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("secret")
	svc.ttl = -time.Minute

	token, err := svc.Issue("u1", "a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Verify(token); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue("u1", "a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewTokenService("secret-b").Verify(token); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_RejectsWrongAlgorithm(t *testing.T) {
	svc := NewTokenService("secret")

	now := time.Now().UTC()
	claims := TokenClaims{
		UserID: "u1",
		Email:  "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "ecotrack",
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Verify(token); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := NewTokenService("secret")
	for _, token := range []string{"", "   ", "not.a.token", "a.b"} {
		if _, err := svc.Verify(token); err != ErrTokenInvalid {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", token, err)
		}
	}
}

func TestTokenService_RejectsSubjectMismatch(t *testing.T) {
	svc := NewTokenService("secret")

	now := time.Now().UTC()
	claims := TokenClaims{
		UserID: "u1",
		Email:  "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "ecotrack",
			Subject:   "someone-else",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Verify(token); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
