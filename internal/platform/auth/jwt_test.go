package auth

import (
	"testing"
	"time"

	"shortspace/internal/platform/config"
	"shortspace/internal/platform/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       "usr_123",
		Username: "alice",
		Email:    "alice@example.com",
	}
}

func TestIssueAndValidate(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{
		Secret:          "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})

	pair, err := svc.IssueTokenPair(testUser())
	if err != nil {
		t.Fatalf("IssueTokenPair failed: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatal("Expected non-empty token pair")
	}

	claims, err := svc.ValidateToken(pair.Access)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "usr_123" || claims.Username != "alice" || claims.Email != "alice@example.com" {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewTokenService(config.JWTConfig{Secret: "secret-a", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Minute})
	verifier := NewTokenService(config.JWTConfig{Secret: "secret-b"})

	pair, err := issuer.IssueTokenPair(testUser())
	if err != nil {
		t.Fatalf("IssueTokenPair failed: %v", err)
	}

	if _, err := verifier.ValidateToken(pair.Access); err == nil {
		t.Error("Expected validation failure for wrong secret, got nil")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{
		Secret:          "test-secret",
		AccessTokenTTL:  -time.Minute,
		RefreshTokenTTL: -time.Minute,
	})

	pair, err := svc.IssueTokenPair(testUser())
	if err != nil {
		t.Fatalf("IssueTokenPair failed: %v", err)
	}

	if _, err := svc.ValidateToken(pair.Access); err == nil {
		t.Error("Expected validation failure for expired token, got nil")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "test-secret"})
	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Error("Expected validation failure for malformed token, got nil")
	}
}
