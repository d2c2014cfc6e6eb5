package utils

import "testing"

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken(7, "employer")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if id, ok := claims["id"].(float64); !ok || uint(id) != 7 {
		t.Fatalf("expected id 7 in claims, got %v", claims["id"])
	}
	if claims["role"] != "employer" {
		t.Fatalf("expected role employer, got %v", claims["role"])
	}
}

func TestValidateAccessTokenRejectsTampered(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateAccessToken(7, "worker")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	t.Setenv("JWT_SECRET", "other-secret")
	if _, err := ValidateAccessToken(token); err == nil {
		t.Fatal("expected rejection with wrong secret")
	}
}

func TestGenerateAccessTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := GenerateAccessToken(1, "worker"); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}
