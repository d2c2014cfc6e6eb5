package utils

import (
	"strings"
	"testing"
)

type signupForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,pwdmin"`
	Role     string `validate:"required,oneof=worker|employer"`
}

func TestValidateStruct(t *testing.T) {
	valid := signupForm{Email: "a@b.co", Password: "secret1", Role: "worker"}
	if err := ValidateStruct(&valid); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}

	cases := []struct {
		name string
		form signupForm
		want string
	}{
		{"missing email", signupForm{Password: "secret1", Role: "worker"}, "Email is required"},
		{"bad email", signupForm{Email: "not-an-email", Password: "secret1", Role: "worker"}, "valid email"},
		{"short password", signupForm{Email: "a@b.co", Password: "abc", Role: "worker"}, "at least 6"},
		{"bad role", signupForm{Email: "a@b.co", Password: "secret1", Role: "admin"}, "must be one of"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStruct(&tc.form)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateStructRejectsNonStruct(t *testing.T) {
	if err := ValidateStruct("nope"); err == nil {
		t.Fatal("expected error for non-struct input")
	}
}

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0.755, 0.76},
		{0.754, 0.75},
		{14.25, 14.25},
		{-0.755, -0.76},
		{0, 0},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGenerateReference(t *testing.T) {
	ref := GenerateReference(42)
	if !strings.HasPrefix(ref, "TAP-") {
		t.Fatalf("expected TAP- prefix, got %s", ref)
	}
	if !strings.HasSuffix(ref, "42") {
		t.Fatalf("expected user id suffix, got %s", ref)
	}
}
