package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")

	token, err := GenerateToken("u1", "b1", "Maria", "cashier", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != "u1" || claims.BranchID != "b1" || claims.Role != "cashier" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")

	token, err := GenerateToken("u1", "b1", "Maria", "cashier", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("err = %v, esperado ErrExpiredToken", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")

	token, err := GenerateToken("u1", "b1", "Maria", "cashier", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	t.Setenv("JWT_SECRET", "outro-segredo")

	if _, err := ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, esperado ErrInvalidToken", err)
	}
}

func TestGenerateTokenMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := GenerateToken("u1", "b1", "Maria", "cashier", time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("err = %v, esperado ErrMissingSecret", err)
	}
}
