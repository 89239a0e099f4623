package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateToken(id, "hr@cmcs.edu.za", "hr")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != id || claims.Email != "hr@cmcs.edu.za" || claims.Role != "hr" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateRejectsBadTokens(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	other, _ := NewJWTManager("other-secret", time.Hour).GenerateToken(uuid.New(), "a@b.c", "hr")
	expired, _ := NewJWTManager("test-secret", -time.Minute).GenerateToken(uuid.New(), "a@b.c", "hr")

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": other,
		"expired":      expired,
	} {
		if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}
