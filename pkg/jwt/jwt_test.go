package jwt

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	userID := uuid.New()
	permissions := []string{"manage_product", "manage_transactions"}

	token, err := GenerateToken(userID, "staff@shop.local", "Test Staff", "EMPLOYEE", permissions, "v1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.RoleCode != "EMPLOYEE" {
		t.Errorf("role = %q, want EMPLOYEE", claims.RoleCode)
	}
	if claims.TokenVersion != "v1" {
		t.Errorf("token version = %q, want v1", claims.TokenVersion)
	}
	if len(claims.Permissions) != 2 {
		t.Errorf("permissions = %v, want 2 entries", claims.Permissions)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token validated")
	}
	if _, err := ValidateToken(""); err == nil {
		t.Error("empty token validated")
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "a@b.c", "A B", "ADMIN", nil, "v1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	tampered := token[:len(token)-4] + "xxxx"
	if _, err := ValidateToken(tampered); err == nil {
		t.Error("tampered token validated")
	}
}
