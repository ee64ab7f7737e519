package model

import (
	"errors"
	"testing"
)

func TestRoles(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		minimum string
		allowed bool
	}{
		{"owner edits", RoleOwner, RoleOwner, true},
		{"owner reads", RoleOwner, RoleViewer, true},
		{"viewer cannot edit", RoleViewer, RoleOwner, false},
		{"viewer reads", RoleViewer, RoleViewer, true},
		{"unknown role", "admin", RoleViewer, false},
		{"unknown minimum", RoleOwner, "admin", false},
		{"empty role", "", RoleViewer, false},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleAtLeast(tt.role, tt.minimum); got != tt.allowed {
				t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.allowed)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleOwner, RoleViewer} {
		if !ValidRole(role) {
			t.Errorf("expected %q to be valid", role)
		}
	}
	for _, role := range []string{"", "Owner", "admin", "manager"} {
		if ValidRole(role) {
			t.Errorf("expected %q to be rejected", role)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("coins&stamps"); err != nil {
		t.Errorf("expected long password to pass, got %v", err)
	}
	if err := ValidatePassword("12345678"); err != nil {
		t.Errorf("expected exactly %d characters to pass, got %v", MinPasswordLength, err)
	}
	for _, pw := range []string{"", "penny", "1234567"} {
		if err := ValidatePassword(pw); !errors.Is(err, ErrPasswordTooShort) {
			t.Errorf("ValidatePassword(%q) = %v, want ErrPasswordTooShort", pw, err)
		}
	}
}
