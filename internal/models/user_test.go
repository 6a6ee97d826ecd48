package models

import (
	"testing"
)

func TestUser_BeforeSave_Nick(t *testing.T) {
	tests := []struct {
		name    string
		nick    string
		wantErr bool
	}{
		{
			name:    "Minimum length",
			nick:    "ab",
			wantErr: false,
		},
		{
			name:    "Regular nick",
			nick:    "kasia_runs",
			wantErr: false,
		},
		{
			name:    "Too short",
			nick:    "a",
			wantErr: true,
		},
		{
			name:    "Only spaces",
			nick:    "    ",
			wantErr: true,
		},
		{
			name:    "Multibyte characters count as runes",
			nick:    "Łó",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{
				Nick:  tt.nick,
				Email: "test@example.com",
				Role:  RoleUser,
			}

			err := user.BeforeSave(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("BeforeSave() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUser_BeforeSave_Normalizes(t *testing.T) {
	user := &User{
		Nick:  "  runner  ",
		Email: "  Runner@Example.COM ",
	}

	if err := user.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave() error = %v", err)
	}

	if user.Nick != "runner" {
		t.Errorf("Nick = %q, want %q", user.Nick, "runner")
	}
	if user.Email != "runner@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "runner@example.com")
	}
	if user.Role != RoleUser {
		t.Errorf("Role = %q, want %q", user.Role, RoleUser)
	}
}

func TestUser_BeforeSave_Role(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		wantErr bool
	}{
		{name: "User", role: RoleUser, wantErr: false},
		{name: "Admin", role: RoleAdmin, wantErr: false},
		{name: "Lowercase admin", role: "admin", wantErr: true},
		{name: "Unknown", role: "OWNER", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Nick: "runner", Email: "r@example.com", Role: tt.role}
			err := user.BeforeSave(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("BeforeSave() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUser_BeforeSave_Email(t *testing.T) {
	user := &User{Nick: "runner", Email: "not-an-email"}
	if err := user.BeforeSave(nil); err == nil {
		t.Error("BeforeSave() expected error for email without @, got nil")
	}
}

func TestUser_IsAdmin(t *testing.T) {
	if (&User{Role: RoleUser}).IsAdmin() {
		t.Error("IsAdmin() = true for USER")
	}
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Error("IsAdmin() = false for ADMIN")
	}
}
