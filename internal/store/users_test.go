package store

import (
	"context"
	"testing"

	"github.com/erazemk/zbirka/internal/db"
	"github.com/erazemk/zbirka/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "friend", "hash123", model.RoleViewer)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Username != "friend" {
		t.Errorf("expected username 'friend', got %q", user.Username)
	}
	if user.Role != model.RoleViewer {
		t.Errorf("expected role 'viewer', got %q", user.Role)
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "friend" {
		t.Errorf("expected username 'friend', got %q", got.Username)
	}

	missing, err := GetUser(ctx, database, 999)
	if err != nil {
		t.Fatalf("GetUser missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing user, got %+v", missing)
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	database := db.NewTestDB(t)
	if _, err := CreateUser(context.Background(), database, "x", "hash", "admin"); err == nil {
		t.Error("expected role check constraint to reject 'admin'")
	}
}

func TestDeletedUsernameCanBeReused(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, _ := CreateUser(ctx, database, "alice", "hash", model.RoleOwner)
	if _, err := CreateUser(ctx, database, "alice", "hash", model.RoleViewer); err == nil {
		t.Fatal("expected duplicate active username to fail")
	}

	if err := DeleteUser(ctx, database, first.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if u, _ := GetUserByUsername(ctx, database, "alice"); u != nil {
		t.Error("expected deleted user to be hidden from login lookup")
	}

	if _, err := CreateUser(ctx, database, "alice", "hash", model.RoleViewer); err != nil {
		t.Fatalf("re-creating deleted username: %v", err)
	}

	users, _ := ListUsers(ctx, database)
	if len(users) != 1 {
		t.Errorf("expected 1 active user, got %d", len(users))
	}
}

func TestCountOwners(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	n, err := CountOwners(ctx, database)
	if err != nil {
		t.Fatalf("CountOwners: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 owners, got %d", n)
	}

	CreateUser(ctx, database, "me", "hash", model.RoleOwner)
	CreateUser(ctx, database, "friend", "hash", model.RoleViewer)

	n, _ = CountOwners(ctx, database)
	if n != 1 {
		t.Errorf("expected 1 owner, got %d", n)
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u, _ := CreateUser(ctx, database, "me", "old", model.RoleOwner)
	if err := UpdateUserPassword(ctx, database, u.ID, "new"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}

	got, _ := GetUser(ctx, database, u.ID)
	if got.PasswordHash != "new" {
		t.Errorf("expected updated hash, got %q", got.PasswordHash)
	}
}
