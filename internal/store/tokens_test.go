package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/erazemk/zbirka/internal/db"
)

func mustBeRevoked(t *testing.T, database *sql.DB, jti string, want bool) {
	t.Helper()

	got, err := IsTokenRevoked(context.Background(), database, jti)
	if err != nil {
		t.Fatalf("IsTokenRevoked(%q): %v", jti, err)
	}
	if got != want {
		t.Errorf("IsTokenRevoked(%q) = %v, want %v", jti, got, want)
	}
}

func TestLogoutRevocation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	expires := time.Now().Add(24 * time.Hour)

	mustBeRevoked(t, database, "session-a", false)

	if err := RevokeToken(ctx, database, "session-a", expires); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	mustBeRevoked(t, database, "session-a", true)
	mustBeRevoked(t, database, "session-b", false)

	// A second logout with the same token is a no-op.
	if err := RevokeToken(ctx, database, "session-a", expires); err != nil {
		t.Fatalf("repeated RevokeToken: %v", err)
	}
	mustBeRevoked(t, database, "session-a", true)
}

func TestPurgeRevokedTokens(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	now := time.Now()

	for jti, expires := range map[string]time.Time{
		"old-1": now.Add(-2 * time.Hour),
		"old-2": now.Add(-time.Minute),
		"live":  now.Add(time.Hour),
	} {
		if err := RevokeToken(ctx, database, jti, expires); err != nil {
			t.Fatalf("RevokeToken(%q): %v", jti, err)
		}
	}

	n, err := PurgeRevokedTokens(ctx, database, now)
	if err != nil {
		t.Fatalf("PurgeRevokedTokens: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 purged revocations, got %d", n)
	}
	mustBeRevoked(t, database, "old-1", false)
	mustBeRevoked(t, database, "live", true)

	n, err = PurgeRevokedTokens(ctx, database, now)
	if err != nil {
		t.Fatalf("second PurgeRevokedTokens: %v", err)
	}
	if n != 0 {
		t.Errorf("expected nothing left to purge, got %d", n)
	}
}
