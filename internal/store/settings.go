package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// jwtSecretKey is the kv row holding the token signing key.
const jwtSecretKey = "jwt_secret"

// GetJWTSecret returns the token signing key, generating and storing one on
// first use. INSERT OR IGNORE followed by a re-read keeps concurrent first
// starts from ending up with different keys.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO kv (key, value) VALUES (?, ?)`,
		jwtSecretKey, []byte(candidate),
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt secret: %w", err)
	}

	var secret []byte
	err = db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, jwtSecretKey,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying jwt secret: %w", err)
	}

	return string(secret), nil
}
