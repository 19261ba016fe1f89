// Package auth provides HMAC-based API key authentication for the HTTP API.
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
)

// contextKey is a typed key for context values to avoid collisions.
type contextKey string

// keyNameKey is the context key for the authenticated API key's name.
const keyNameKey = contextKey("api_key_name")

// Queries interface defines database operations needed for authentication.
// Implemented by *db.Queries to allow query loading via LoadQueries().
type Queries interface {
	Get(name string, dest interface{}, args ...interface{}) error
	Exec(name string, args ...interface{}) (sql.Result, error)
}

// Authenticator validates API keys using HMAC-SHA256 signatures.
// Holds an in-memory secret map for O(1) lookup and queries for key
// verification.
type Authenticator struct {
	secrets map[string][]byte
	queries Queries
}

// NewAuthenticator creates an authenticator with HMAC secrets and query interface.
func NewAuthenticator(secrets map[string][]byte, queries Queries) *Authenticator {
	return &Authenticator{
		secrets: secrets,
		queries: queries,
	}
}

// Authenticate validates an API key and returns the key's name on success.
func (a *Authenticator) Authenticate(apiKey string) (string, error) {
	secretID, _, err := ParseAPIKey(apiKey)
	if err != nil {
		return "", err
	}

	// O(1) lookup of the HMAC secret using secret_id from the key format
	secret, ok := a.secrets[secretID]
	if !ok {
		return "", ErrUnknownKey
	}

	computedHash := ComputeHMAC(secret, apiKey)

	// key_hash carries a unique constraint, so at most one row matches
	var result struct {
		APIKeyID   string         `db:"api_key_id"`
		Name       string         `db:"name"`
		RevokedAt  sql.NullString `db:"revoked_at"`
		LastUsedAt sql.NullString `db:"last_used_at"`
	}

	err = a.queries.Get("get-api-key-by-hash", &result, computedHash)
	if err == sql.ErrNoRows {
		return "", ErrInvalidKey
	}
	if err != nil {
		return "", fmt.Errorf("database error: %w", err)
	}

	if result.RevokedAt.Valid {
		return "", ErrKeyRevoked
	}

	// 1-minute throttle on last_used_at updates keeps write amplification
	// down for busy callers
	if shouldUpdateLastUsed(result.LastUsedAt) {
		_, _ = a.queries.Exec("update-last-used",
			time.Now().UTC().Format(time.RFC3339), result.APIKeyID)
	}

	return result.Name, nil
}

func shouldUpdateLastUsed(lastUsed sql.NullString) bool {
	if !lastUsed.Valid {
		return true
	}
	t, err := time.Parse(time.RFC3339, lastUsed.String)
	if err != nil {
		return true
	}
	return time.Since(t) > time.Minute
}

// Middleware returns a chi-compatible middleware that authenticates
// requests via the X-API-Key header.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"code": "ERR_UNAUTHENTICATED", "message": ErrMissingKey.Error()})
			return
		}

		name, err := a.Authenticate(apiKey)
		if err != nil {
			status := http.StatusUnauthorized
			code := "ERR_UNAUTHENTICATED"
			switch {
			case err == ErrKeyRevoked:
				status = http.StatusForbidden
				code = "ERR_KEY_REVOKED"
			case strings.Contains(err.Error(), "database error"):
				// Backend trouble is not the caller's fault
				status = http.StatusServiceUnavailable
				code = "ERR_UNAVAILABLE"
			}
			render.Status(r, status)
			render.JSON(w, r, map[string]string{"code": code, "message": err.Error()})
			return
		}

		ctx := context.WithValue(r.Context(), keyNameKey, name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// KeyNameFromContext extracts the authenticated key name from context.
// Returns empty string if not found.
func KeyNameFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(keyNameKey).(string); ok {
		return name
	}
	return ""
}
