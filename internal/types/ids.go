package types

import (
	"time"

	"github.com/google/uuid"
)

// PromotionID identifies a stored promotion definition.
// String alias keeps JSON serialization plain while giving type safety.
// UUIDv7 time-ordering clusters sequential inserts in B-tree indexes.
type PromotionID string

// APIKeyID identifies an issued API key.
type APIKeyID string

// NewPromotionID generates a UUIDv7 promotion identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewPromotionID() PromotionID {
	return PromotionID(uuid.Must(uuid.NewV7()).String())
}

// NewAPIKeyID generates a UUIDv7 API key identifier.
func NewAPIKeyID() APIKeyID {
	return APIKeyID(uuid.Must(uuid.NewV7()).String())
}

// ParsePromotionID validates and converts a string to PromotionID.
// Rejects malformed UUIDs before they reach the store.
func ParsePromotionID(s string) (PromotionID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return PromotionID(s), nil
}

// ParseAPIKeyID validates and converts a string to APIKeyID.
func ParseAPIKeyID(s string) (APIKeyID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return APIKeyID(s), nil
}

// PromotionIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func PromotionIDTime(id PromotionID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
