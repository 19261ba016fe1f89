package auth

import "errors"

// Authentication error types keep failure modes distinguishable.
// Missing/invalid keys stay indistinguishable to callers (neither confirms
// the key exists); revocation confirms existence but blocks use.
var (
	ErrMissingKey       = errors.New("API key required in X-API-Key header")
	ErrInvalidKeyFormat = errors.New("invalid API key format")
	ErrUnknownKey       = errors.New("unknown secret ID")
	ErrInvalidKey       = errors.New("invalid API key")
	ErrKeyRevoked       = errors.New("API key has been revoked")
)
