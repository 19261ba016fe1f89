package types

import "errors"

// Sentinel errors for promolang operations.
var (
	// ErrUnsupportedRewardType indicates a reward type outside the builtin set.
	ErrUnsupportedRewardType = errors.New("unsupported reward type")

	// ErrSourceTooLarge indicates DSL source exceeding MaxSourceSize.
	ErrSourceTooLarge = errors.New("definition source exceeds maximum size")
)
