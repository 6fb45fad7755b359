package domain

import "errors"

// Error kinds, checked with errors.Is. Callers use these to decide
// between degrading to neutral, skipping a step, reinitializing storage,
// or aborting the run - a transient provider failure must never be
// handled the same way as a missing credential.
var (
	// network / timeout failure on a price, news, classifier or
	// judgment call
	ErrTransientProvider = errors.New("transient provider error")

	// judgment output contains no parseable JSON object
	ErrMalformedJudgment = errors.New("malformed judgment output")

	// cache or dataset file unreadable or corrupt at load
	ErrDataIntegrity = errors.New("data integrity error")

	// required secret or path missing - fatal at startup
	ErrConfiguration = errors.New("configuration error")
)
