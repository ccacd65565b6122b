package keys

import "errors"

var (
	// ErrKeyNotFound means the key document was fetched successfully but
	// contains no usable key with the requested ID. This is a property of
	// the presented token, so callers treat it as a recoverable
	// verification failure.
	ErrKeyNotFound = errors.New("signing key not found")

	// ErrKeyFetchFailed means the key document could not be retrieved at
	// all. Verification cannot proceed without keys, so callers surface
	// this as a fatal condition rather than redirecting to login.
	ErrKeyFetchFailed = errors.New("failed to fetch signing key document")
)
