package pow

import "errors"

// Sentinel errors surfaced to callers per spec.md §7. Target's own
// malformed-field error lives on chainweb.ErrMalformedTarget, and the
// submitted-buffer-length error on chainweb.ErrWrongHeaderLength, next
// to the types they validate.
var (
	// ErrDigestFailure means the configured digest algorithm returned
	// an error instead of a 32-byte digest. Treated as fatal to the
	// current run (spec.md §4.1 "Failure modes"); the run is abandoned,
	// nothing is published, and the supervisor keeps accepting work.
	ErrDigestFailure = errors.New("pow: digest algorithm failed")

	// ErrDecodeFailure means re-parsing a mutated, successfully-mined
	// buffer failed. Per spec.md §7 this indicates a layout assumption
	// was violated; it is a bug, not a retryable condition.
	ErrDecodeFailure = errors.New("pow: failed to decode mined header")

	// ErrUnknownVersion means a job named a chainweb.Version with no
	// entry in the digest-selection table.
	ErrUnknownVersion = errors.New("pow: no digest algorithm registered for version")
)
