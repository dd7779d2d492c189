package prosearch

import "errors"

// Sentinel errors reported at the API boundary. Callers test for them with
// errors.Is; the wrapped message carries the offending value.
var (
	// ErrInvalidParam marks a parameter rejected before any work is done:
	// word length outside [3,12], pattern weight over 12, negative X-drop
	// or a malformed pattern string.
	ErrInvalidParam = errors.New("invalid search parameter")

	// ErrNoQuery reports that no query sequence was supplied at all. The
	// library's search functions do not return it (an empty query yields
	// an empty ranking); the command-line tool reports it before exiting.
	ErrNoQuery = errors.New("no query provided")
)
