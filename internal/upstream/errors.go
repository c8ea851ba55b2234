package upstream

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound marks a session that genuinely does not exist upstream,
	// such as sprint qualifying at a non-sprint event. Expected, never retried.
	ErrNotFound = errors.New("upstream: session not found")

	// ErrTransient marks a failure worth retrying: network trouble, rate
	// limiting, or a malformed response.
	ErrTransient = errors.New("upstream: transient failure")
)

// IsNotFound classifies an error as permanent non-existence. Wrapped sentinel
// errors are checked first; the message-content fallback covers providers that
// surface the condition only as text.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "does not exist") || strings.Contains(message, "not found")
}
