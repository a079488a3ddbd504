package core

import (
	"errors"
	"fmt"
)

// Error taxonomy. Callers branch with errors.Is; the concrete messages carry
// the offending identifiers.
var (
	// ErrSessionNotFound: the referenced session has no event log.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidTransition: the input does not satisfy the guard for the
	// current workflow step. Recovered locally by re-prompting.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrGenerationFailure: an external generation step failed or returned no
	// usable result.
	ErrGenerationFailure = errors.New("generation failure")

	// ErrRepositoryUnavailable: an external record lookup failed. Recovered by
	// degrading the consolidated context, never by failing the turn.
	ErrRepositoryUnavailable = errors.New("repository unavailable")

	// ErrStateCorruption: folding a session's events produced an unrecognized
	// workflow step. Fatal for the session, never for the process.
	ErrStateCorruption = errors.New("state corruption")
)

// SessionNotFoundError wraps ErrSessionNotFound with the missing id.
func SessionNotFoundError(sessionID string) error {
	return fmt.Errorf("%w: %q", ErrSessionNotFound, sessionID)
}

// StateCorruptionError wraps ErrStateCorruption with the unrecognized value.
func StateCorruptionError(value string) error {
	return fmt.Errorf("%w: unrecognized step %q", ErrStateCorruption, value)
}
