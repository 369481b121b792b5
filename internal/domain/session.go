package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxSessionIDLength bounds the client-supplied session identifier.
const MaxSessionIDLength = 128

// ValidateSessionID checks that a client-supplied session identifier can be
// used to scope tasks. The identifier is opaque: it is compared verbatim and
// never trimmed or normalized, it only has to be non-blank and bounded.
func ValidateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return NewValidationError("session_id", "is required", ErrEmptyContent)
	}
	if utf8.RuneCountInString(sessionID) > MaxSessionIDLength {
		return NewValidationError("session_id", "is too long", ErrContentTooLong)
	}
	return nil
}
