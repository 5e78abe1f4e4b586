package submit

import (
	"errors"
	"fmt"
)

// AuthError signals that the session is no longer trustworthy: a bot
// challenge was detected in a response, or a required session token is
// missing. It is the only error class that aborts a whole batch; everything
// else is scoped to a single asset or release link.
type AuthError struct {
	// Reason describes what invalidated the session.
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return "unauthorized: " + e.Reason
}

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// ValidationError reports a missing or rejected field on a single entity
// (an asset's metadata or a release document). It never propagates past the
// entity that owns it.
type ValidationError struct {
	// Field is the offending field name.
	Field string
	// Message describes the problem.
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrHistoryUnavailable is returned by adapters whose marketplace has no
// bulk status export; discovery falls through to the paginated listing.
var ErrHistoryUnavailable = errors.New("upload history not available")

// ErrReleaseNotFound is returned by Adapter.FindRelease when no catalog
// entry matches the queried name.
var ErrReleaseNotFound = errors.New("release not found in catalog")
