package content

import (
	"errors"
	"fmt"
)

// Common store errors.
var (
	// ErrNotFound is returned when a post is not found.
	ErrNotFound = errors.New("post not found")
	// ErrNotAuthor is returned when a caller tries to edit or delete a
	// post they do not own.
	ErrNotAuthor = errors.New("only the author may modify this post")
)

// ValidationError reports a rejected field before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
