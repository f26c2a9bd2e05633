package domain

import (
	"errors"
	"fmt"

	m "copydeps.dev/pkg/copydeps/internal/model"
)

var (
	// ErrProjectUnreadable reports a project file that could not be read.
	ErrProjectUnreadable = errors.New("project file unreadable")
	// ErrProjectMalformed reports a project file that could not be parsed.
	ErrProjectMalformed = errors.New("project file malformed")
	// ErrDestinationRequired reports a run started without a destination root.
	ErrDestinationRequired = errors.New("destination directory required")
)

// ParseError describes why a project file could not be turned into a
// dependency set.
type ParseError struct {
	Project m.Path
	Line    int
	Reason  string
	Err     error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s:%d: %s", e.Project, e.Line, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the underlying decoder error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes every ParseError match ErrProjectMalformed.
func (e *ParseError) Is(target error) bool {
	return target == ErrProjectMalformed
}
