package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError enumerates every required payload field that was absent or
// empty, not just the first one.
type FieldError struct {
	Required []string
}

func (e *FieldError) Error() string {
	return "missing required fields: " + strings.Join(e.Required, ", ")
}

// TimeError reports a startTime/endTime value that could not be parsed.
type TimeError struct {
	Field string
}

func (e *TimeError) Error() string {
	return fmt.Sprintf("invalid time value for %s", e.Field)
}

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrTimeRange       = errors.New("endTime must be after startTime")
)
