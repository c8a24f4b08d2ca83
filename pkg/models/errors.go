package models

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord is matched by every *MalformedRecordError
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError reports a record whose path is not rooted under its root
type MalformedRecordError struct {
	Root     string
	FullPath string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: %q is not under root %q", e.FullPath, e.Root)
}

// Is makes errors.Is(err, ErrMalformedRecord) succeed
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
