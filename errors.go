package aeolus

import (
	"errors"
	"fmt"
)

var (
	ErrReference   = errors.New("aeolus: reference out of range")
	ErrScope       = errors.New("aeolus: directive outside of its scope")
	ErrSyntax      = errors.New("aeolus: malformed directive")
	ErrShortHeader = errors.New("aeolus: rank header too short")
)

// DirectiveError is returned by the decoder when a directive cannot be
// interpreted. Err is one of the sentinel errors above, or an I/O error from
// reading a rank file.
type DirectiveError struct {
	Line    int
	Keyword string
	Err     error
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Keyword, e.Err)
}

func (e *DirectiveError) Unwrap() error { return e.Err }
