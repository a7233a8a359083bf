package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotInRoom  = "not_in_room"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotInRoom  = errors.New("not in room")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
