package models

import "fmt"

// ErrorValidation rejects a request before anything is written.
type ErrorValidation struct {
	Message string
	Err     error
}

func (e ErrorValidation) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e ErrorValidation) Unwrap() error { return e.Err }

// ErrorNotFound reports an unknown id or slug.
type ErrorNotFound struct {
	Resource string
}

func (e ErrorNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ErrorUnauthorized means the caller is anonymous but the operation needs an identity.
type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string { return e.Message }

// ErrorForbidden means the caller is known but lacks the capability.
type ErrorForbidden struct {
	Message string
}

func (e ErrorForbidden) Error() string { return e.Message }

// ErrorStorage wraps a failed database operation. Its message is safe to show;
// the wrapped error is for server-side logs only.
type ErrorStorage struct {
	Op  string
	Err error
}

func (e ErrorStorage) Error() string {
	return "storage failure: " + e.Op
}

func (e ErrorStorage) Unwrap() error { return e.Err }

func NewValidation(format string, args ...interface{}) error {
	return ErrorValidation{Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(resource string) error {
	return ErrorNotFound{Resource: resource}
}

func NewForbidden(message string) error {
	return ErrorForbidden{Message: message}
}

func NewStorage(op string, err error) error {
	return ErrorStorage{Op: op, Err: err}
}
