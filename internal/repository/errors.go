package repository

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeNotFound Code = "NOT_FOUND"
	CodeInternal Code = "INTERNAL"
)

// ErrNotFound и ErrInternal сравниваются через errors.Is по коду.
var (
	ErrNotFound = &Error{Code: CodeNotFound}
	ErrInternal = &Error{Code: CodeInternal}
)

type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func NewNotFound(id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("Todo with id %q not found", id),
		Details: map[string]any{
			"resource": "todo",
			"id":       id,
		},
	}
}

func NewInternal(operation string, err error) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: fmt.Sprintf("ошибка хранилища при операции %s", operation),
		Details: map[string]any{
			"operation": operation,
		},
		Err: err,
	}
}

// CodeOf возвращает код ошибки репозитория или пустую строку.
func CodeOf(err error) Code {
	var repoErr *Error
	if errors.As(err, &repoErr) {
		return repoErr.Code
	}
	return ""
}
