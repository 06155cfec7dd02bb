package util

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies application errors; each kind maps to one HTTP status.
type ErrorKind string

const (
	KindValidation     ErrorKind = "VALIDATION"
	KindAuthentication ErrorKind = "AUTHENTICATION"
	KindAuthorization  ErrorKind = "AUTHORIZATION"
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindRateLimit      ErrorKind = "RATE_LIMIT"
	KindDatabase       ErrorKind = "DATABASE"
	KindFileUpload     ErrorKind = "FILE_UPLOAD"
	KindInternal       ErrorKind = "INTERNAL"
)

//nolint:gochecknoglobals // static lookup table
var kindStatus = map[ErrorKind]int{
	KindValidation:     http.StatusBadRequest,
	KindAuthentication: http.StatusUnauthorized,
	KindAuthorization:  http.StatusForbidden,
	KindNotFound:       http.StatusNotFound,
	KindRateLimit:      http.StatusTooManyRequests,
	KindDatabase:       http.StatusInternalServerError,
	KindFileUpload:     http.StatusBadRequest,
	KindInternal:       http.StatusInternalServerError,
}

// genericMessages is what production clients see; full detail stays in logs.
// Authentication and authorization share one deliberately vague message.
//
//nolint:gochecknoglobals
var genericMessages = map[ErrorKind]string{
	KindValidation:     "invalid input",
	KindAuthentication: "Unauthorized",
	KindAuthorization:  "Unauthorized",
	KindNotFound:       "not found",
	KindRateLimit:      "too many requests",
	KindDatabase:       "internal server error",
	KindFileUpload:     "file upload rejected",
	KindInternal:       "internal server error",
}

type AppError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) Status() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// PublicMessage is the client-safe text for this error. Validation errors keep
// their message (the caller needs the field problems); everything else falls
// back to the generic text for the kind unless running in development mode.
func (e *AppError) PublicMessage(development bool) string {
	if development || e.Kind == KindValidation || e.Kind == KindRateLimit {
		return e.Msg
	}
	if msg, ok := genericMessages[e.Kind]; ok {
		return msg
	}
	return genericMessages[KindInternal]
}

func NewAppError(kind ErrorKind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func WrapAppError(kind ErrorKind, err error, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}
