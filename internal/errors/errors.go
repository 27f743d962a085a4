package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when email or password is rejected.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized is returned when the bearer token is missing or expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUserExists is returned when signing up with an already-registered email.
	ErrUserExists = errors.New("user already exists")
	// ErrNoSession is returned when no persisted session is available.
	ErrNoSession = errors.New("no session")
)

// Kind classifies an API failure so callers can decide how to surface it.
type Kind int

const (
	// KindTransport covers network failures and unexpected server errors.
	KindTransport Kind = iota
	// KindAuth covers rejected credentials and missing/expired tokens.
	KindAuth
	// KindValidation covers malformed or rejected request fields.
	KindValidation
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Detail     string
	Kind       Kind
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// Unwrap lets errors.Is match the taxonomy sentinels.
func (e *APIError) Unwrap() error {
	switch e.Kind {
	case KindAuth:
		if e.StatusCode == http.StatusUnauthorized {
			return ErrUnauthorized
		}
		return ErrInvalidCredentials
	case KindValidation:
		if e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusConflict {
			return ErrUserExists
		}
	}
	return nil
}

// FromStatus maps a non-2xx status and server-provided detail to an APIError.
// 401 is an auth failure, 400/409/422 are validation failures, anything else
// is treated as a transport-level fault.
func FromStatus(status int, detail string) *APIError {
	kind := KindTransport
	switch status {
	case http.StatusUnauthorized:
		kind = KindAuth
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		kind = KindValidation
	}
	return &APIError{StatusCode: status, Detail: detail, Kind: kind}
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == KindAuth
	}
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrUnauthorized)
}

// IsValidation reports whether err is a rejected-field failure.
func IsValidation(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == KindValidation
	}
	return errors.Is(err, ErrUserExists)
}

// StorageError wraps a local persistence failure. It is logged by callers
// and never surfaced; a failed read is treated the same as no session.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("session storage %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError creates a StorageError for the given operation.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// detailPayload is the backend's error body. The detail field is a plain
// string for auth/duplicate errors but an array of field objects for
// request validation errors.
type detailPayload struct {
	Detail json.RawMessage `json:"detail"`
}

type detailItem struct {
	Msg string `json:"msg"`
	Loc []any  `json:"loc"`
}

// DecodeDetail extracts a human-readable message from an error response
// body. It returns the empty string when the body carries no usable detail.
func DecodeDetail(body []byte) string {
	var payload detailPayload
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}

	var items []detailItem
	if err := json.Unmarshal(payload.Detail, &items); err == nil && len(items) > 0 {
		msg := items[0].Msg
		if len(items[0].Loc) > 0 {
			if field, ok := items[0].Loc[len(items[0].Loc)-1].(string); ok {
				msg = field + ": " + msg
			}
		}
		return msg
	}
	return ""
}
