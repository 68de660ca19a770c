package api

import (
	"encoding/json"
	"fmt"
)

// Kind classifies an API failure.
type Kind int

const (
	// NoCredential means no password is stored; the request never reached
	// the network. The UI shows a password prompt instead of an error.
	NoCredential Kind = iota
	// AuthFailed is an HTTP 401. The stored credential has been cleared.
	AuthFailed
	// RequestFailed covers other non-2xx responses and transport failures.
	RequestFailed
	// DecodeFailed means the response body did not match the expected shape.
	DecodeFailed
)

func (k Kind) String() string {
	switch k {
	case NoCredential:
		return "no_credential"
	case AuthFailed:
		return "auth_failed"
	case DecodeFailed:
		return "decode_failed"
	default:
		return "request_failed"
	}
}

// FieldError is a server-side validation error bound to a single form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the one normalized error shape the client produces.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Type    string
	Fields  []FieldError
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// errNoCredential is returned before any network activity when the store
// is empty.
func errNoCredential() *Error {
	return &Error{Kind: NoCredential, Message: "no admin password stored"}
}

// parseErrorBody extracts a human-readable message and optional metadata
// from an error response body. Priority: nested detail message, top-level
// message, then the supplied fallback.
func parseErrorBody(body []byte, status int, fallback string) *Error {
	e := &Error{Kind: RequestFailed, Status: status, Message: fallback}
	if status == 401 {
		e.Kind = AuthFailed
		e.Message = "authentication failed, please re-enter password"
	}

	var payload struct {
		Detail struct {
			Message string       `json:"message"`
			Type    string       `json:"type"`
			Errors  []FieldError `json:"errors"`
		} `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return e
	}

	switch {
	case payload.Detail.Message != "":
		e.Message = payload.Detail.Message
	case payload.Message != "":
		e.Message = payload.Message
	}
	e.Type = payload.Detail.Type
	e.Fields = payload.Detail.Errors
	return e
}
