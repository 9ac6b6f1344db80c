package entities

import "fmt"

// ErrorDetail is the structured form of a host-side failure, suitable for
// display and for serialising into logs.
type ErrorDetail struct {
	// Message is a human-readable error description.
	Message string `json:"message"`

	// Type categorizes the error: "path", "shape", "hook" or "load".
	Type string `json:"type"`

	// Code is a machine-readable error code, e.g. the failing hook name.
	Code string `json:"code,omitempty"`

	// Status is the host status code the failure maps to.
	Status Status `json:"status"`
}

// Error implements the error interface.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Type != "" {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	return msg
}
