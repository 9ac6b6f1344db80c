package entities

import "fmt"

// Status is the code returned to the host for a load or reload request.
type Status int32

const (
	// StatusOK indicates the module was loaded and its scripts started.
	StatusOK Status = 0

	// StatusInvalidPath indicates an empty, missing or unreadable module path.
	StatusInvalidPath Status = -1

	// StatusShapeMissing indicates the module lacks the coordination type.
	StatusShapeMissing Status = -2

	// StatusUnexpected covers every other load failure.
	StatusUnexpected Status = -99
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidPath:
		return "invalid_path"
	case StatusShapeMissing:
		return "coordination_type_missing"
	case StatusUnexpected:
		return "unexpected_failure"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}
