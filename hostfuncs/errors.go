package hostfuncs

import "fmt"

// PanicError is produced when a host callback panics. The bridge logs it and
// returns the neutral result to the guest.
type PanicError struct {
	Value    any
	Function string
}

func (e *PanicError) Error() string {
	var msg string
	switch v := e.Value.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	default:
		msg = fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("host function %s panicked: %s", e.Function, msg)
}

// NewPanicError wraps a recovered panic value.
func NewPanicError(function string, value any) *PanicError {
	return &PanicError{Function: function, Value: value}
}
