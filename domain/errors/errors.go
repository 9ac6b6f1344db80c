// Package errors provides the script host's error taxonomy.
// All error types support unwrapping via errors.As() and errors.Is(), and each
// maps onto the status code reported to the host.
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/stela-engine/scripthost/domain/entities"
)

// ErrEmptyPath is returned when LoadOrReload is called without a module path.
var ErrEmptyPath = stdErrors.New("module path is empty")

// ErrReloadInProgress is returned when a reload is requested from inside a reload.
var ErrReloadInProgress = stdErrors.New("reload already in progress")

// StatusError is implemented by every error the coordinator surfaces to the host.
type StatusError interface {
	error
	Status() entities.Status
}

// DetailedError is implemented by errors that can describe themselves as an
// entities.ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// StatusOf maps err to the host status code. A nil error is StatusOK; errors
// outside the taxonomy are StatusUnexpected.
func StatusOf(err error) entities.Status {
	if err == nil {
		return entities.StatusOK
	}
	var se StatusError
	if stdErrors.As(err, &se) {
		return se.Status()
	}
	return entities.StatusUnexpected
}

// ToErrorDetail converts a Go error to an entities.ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "load",
		Status:  entities.StatusUnexpected,
	}
}

// InvalidPathError reports an empty, missing or unreadable module path.
// A reload failing this way never touches the active session.
type InvalidPathError struct {
	Err  error
	Path string
}

func (e *InvalidPathError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid module path: %v", e.Err)
	}
	return fmt.Sprintf("invalid module path %q: %v", e.Path, e.Err)
}

func (e *InvalidPathError) Unwrap() error {
	return e.Err
}

// Status implements StatusError.
func (e *InvalidPathError) Status() entities.Status {
	return entities.StatusInvalidPath
}

// ToErrorDetail implements DetailedError.
func (e *InvalidPathError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "path", Code: e.Path, Status: e.Status()}
}

// ModuleShapeError reports a module that lacks the coordination type.
type ModuleShapeError struct {
	Path             string
	CoordinationType string
}

func (e *ModuleShapeError) Error() string {
	return fmt.Sprintf("module %q does not define coordination type %q", e.Path, e.CoordinationType)
}

// Status implements StatusError.
func (e *ModuleShapeError) Status() entities.Status {
	return entities.StatusShapeMissing
}

// ToErrorDetail implements DetailedError.
func (e *ModuleShapeError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "shape", Code: e.CoordinationType, Status: e.Status()}
}

// HookInvocationError reports a lifecycle hook that trapped or otherwise failed.
// It is only ever logged; the dispatch layer never propagates it.
type HookInvocationError struct {
	Err    error
	Script string
	Hook   string
}

func (e *HookInvocationError) Error() string {
	return fmt.Sprintf("%s.%s failed: %v", e.Script, e.Hook, e.Err)
}

func (e *HookInvocationError) Unwrap() error {
	return e.Err
}

// Status implements StatusError. Hook failures never reach the host as a
// status, but if one is wrapped into a load error it counts as unexpected.
func (e *HookInvocationError) Status() entities.Status {
	return entities.StatusUnexpected
}

// ToErrorDetail implements DetailedError.
func (e *HookInvocationError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "hook", Code: e.Hook, Status: e.Status()}
}

// UnexpectedLoadError covers every other failure during load or discovery.
type UnexpectedLoadError struct {
	Err   error
	Path  string
	Stage string
}

func (e *UnexpectedLoadError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("load %q failed during %s: %v", e.Path, e.Stage, e.Err)
	}
	return fmt.Sprintf("load %q failed: %v", e.Path, e.Err)
}

func (e *UnexpectedLoadError) Unwrap() error {
	return e.Err
}

// Status implements StatusError.
func (e *UnexpectedLoadError) Status() entities.Status {
	return entities.StatusUnexpected
}

// ToErrorDetail implements DetailedError.
func (e *UnexpectedLoadError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "load", Code: e.Stage, Status: e.Status()}
}
