// Package apperr is the error taxonomy shared by services and handlers.
//
// Every failure a service reports is an *Error with a Kind. Callers match on
// kinds (or kind+code) with errors.Is against the exported sentinels:
//
//	if errors.Is(err, apperr.ErrConflict) { ... }
//	if errors.Is(err, apperr.ErrAlreadyRegistered) { ... }
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation             Kind = "validation"
	KindAuthorization          Kind = "authorization"
	KindNotAuthenticated       Kind = "not_authenticated"
	KindInvalidCredentials     Kind = "invalid_credentials"
	KindNotFound               Kind = "not_found"
	KindConflict               Kind = "conflict"
	KindInsufficientStock      Kind = "insufficient_stock"
	KindInvalidStateTransition Kind = "invalid_state_transition"
	KindAuthProvisioning       Kind = "auth_provisioning"
	KindBackendUnavailable     Kind = "backend_unavailable"
)

// Error codes narrowing a kind.
const (
	CodeAlreadyRegistered  = "already_registered"
	CodeRegistrationClosed = "registration_closed"
	CodeActivityFull       = "activity_full"
	CodeDuplicateUID       = "duplicate_uid"
	CodeAttendanceExists   = "attendance_exists"
	CodeResourceNotFound   = "resource_not_found"
	CodeAssignmentNotFound = "assignment_not_found"
	CodeActiveAssignments  = "active_assignments"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind, and on code when the target carries one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

var (
	ErrValidation             = &Error{Kind: KindValidation}
	ErrAuthorization          = &Error{Kind: KindAuthorization}
	ErrNotAuthenticated       = &Error{Kind: KindNotAuthenticated}
	ErrInvalidCredentials     = &Error{Kind: KindInvalidCredentials}
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrConflict               = &Error{Kind: KindConflict}
	ErrInsufficientStock      = &Error{Kind: KindInsufficientStock}
	ErrInvalidStateTransition = &Error{Kind: KindInvalidStateTransition}
	ErrAuthProvisioning       = &Error{Kind: KindAuthProvisioning}
	ErrBackendUnavailable     = &Error{Kind: KindBackendUnavailable}

	ErrAlreadyRegistered  = &Error{Kind: KindConflict, Code: CodeAlreadyRegistered}
	ErrRegistrationClosed = &Error{Kind: KindConflict, Code: CodeRegistrationClosed}
	ErrActivityFull       = &Error{Kind: KindConflict, Code: CodeActivityFull}
	ErrDuplicateUID       = &Error{Kind: KindConflict, Code: CodeDuplicateUID}
	ErrAttendanceExists   = &Error{Kind: KindConflict, Code: CodeAttendanceExists}
	ErrResourceNotFound   = &Error{Kind: KindNotFound, Code: CodeResourceNotFound}
	ErrAssignmentNotFound = &Error{Kind: KindNotFound, Code: CodeAssignmentNotFound}
)

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NotAuthenticated() *Error {
	return &Error{Kind: KindNotAuthenticated, Message: "authentication required"}
}

// InvalidCredentials never says which half of the pair was wrong.
func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: "invalid uid or password"}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NotFoundCode(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func InsufficientStock(requested, available int) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("not enough stock: requested %d, available %d", requested, available),
	}
}

func InvalidStateTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidStateTransition,
		Message: fmt.Sprintf("cannot move from %s to %s", from, to),
	}
}

func AuthProvisioning(err error) *Error {
	return &Error{Kind: KindAuthProvisioning, Message: "failed to provision login", Err: err}
}

// Backend wraps a store/provider failure. Already-classified errors pass through.
func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindBackendUnavailable, Message: "failed to " + op, Err: err}
}

// KindOf returns the kind of err, or KindBackendUnavailable for unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindBackendUnavailable
}

// CodeOf returns the code of err, falling back to its kind.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Code != "" {
			return ae.Code
		}
		return string(ae.Kind)
	}
	return string(KindBackendUnavailable)
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotAuthenticated, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInsufficientStock, KindInvalidStateTransition:
		return http.StatusConflict
	case KindAuthProvisioning:
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}

// PublicMessage is the text safe to show a client. Wrapped store and provider
// errors stay in the logs.
func PublicMessage(err error) string {
	var ae *Error
	if !errors.As(err, &ae) {
		return "service unavailable"
	}
	if ae.Message != "" {
		return ae.Message
	}
	return string(ae.Kind)
}
