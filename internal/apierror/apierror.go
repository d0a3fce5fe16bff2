// Package apierror maps the error taxonomy  onto HTTP
// status codes and a stable JSON error shape, so the server boundary
// never leaks stack traces to callers.
package apierror

import "net/http"

// Kind tags one entry of the documented error taxonomy.
type Kind string

const (
	KindValidation    Kind = "ValidationError"
	KindNotFound      Kind = "NotFound"
	KindSourceError   Kind = "SourceError"
	KindExportError   Kind = "ExportError"
	KindComputation   Kind = "ComputationError"
	KindCancelled     Kind = "Cancelled"
	KindConflict      Kind = "Conflict"
	KindInternal      Kind = "InternalError"
)

// Error is a *apierror.Error carrying a Kind tag, HTTP status, stable
// reason code and optional detail object, per the documented propagation
// policy.
type Error struct {
	Kind   Kind
	Status int
	Reason string
	Detail any
}

func (e *Error) Error() string { return e.Reason }

// Body is the wire shape every non-2xx response carries: {error, detail?}.
type Body struct {
	Error  string `json:"error"`
	Detail any    `json:"detail,omitempty"`
}

func (e *Error) Body() Body { return Body{Error: e.Reason, Detail: e.Detail} }

func Validation(reason string, detail any) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusUnprocessableEntity, Reason: reason, Detail: detail}
}

func NotFound(reason string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Reason: reason}
}

func ExportFailed(reason string) *Error {
	return &Error{Kind: KindExportError, Status: http.StatusInternalServerError, Reason: reason}
}

func Computation(reason string) *Error {
	return &Error{Kind: KindComputation, Status: http.StatusInternalServerError, Reason: reason}
}

func Conflict(reason string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusConflict, Reason: reason}
}

func Internal(reason string) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Reason: "internal error"}
}

// FromError wraps a plain error as a 500 InternalError, so an unexpected
// error never surfaces its own message (which might embed a stack trace
// or internal path) to the caller.
func FromError(err error) *Error {
	if apiErr, ok := err.(*Error); ok {
		return apiErr
	}
	return Internal(err.Error())
}
