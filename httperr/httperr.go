// Package httperr defines the error taxonomy the API exposes and its
// mapping to HTTP statuses. Every failure a handler produces carries one
// of the codes below plus a user-safe public message; internals stay in
// the wrapped error and are only ever logged, never serialized.
package httperr

import (
	"net/http"

	"github.com/samber/oops"
)

// Error codes attached to every failure the API can return.
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnauthorized  = "NOT_AUTHENTICATED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeInvalidToken  = "INVALID_OR_EXPIRED_TOKEN"
	CodeEmailDelivery = "EMAIL_DELIVERY_FAILED"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternal      = "INTERNAL"
)

var statusByCode = map[string]int{
	CodeBadRequest:    http.StatusBadRequest,
	CodeUnauthorized:  http.StatusUnauthorized,
	CodeForbidden:     http.StatusForbidden,
	CodeNotFound:      http.StatusNotFound,
	CodeInvalidToken:  http.StatusBadRequest,
	CodeEmailDelivery: http.StatusInternalServerError,
	CodeRateLimited:   http.StatusTooManyRequests,
	CodeInternal:      http.StatusInternalServerError,
}

// genericMessage is what callers see when a failure carries no public
// message of its own (unclassified internals).
const genericMessage = "something went wrong"

// BadRequest reports malformed or missing input.
func BadRequest(msg string) error {
	return oops.Code(CodeBadRequest).Public(msg).Errorf("%s", msg)
}

// NotAuthenticated reports a missing, invalid or stale session.
func NotAuthenticated(msg string) error {
	return oops.Code(CodeUnauthorized).Public(msg).Errorf("%s", msg)
}

// Forbidden reports an authenticated caller without the required role.
func Forbidden(msg string) error {
	return oops.Code(CodeForbidden).Public(msg).Errorf("%s", msg)
}

// NotFound reports that no matching resource exists.
func NotFound(msg string) error {
	return oops.Code(CodeNotFound).Public(msg).Errorf("%s", msg)
}

// InvalidToken reports a reset token that is unknown or past its expiry.
func InvalidToken(msg string) error {
	return oops.Code(CodeInvalidToken).Public(msg).Errorf("%s", msg)
}

// EmailDelivery wraps a mail transport failure.
func EmailDelivery(err error, msg string) error {
	return oops.Code(CodeEmailDelivery).Public(msg).Wrap(err)
}

// RateLimited reports that the caller exceeded the request budget.
func RateLimited(msg string) error {
	return oops.Code(CodeRateLimited).Public(msg).Errorf("%s", msg)
}

// Internal wraps an unclassified failure. The wrapped error is for logs;
// callers only ever see the generic message.
func Internal(err error) error {
	return oops.Code(CodeInternal).Public(genericMessage).Wrap(err)
}

// Resolve returns the HTTP status and user-safe message for err. Errors
// that did not come out of this package resolve to a generic 500.
func Resolve(err error) (int, string) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return http.StatusInternalServerError, genericMessage
	}
	code, _ := oopsErr.Code().(string)
	status, known := statusByCode[code]
	if !known {
		return http.StatusInternalServerError, genericMessage
	}
	msg := oopsErr.Public()
	if msg == "" {
		msg = genericMessage
	}
	return status, msg
}

// StatusLabel is the envelope's status field: "fail" for client errors,
// "error" for everything else.
func StatusLabel(status int) string {
	if status >= 400 && status < 500 {
		return "fail"
	}
	return "error"
}
