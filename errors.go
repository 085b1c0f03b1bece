package polyglot

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed request against the translation service.
type ErrorKind string

const (
	// KindAuthentication means the API key was rejected (HTTP 403).
	KindAuthentication ErrorKind = "authentication"
	// KindQuota means the account's character quota is exhausted (HTTP 456).
	KindQuota ErrorKind = "quota"
	// KindRateLimit means the service asked us to slow down (HTTP 429).
	KindRateLimit ErrorKind = "rate_limit"
	// KindServiceUnavailable means the service failed server-side (HTTP 5xx).
	KindServiceUnavailable ErrorKind = "service_unavailable"
	// KindNetwork means the request never produced a usable response
	// (timeout, connection reset, DNS failure).
	KindNetwork ErrorKind = "network"
	// KindMalformed means the service answered 200 but the payload was
	// missing expected fields.
	KindMalformed ErrorKind = "malformed"
	// KindUnknown covers everything else.
	KindUnknown ErrorKind = "unknown"
)

// RequestError is the error type for all failed calls to the translation
// service. The kind alone decides whether the call may be retried.
type RequestError struct {
	Kind    ErrorKind
	Message string
	TraceID string // Diagnostic identifier from the service, if present
	Cause   error
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.TraceID != "" {
		msg = fmt.Sprintf("%s (trace %s)", msg, e.TraceID)
	}
	return msg
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the failure is transient. Rate limiting, server
// errors and network failures may succeed on a later attempt; everything
// else fails permanently after a single attempt.
func (e *RequestError) Retryable() bool {
	switch e.Kind {
	case KindRateLimit, KindServiceUnavailable, KindNetwork:
		return true
	}
	return false
}

// ClassifyStatus maps a non-200 HTTP status code to an error kind.
func ClassifyStatus(status int) ErrorKind {
	switch {
	case status == 403:
		return KindAuthentication
	case status == 429:
		return KindRateLimit
	case status == 456:
		return KindQuota
	case status >= 500:
		return KindServiceUnavailable
	}
	return KindUnknown
}

// IsRetryable checks if an error may be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Retryable()
	}

	return false
}

// ErrorTrace extracts the trace id from an error, if it carries one.
func ErrorTrace(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.TraceID
	}
	return ""
}
