package captions

import "errors"

// ErrorCode is a coarse-grained failure code safe to show to callers.
// Upstream response bodies, headers, and stack traces stay in server logs.
type ErrorCode string

const (
	CodeInvalidURL  ErrorCode = "invalid_youtube_url"
	CodeNotFound    ErrorCode = "captions_not_found"
	CodeFetchFailed ErrorCode = "captions_fetch_failed"
	CodeMissingKey  ErrorCode = "transcript_missing_key"
	CodeQuota       ErrorCode = "transcript_quota"
	CodeFailed      ErrorCode = "transcript_failed"
)

// Error carries an outward code plus the wrapped internal cause.
type Error struct {
	Code ErrorCode
	err  error
}

func (e *Error) Error() string { return string(e.Code) }

func (e *Error) Unwrap() error { return e.err }

// NewError wraps cause under an outward code.
func NewError(code ErrorCode, cause error) *Error {
	return &Error{Code: code, err: cause}
}

// CodeOf extracts the outward code from err, or CodeFailed for
// anything untyped.
func CodeOf(err error) ErrorCode {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return CodeFailed
}

// IsConfigError reports whether err is a deployment problem (missing
// key, exhausted quota) rather than a per-video condition. Config
// errors fail fast instead of falling through to other providers.
func IsConfigError(err error) bool {
	switch CodeOf(err) {
	case CodeMissingKey, CodeQuota:
		return true
	}
	return false
}
