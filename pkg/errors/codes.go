package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
)

// Upstream (screening backend) Error Codes
const (
	ErrCodeUpstreamTransport ErrorCode = "UPSTREAM_001"
	ErrCodeUpstreamStatus    ErrorCode = "UPSTREAM_002"
	ErrCodeMalformedData     ErrorCode = "UPSTREAM_003"
)

// Configuration Error Codes
const (
	ErrCodeInvalidConfig ErrorCode = "CONFIG_001"
)

// Short aliases used at call sites.
const (
	CodeOK                = ErrorCode("OK")
	CodeUnknown           = ErrorCode("UNKNOWN")
	CodeInternal          = ErrCodeInternal
	CodeInvalidParam      = ErrCodeBadRequest
	CodeNotFound          = ErrCodeNotFound
	CodeTimeout           = ErrCodeTimeout
	CodeUpstreamTransport = ErrCodeUpstreamTransport
	CodeUpstreamStatus    = ErrCodeUpstreamStatus
	CodeMalformedData     = ErrCodeMalformedData
	CodeInvalidConfig     = ErrCodeInvalidConfig
)

// ErrorCodeHTTPStatus maps ErrorCodes to the status the console's own HTTP
// API answers with.  Upstream failures are not in this map: the view-models
// absorb them and pages render an empty state with status 200.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeInvalidConfig:      http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default user-facing messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeUpstreamTransport:  "screening service unreachable",
	ErrCodeUpstreamStatus:     "screening service returned an error",
	ErrCodeMalformedData:      "screening service returned unexpected data",
	ErrCodeInvalidConfig:      "invalid configuration",
}

// HTTPStatusForCode returns the HTTP status for code, 500 when unmapped.
func HTTPStatusForCode(code ErrorCode) int {
	if s, ok := ErrorCodeHTTPStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for code.
func DefaultMessageForCode(code ErrorCode) string {
	if m, ok := ErrorCodeMessage[code]; ok {
		return m
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of code ("COMMON", "UPSTREAM", ...).
func ModuleForCode(code ErrorCode) string {
	s := string(code)
	if i := strings.LastIndex(s, "_"); i > 0 {
		return s[:i]
	}
	return "UNKNOWN"
}
