package errors

import "strconv"

// ErrorCode identifies an application error kind in responses and logs.
type ErrorCode int32

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_CONFLICT         ErrorCode = 1004
	ErrorCode_VALIDATION       ErrorCode = 1005

	// Upload / media intake
	ErrorCode_UNSUPPORTED_MEDIA ErrorCode = 2000
	ErrorCode_PAYLOAD_TOO_LARGE ErrorCode = 2001
	ErrorCode_MISSING_FILE      ErrorCode = 2002
	ErrorCode_UPLOAD_FAILED     ErrorCode = 2003

	// Pipeline stages
	ErrorCode_MEDIA_PROBE_FAILED     ErrorCode = 3000
	ErrorCode_MEDIA_EXTRACT_FAILED   ErrorCode = 3001
	ErrorCode_TRANSCRIPTION_FAILED   ErrorCode = 3002
	ErrorCode_SUMMARY_FAILED         ErrorCode = 3003
	ErrorCode_EXPORT_FAILED          ErrorCode = 3004
	ErrorCode_PROCESSING_FAILED      ErrorCode = 3005
	ErrorCode_AI_SERVICE_UNAVAILABLE ErrorCode = 3006
	ErrorCode_AI_QUOTA_EXCEEDED      ErrorCode = 3007

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 4000
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 4001

	// Database
	ErrorCode_DB_CONNECTION_FAILED  ErrorCode = 5000
	ErrorCode_DB_QUERY_FAILED       ErrorCode = 5001
	ErrorCode_DB_TRANSACTION_FAILED ErrorCode = 5002
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK: "OK",

	ErrorCode_INTERNAL:         "INTERNAL",
	ErrorCode_INVALID_ARGUMENT: "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:        "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:   "ALREADY_EXISTS",
	ErrorCode_CONFLICT:         "CONFLICT",
	ErrorCode_VALIDATION:       "VALIDATION",

	ErrorCode_UNSUPPORTED_MEDIA: "UNSUPPORTED_MEDIA",
	ErrorCode_PAYLOAD_TOO_LARGE: "PAYLOAD_TOO_LARGE",
	ErrorCode_MISSING_FILE:      "MISSING_FILE",
	ErrorCode_UPLOAD_FAILED:     "UPLOAD_FAILED",

	ErrorCode_MEDIA_PROBE_FAILED:     "MEDIA_PROBE_FAILED",
	ErrorCode_MEDIA_EXTRACT_FAILED:   "MEDIA_EXTRACT_FAILED",
	ErrorCode_TRANSCRIPTION_FAILED:   "TRANSCRIPTION_FAILED",
	ErrorCode_SUMMARY_FAILED:         "SUMMARY_FAILED",
	ErrorCode_EXPORT_FAILED:          "EXPORT_FAILED",
	ErrorCode_PROCESSING_FAILED:      "PROCESSING_FAILED",
	ErrorCode_AI_SERVICE_UNAVAILABLE: "AI_SERVICE_UNAVAILABLE",
	ErrorCode_AI_QUOTA_EXCEEDED:      "AI_QUOTA_EXCEEDED",

	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",

	ErrorCode_DB_CONNECTION_FAILED:  "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:       "DB_QUERY_FAILED",
	ErrorCode_DB_TRANSACTION_FAILED: "DB_TRANSACTION_FAILED",
}

// String returns the symbolic name of the code, or its number when unknown.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return strconv.Itoa(int(c))
}
