package instrumentation

import "strings"

// Cardinality management helpers for metrics and audit logs.
// Response codes are folded into classes and file IDs are masked so that
// labels stay bounded.

// CodeClass folds an HTTP-style response code into its class.
//
// Example:
//
//	CodeClass(200)  // "2xx"
//	CodeClass(413)  // "4xx"
//	CodeClass(0)    // "unknown"
func CodeClass(code int) string {
	if code < 100 || code > 599 {
		return StatusUnknown
	}
	return string(rune('0'+code/100)) + "xx"
}

// StatusFromCode maps a response code to StatusSuccess or StatusError.
func StatusFromCode(code int) string {
	if code >= 200 && code < 300 {
		return StatusSuccess
	}
	return StatusError
}

// MaskFileID keeps the first four characters of a Drive file ID.
//
// Example:
//
//	MaskFileID("1AbCdEfGhIj")  // "1AbC***"
//	MaskFileID("abc")          // "***"
//	MaskFileID("")             // ""
func MaskFileID(id string) string {
	if id == "" {
		return ""
	}
	if len(id) <= 4 {
		return "***"
	}
	return id[:4] + strings.Repeat("*", 3)
}

// Drive operation types used as metric and span labels.
// Status and exporter constants are defined in config.go.
const (
	OperationList     = "list"
	OperationTrash    = "trash"
	OperationMetadata = "metadata"
	OperationExport   = "export"
	OperationDownload = "download"
)
