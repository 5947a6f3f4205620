package drive

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ErrFileIDRequired is returned when a call needs a file ID and none was given.
var ErrFileIDRequired = errors.New("fileID is required")

// APIError reports a non-2xx answer from Drive.
type APIError struct {
	// Op is the client operation that failed (e.g. "get metadata")
	Op string

	// StatusCode is the upstream HTTP status
	StatusCode int

	// Message is the structured error.message field, if any
	Message string

	// Description is the OAuth-style error_description field, if any
	Description string

	// Body is the raw response body
	Body string

	// JSONBody reports whether Body parsed as a JSON object
	JSONBody bool
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Description
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s: drive returned %d: %s", e.Op, e.StatusCode, msg)
}

// TransportError reports that no usable response was received from Drive.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Kind names the Go type of the underlying failure (e.g. "*url.Error").
func (e *TransportError) Kind() string {
	return fmt.Sprintf("%T", e.Err)
}

// classifyError converts an error from the generated Drive client into an
// *APIError or *TransportError.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &TransportError{Op: op, Err: err}
	}

	apiErr := &APIError{
		Op:         op,
		StatusCode: gerr.Code,
		Message:    gerr.Message,
		Body:       gerr.Body,
	}

	// googleapi only decodes the {"error": {...}} shape; OAuth endpoints
	// answer with {"error": "...", "error_description": "..."} instead.
	var payload map[string]any
	if err := json.Unmarshal([]byte(gerr.Body), &payload); err == nil {
		apiErr.JSONBody = true
		if apiErr.Message == "" {
			if nested, ok := payload["error"].(map[string]any); ok {
				apiErr.Message, _ = nested["message"].(string)
			}
		}
		apiErr.Description, _ = payload["error_description"].(string)
	}

	return apiErr
}
