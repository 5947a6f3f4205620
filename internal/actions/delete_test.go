package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/driveaddon/internal/envelope"
)

func TestDeleteDocument_Success(t *testing.T) {
	fd := newFakeDrive(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"F1","name":"old report.pdf","trashed":true}`)
	})
	cfg := newTestConfig(t, fd.URL, nil)

	resp := DeleteDocument(context.Background(), cfg, "F1")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "File moved to trash successfully", resp.Message)
	assert.Equal(t, envelope.Tokens{StepAmount: 100, TotalCurrentAmount: 100}, resp.Tokens)
	assert.Equal(t, true, resp.Output.Data["trashed"])
	assert.Equal(t, map[string]any{"id": "F1", "name": "old report.pdf", "trashed": true}, resp.Output.Data["file"])

	requests := fd.Requests()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "/files/F1", req.Path)
	assert.Equal(t, "id,name,trashed", req.Query["fields"])

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &body))
	assert.Equal(t, map[string]any{"trashed": true}, body)
}

func TestDeleteDocument_AlreadyTrashed(t *testing.T) {
	fd := newFakeDrive(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"F1","name":"x","trashed":true}`)
	})
	cfg := newTestConfig(t, fd.URL, nil)

	first := DeleteDocument(context.Background(), cfg, "F1")
	second := DeleteDocument(context.Background(), cfg, "F1")
	assert.Equal(t, first, second)
}

func TestDeleteDocument_RemoteErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "not found",
			status:      http.StatusNotFound,
			body:        `{"error":{"code":404,"message":"File not found: F1."}}`,
			wantMessage: "File not found: F1.",
		},
		{
			name:        "description only",
			status:      http.StatusUnauthorized,
			body:        `{"error":"invalid_grant","error_description":"Token has been expired or revoked."}`,
			wantMessage: "Token has been expired or revoked.",
		},
		{
			name:        "empty body",
			status:      http.StatusForbidden,
			body:        ``,
			wantMessage: "HTTP 403",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fd := newFakeDrive(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			cfg := newTestConfig(t, fd.URL, nil)

			resp := DeleteDocument(context.Background(), cfg, "F1")
			assert.Equal(t, tt.status, resp.Code)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Equal(t, tt.wantMessage, resp.Error())
			assert.Equal(t, envelope.Tokens{}, resp.Tokens)
		})
	}
}

func TestDeleteDocument_TransportFailure(t *testing.T) {
	cfg := newTestConfig(t, closedServerURL(), nil)

	resp := DeleteDocument(context.Background(), cfg, "F1")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.True(t, strings.HasPrefix(resp.Message, "Request failed: "), resp.Message)
	assert.Equal(t, envelope.Tokens{}, resp.Tokens)
}
