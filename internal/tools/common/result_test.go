package common

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/driveaddon/internal/envelope"
)

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestEnvelopeResult(t *testing.T) {
	tests := []struct {
		name      string
		resp      *envelope.Response
		wantIsErr bool
		wantCode  int
	}{
		{
			name:     "success",
			resp:     envelope.Success(http.StatusOK, 200, "1 file(s) retrieved.", map[string]any{"count": 1}),
			wantCode: http.StatusOK,
		},
		{
			name:      "remote failure",
			resp:      envelope.Failure(http.StatusNotFound, "File not found", nil),
			wantIsErr: true,
			wantCode:  http.StatusNotFound,
		},
		{
			name:      "rejection",
			resp:      envelope.Rejection(http.StatusBadRequest, 100, "Missing required parameter: fileId."),
			wantIsErr: true,
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EnvelopeResult(tt.resp)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIsErr, result.IsError)

			var decoded envelope.Response
			require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
			assert.Equal(t, tt.wantCode, decoded.Code)
			assert.Equal(t, tt.resp.Message, decoded.Message)
		})
	}
}

func TestEnvelopeResult_Nil(t *testing.T) {
	result, err := EnvelopeResult(nil)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
