package common

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/driveaddon/internal/envelope"
)

// EnvelopeResult renders resp as indented JSON. Non-2xx envelopes are
// returned as error results so clients can tell them apart without parsing.
func EnvelopeResult(resp *envelope.Response) (*mcp.CallToolResult, error) {
	if resp == nil {
		return mcp.NewToolResultError("action returned no response"), nil
	}

	body, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}

	if !resp.IsSuccess() {
		return mcp.NewToolResultError(string(body)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}
