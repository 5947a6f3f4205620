package drive_tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/driveaddon/internal/actions"
	"github.com/teemow/driveaddon/internal/server"
	"github.com/teemow/driveaddon/internal/tools/batch"
	"github.com/teemow/driveaddon/internal/tools/common"
)

// Tool names.
const (
	ToolListDocuments    = "drive_list_documents"
	ToolDeleteDocument   = "drive_delete_document"
	ToolDownloadDocument = "drive_download_document"
)

// RegisterDriveTools registers the Drive addon tools with the MCP server.
// The trash tool is left out in read-only mode.
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool(ToolListDocuments,
		mcp.WithDescription("List the files in a Google Drive folder"),
		mcp.WithString("folder_id",
			mcp.Description("ID of the folder to list (default: 'root')"),
		),
		mcp.WithBoolean("include_trashed",
			mcp.Description("List trashed files instead of live ones (default: false)"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler(ToolListDocuments, sc, handleListDocuments(sc)))

	downloadTool := mcp.NewTool(ToolDownloadDocument,
		mcp.WithDescription("Download a Google Drive file, exporting Google Workspace documents. Content is returned base64-encoded."),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("ID of the file to download"),
		),
		mcp.WithString("export_mime_type",
			mcp.Description("Export format for Google Workspace documents (default: 'text/plain'). Ignored for other files."),
		),
	)
	s.AddTool(downloadTool, common.InstrumentedToolHandler(ToolDownloadDocument, sc, handleDownloadDocument(sc)))

	if !readOnly {
		deleteTool := mcp.NewTool(ToolDeleteDocument,
			mcp.WithDescription("Move one or more Google Drive files to trash"),
			mcp.WithString("file_id",
				mcp.Required(),
				mcp.Description("File ID (string) or array of file IDs to trash"),
			),
		)
		s.AddTool(deleteTool, common.InstrumentedToolHandler(ToolDeleteDocument, sc, handleDeleteDocument(sc)))
	}

	return nil
}

func handleListDocuments(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		in := actions.ListInput{FolderID: stringArg(args, "folder_id")}
		if trashed, ok := args["include_trashed"].(bool); ok {
			in.IncludeTrashed = trashed
		}

		return common.EnvelopeResult(sc.Addon().ListDocuments(ctx, in))
	}
}

func handleDeleteDocument(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := request.GetArguments()["file_id"]

		// A plain string goes straight to the action, which answers 400 when empty.
		if s, ok := raw.(string); ok && !strings.HasPrefix(s, "[") {
			return common.EnvelopeResult(sc.Addon().DeleteDocument(ctx, s))
		}
		if raw == nil {
			return common.EnvelopeResult(sc.Addon().DeleteDocument(ctx, ""))
		}

		fileIDs, err := batch.ParseStringOrArray(raw, "file_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		br := batch.Process(ctx, fileIDs, sc.Addon().DeleteDocument)
		if br.Failed > 0 && br.Successful == 0 {
			return mcp.NewToolResultError(br.Format()), nil
		}
		return mcp.NewToolResultText(br.Format()), nil
	}
}

func handleDownloadDocument(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		in := actions.DownloadInput{
			FileID:         stringArg(args, "file_id"),
			ExportMimeType: stringArg(args, "export_mime_type"),
		}
		return common.EnvelopeResult(sc.Addon().DownloadDocument(ctx, in))
	}
}

// stringArg returns args[key] when it is a string, "" otherwise.
func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
