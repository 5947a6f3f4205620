// Package drive_tools exposes the Google Drive addon actions as MCP tools.
//
// Available tools:
//   - drive_list_documents: List the files in a folder
//   - drive_download_document: Download or export a file as base64
//   - drive_delete_document: Move one or more files to trash (not registered in read-only mode)
//
// Every tool returns the action's response envelope as JSON. Envelopes with a
// non-2xx code are returned as error results.
//
// Example tool usage:
//
//	drive_list_documents({
//	  folder_id: "root",
//	  include_trashed: false
//	})
//
//	drive_download_document({
//	  file_id: "1AbC...",
//	  export_mime_type: "application/pdf"
//	})
package drive_tools
