// Package drive provides a client for the subset of the Google Drive v3 API
// used by the addon actions.
//
// The client covers five calls:
//   - Listing the children of a folder (single page)
//   - Moving a file to trash with a partial update
//   - Fetching file metadata (id, name, size, mimeType)
//   - Exporting a Google Workspace document to a concrete MIME type
//   - Downloading the raw bytes of a binary file (alt=media)
//
// Authentication uses a caller-supplied OAuth access token wrapped in a static
// token source; tokens are never refreshed by this package.
//
// Errors returned by the client are either *APIError, when Drive answered with
// a non-2xx status, or *TransportError, when no usable response was received.
//
// Example usage:
//
//	client, err := drive.NewClient(ctx, accessToken)
//	if err != nil {
//	    return err
//	}
//
//	meta, err := client.GetMetadata(ctx, fileID)
//	var apiErr *drive.APIError
//	if errors.As(err, &apiErr) {
//	    log.Printf("drive answered %d", apiErr.StatusCode)
//	}
package drive
