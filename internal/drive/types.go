package drive

import "strings"

// GoogleAppsMimePrefix marks Google Workspace documents, which have no raw
// byte representation and must be exported.
const GoogleAppsMimePrefix = "application/vnd.google-apps."

// DefaultExportMimeType is used when exporting without an explicit target type.
const DefaultExportMimeType = "text/plain"

// DefaultContentType is reported when a download response has no Content-Type header.
const DefaultContentType = "application/octet-stream"

// FileMetadata is the metadata snapshot fetched before a download
type FileMetadata struct {
	// ID is the unique identifier for the file
	ID string `json:"id"`

	// Name is the name of the file
	Name string `json:"name"`

	// Size is the size of the file in bytes; 0 means unknown (Workspace documents, folders)
	Size int64 `json:"size,omitempty"`

	// MimeType is the MIME type of the file
	MimeType string `json:"mimeType"`
}

// IsGoogleApps reports whether the file is a Google Workspace document.
func (m *FileMetadata) IsGoogleApps() bool {
	return strings.HasPrefix(m.MimeType, GoogleAppsMimePrefix)
}

// SizeKnown reports whether Drive declared a size for the file.
func (m *FileMetadata) SizeKnown() bool {
	return m.Size > 0
}

// ListedFile is one entry of a folder listing
type ListedFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	WebViewLink  string `json:"webViewLink,omitempty"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
}

// ListResult is the first page of a folder listing
type ListResult struct {
	Files      []ListedFile
	StatusCode int
}

// TrashedFile echoes the fields Drive returns after a trash update
type TrashedFile struct {
	ID         string
	Name       string
	Trashed    bool
	StatusCode int
}

// AsMap returns the echoed fields keyed by their Drive names.
func (f *TrashedFile) AsMap() map[string]any {
	return map[string]any{
		"id":      f.ID,
		"name":    f.Name,
		"trashed": f.Trashed,
	}
}

// Content is a fully buffered download or export
type Content struct {
	Data        []byte
	ContentType string
	StatusCode  int
}
