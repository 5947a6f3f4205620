package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	listFields     = "files(id,name,mimeType,webViewLink,modifiedTime)"
	trashFields    = "id,name,trashed"
	metadataFields = "id,name,size,mimeType"
)

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
}

type clientOptions struct {
	endpoint          string
	baseClient        *http.Client
	requestsPerSecond float64
	limiter           *rate.Limiter
}

// Option configures a Client.
type Option func(*clientOptions)

// WithEndpoint points the client at a Drive-compatible base URL instead of
// the public API (used for proxies and tests).
func WithEndpoint(endpoint string) Option {
	return func(o *clientOptions) {
		o.endpoint = endpoint
	}
}

// WithHTTPClient sets the HTTP client whose transport carries the requests.
// The client's Timeout is kept; its transport is wrapped with bearer auth.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.baseClient = client
	}
}

// WithRequestsPerSecond paces this client's requests; 0 disables pacing.
// Use WithLimiter to share a budget across clients.
func WithRequestsPerSecond(rps float64) Option {
	return func(o *clientOptions) {
		o.requestsPerSecond = rps
	}
}

// WithLimiter paces requests through limiter, which may be shared by many
// clients. It takes precedence over WithRequestsPerSecond; nil is ignored.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(o *clientOptions) {
		o.limiter = limiter
	}
}

// NewClient creates a new Google Drive client authenticated with a static
// OAuth access token.
func NewClient(ctx context.Context, accessToken string, opts ...Option) (*Client, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	base := &http.Client{}
	if o.baseClient != nil {
		copied := *o.baseClient
		base = &copied
	}
	limiter := o.limiter
	if limiter == nil {
		limiter = NewLimiter(o.requestsPerSecond)
	}
	if limiter != nil {
		base.Transport = newPacedTransport(base.Transport, limiter)
	}

	// oauth2.NewClient picks the base transport from the context.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(ctx, src)
	httpClient.Timeout = base.Timeout

	serviceOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if o.endpoint != "" {
		endpoint := o.endpoint
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		serviceOpts = append(serviceOpts, option.WithEndpoint(endpoint))
	}

	driveService, err := drive.NewService(ctx, serviceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{service: driveService}, nil
}

// ListFolder returns the first page of children of folderID, filtered by trashed state.
// Only one page is fetched; callers see at most pageSize files.
func (c *Client) ListFolder(ctx context.Context, folderID string, includeTrashed bool, pageSize int) (*ListResult, error) {
	call := c.service.Files.List().
		Context(ctx).
		Q(FolderQuery(folderID, includeTrashed)).
		Fields(listFields)
	if pageSize > 0 {
		call = call.PageSize(int64(pageSize))
	}
	call.Header().Set("Accept", "application/json")

	fileList, err := call.Do()
	if err != nil {
		return nil, classifyError("list files", err)
	}

	files := make([]ListedFile, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToListedFile(f)
	}

	return &ListResult{
		Files:      files,
		StatusCode: fileList.HTTPStatusCode,
	}, nil
}

// Trash marks a file as trashed with a partial update.
// Trashing an already-trashed file succeeds.
func (c *Client) Trash(ctx context.Context, fileID string) (*TrashedFile, error) {
	if fileID == "" {
		return nil, ErrFileIDRequired
	}

	call := c.service.Files.Update(fileID, &drive.File{Trashed: true}).
		Context(ctx).
		Fields(trashFields)
	call.Header().Set("Accept", "application/json")

	f, err := call.Do()
	if err != nil {
		return nil, classifyError("trash file", err)
	}

	return &TrashedFile{
		ID:         f.Id,
		Name:       f.Name,
		Trashed:    f.Trashed,
		StatusCode: f.HTTPStatusCode,
	}, nil
}

// GetMetadata retrieves the id, name, size and MIME type of a file
func (c *Client) GetMetadata(ctx context.Context, fileID string) (*FileMetadata, error) {
	if fileID == "" {
		return nil, ErrFileIDRequired
	}

	call := c.service.Files.Get(fileID).
		Context(ctx).
		Fields(metadataFields)
	call.Header().Set("Accept", "application/json")

	f, err := call.Do()
	if err != nil {
		return nil, classifyError("get metadata", err)
	}

	return &FileMetadata{
		ID:       f.Id,
		Name:     f.Name,
		Size:     f.Size,
		MimeType: f.MimeType,
	}, nil
}

// Export converts a Google Workspace document to mimeType and buffers the result
func (c *Client) Export(ctx context.Context, fileID, mimeType string) (*Content, error) {
	if fileID == "" {
		return nil, ErrFileIDRequired
	}
	if mimeType == "" {
		mimeType = DefaultExportMimeType
	}

	call := c.service.Files.Export(fileID, mimeType).Context(ctx)
	call.Header().Set("Accept", "application/json")

	resp, err := call.Download()
	if err != nil {
		return nil, classifyError("export file", err)
	}

	return readContent("export file", resp)
}

// DownloadMedia downloads the raw bytes of a binary file and buffers them
func (c *Client) DownloadMedia(ctx context.Context, fileID string) (*Content, error) {
	if fileID == "" {
		return nil, ErrFileIDRequired
	}

	call := c.service.Files.Get(fileID).Context(ctx)
	call.Header().Set("Accept", "application/json")

	resp, err := call.Download()
	if err != nil {
		return nil, classifyError("download file", err)
	}

	return readContent("download file", resp)
}

// FolderQuery builds the Drive search expression selecting the children of folderID.
func FolderQuery(folderID string, includeTrashed bool) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(folderID)
	return fmt.Sprintf("'%s' in parents and trashed=%t", escaped, includeTrashed)
}

func readContent(op string, resp *http.Response) (*Content, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = DefaultContentType
	}

	return &Content{
		Data:        data,
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
	}, nil
}

// convertToListedFile converts a Drive API File to our ListedFile type
func convertToListedFile(f *drive.File) ListedFile {
	return ListedFile{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		WebViewLink:  f.WebViewLink,
		ModifiedTime: f.ModifiedTime,
	}
}
