package actions

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/driveaddon/internal/envelope"
)

// driveFile routes metadata, media and export requests for a single file.
type driveFile struct {
	metadata     string
	content      []byte
	contentType  string
	exportStatus int
	exportBody   string
}

func (f driveFile) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/export"):
			if f.exportStatus != 0 {
				writeJSON(w, f.exportStatus, f.exportBody)
				return
			}
			w.Header().Set("Content-Type", r.URL.Query().Get("mimeType"))
			_, _ = w.Write(f.content)
		case r.URL.Query().Get("alt") == "media":
			if f.contentType != "" {
				w.Header().Set("Content-Type", f.contentType)
			}
			_, _ = w.Write(f.content)
		default:
			writeJSON(w, http.StatusOK, f.metadata)
		}
	}
}

func isMediaRequest(req recordedRequest) bool {
	return req.Query["alt"] == "media"
}

func TestDownloadDocument_BinaryFile(t *testing.T) {
	payload := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff, 0x10}
	fd := newFakeDrive(t, driveFile{
		metadata:    `{"id":"PDF1","name":"report.pdf","size":"7","mimeType":"application/pdf"}`,
		content:     payload,
		contentType: "application/pdf",
	}.handler())
	cfg := newTestConfig(t, fd.URL, nil)

	resp := DownloadDocument(context.Background(), cfg, DownloadInput{FileID: "PDF1"})

	require.Equal(t, http.StatusOK, resp.Code, resp.Message)
	assert.Equal(t, "File downloaded successfully (7 bytes)", resp.Message)
	assert.Equal(t, envelope.Tokens{StepAmount: 150, TotalCurrentAmount: 150}, resp.Tokens)

	data := resp.Output.Data
	assert.Equal(t, "PDF1", data["fileId"])
	assert.Equal(t, "report.pdf", data["file_name"])
	assert.Equal(t, 7, data["size_bytes"])
	assert.Equal(t, "application/pdf", data["content_type"])
	assert.Equal(t, "", data["export_mime_type"])

	decoded, err := base64.StdEncoding.DecodeString(data["content_base64"].(string))
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)

	requests := fd.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "/files/PDF1", requests[0].Path)
	assert.Equal(t, "id,name,size,mimeType", requests[0].Query["fields"])
	assert.False(t, isMediaRequest(requests[0]))
	assert.Equal(t, "/files/PDF1", requests[1].Path)
	assert.True(t, isMediaRequest(requests[1]))
}

func TestDownloadDocument_BinaryIgnoresExportType(t *testing.T) {
	fd := newFakeDrive(t, driveFile{
		metadata: `{"id":"IMG","name":"photo.png","size":"3","mimeType":"image/png"}`,
		content:  []byte("png"),
	}.handler())
	cfg := newTestConfig(t, fd.URL, nil)

	resp := DownloadDocument(context.Background(), cfg, DownloadInput{FileID: "IMG", ExportMimeType: "application/pdf"})

	require.Equal(t, http.StatusOK, resp.Code, resp.Message)
	assert.Equal(t, "", resp.Output.Data["export_mime_type"])
	for _, req := range fd.Requests() {
		assert.NotContains(t, req.Path, "/export")
	}
}

func TestDownloadDocument_DefaultContentType(t *testing.T) {
	fd := newFakeDrive(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alt") == "media" {
			// A nil value stops net/http from sniffing a content type.
			w.Header()["Content-Type"] = nil
			_, _ = w.Write([]byte("raw"))
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"B","name":"blob","mimeType":"application/octet-stream"}`)
	})
	cfg := newTestConfig(t, fd.URL, nil)

	resp := DownloadDocument(context.Background(), cfg, DownloadInput{FileID: "B"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Message)
	assert.Equal(t, "application/octet-stream", resp.Output.Data["content_type"])
}

func TestDownloadDocument_ExportsGoogleDocs(t *testing.T) {
	tests := []struct {
		name       string
		exportType string
		wantType   string
	}{
		{name: "default text", wantType: "text/plain"},
		{name: "requested pdf", exportType: "application/pdf", wantType: "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fd := newFakeDrive(t, driveFile{
				metadata: `{"id":"DOC","name":"Plan","mimeType":"application/vnd.google-apps.document"}`,
				content:  []byte("hello"),
			}.handler())
			cfg := newTestConfig(t, fd.URL, nil)

			resp := DownloadDocument(context.Background(), cfg, DownloadInput{FileID: "DOC", ExportMimeType: tt.exportType})

			require.Equal(t, http.StatusOK, resp.Code, resp.Message)
			assert.Equal(t, "File downloaded successfully (5 bytes)", resp.Message)
			assert.Equal(t, tt.wantType, resp.Output.Data["export_mime_type"])
			assert.Equal(t, tt.wantType, resp.Output.Data["content_type"])
			assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("hello")), resp.Output.Data["content_base64"])

			requests := fd.Requests()
			require.Len(t, requests, 2)
			assert.Equal(t, "/files/DOC/export", requests[1].Path)
			assert.Equal(t, tt.wantType, requests[1].Query["mimeType"])
		})
	}
}

func TestDownloadDocument_TooLarge(t *testing.T) {
	fd := newFakeDrive(t, driveFile{
		metadata: `{"id":"BIG","name":"big.bin","size":"62914560","mimeType":"application/octet-stream"}`,
	}.handler())
	cfg := newTestConfig(t, fd.URL, nil)

	resp := DownloadDocument(context.Background(), cfg, DownloadInput{FileID: "BIG"})

	const want = "File 'big.bin' size (60.00 MB) exceeds maximum allowed size (50 MB)"
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	assert.Equal(t, want, resp.Message)
	assert.Equal(t, envelope.Tokens{}, resp.Tokens)
	assert.Equal(t, map[string]any{
		"error":           want,
		"file_size_bytes": int64(62914560),
		"max_size_bytes":  int64(52428800),
		"file_name":       "big.bin",
	}, resp.Output.Data)

	// Only the metadata request was made.
	require.Len(t, fd.Requests(), 1)
}

func TestDownloadDocument_SizeLimitBoundary(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		wantCode int
	}{
		{
			name:     "exactly at ceiling",
			metadata: `{"id":"F","name":"f","size":"1048576","mimeType":"application/zip"}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "one byte over",
			metadata: `{"id":"F","name":"f","size":"1048577","mimeType":"application/zip"}`,
			wantCode: http.StatusRequestEntityTooLarge,
		},
		{
			name:     "unknown size",
			metadata: `{"id":"F","name":"f","mimeType":"application/zip"}`,
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fd := newFakeDrive(t, driveFile{metadata: tt.metadata, content: []byte("zip")}.handler())
			cfg := newTestConfig(t, fd.URL, map[string]any{"max_download_size_mb": 1})

			resp := DownloadDocument(context.Background(), cfg, DownloadInput{FileID: "F"})
			assert.Equal(t, tt.wantCode, resp.Code, resp.Message)
		})
	}
}

func TestDownloadDocument_MetadataErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "structured message",
			status:      http.StatusNotFound,
			body:        `{"error":{"code":404,"message":"File not found: MISSING."}}`,
			wantMessage: "File not found: MISSING.",
		},
		{
			name:        "fallback message",
			status:      http.StatusForbidden,
			body:        `{"error":"access_denied","error_description":"nope"}`,
			wantMessage: "Failed to fetch file metadata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fd := newFakeDrive(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			cfg := newTestConfig(t, fd.URL, nil)

			resp := DownloadDocument(context.Background(), cfg, DownloadInput{FileID: "MISSING"})
			assert.Equal(t, tt.status, resp.Code)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Equal(t, envelope.Tokens{}, resp.Tokens)
			require.Len(t, fd.Requests(), 1)
		})
	}
}

func TestDownloadDocument_MetadataTransportFailure(t *testing.T) {
	cfg := newTestConfig(t, closedServerURL(), nil)

	resp := DownloadDocument(context.Background(), cfg, DownloadInput{FileID: "F1"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.True(t, strings.HasPrefix(resp.Message, "Metadata request failed: "), resp.Message)
}

func TestDownloadDocument_ContentTransportFailure(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		input    DownloadInput
	}{
		{
			name:     "export",
			metadata: `{"id":"DOC1","name":"Notes","mimeType":"application/vnd.google-apps.document"}`,
			input:    DownloadInput{FileID: "DOC1", ExportMimeType: "application/pdf"},
		},
		{
			name:     "media",
			metadata: `{"id":"BIN1","name":"blob.bin","size":"4","mimeType":"application/octet-stream"}`,
			input:    DownloadInput{FileID: "BIN1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fd := newFakeDrive(t, func(w http.ResponseWriter, r *http.Request) {
				if !strings.HasSuffix(r.URL.Path, "/export") && r.URL.Query().Get("alt") != "media" {
					writeJSON(w, http.StatusOK, tt.metadata)
					return
				}
				// Drop the connection without answering the content request.
				conn, _, err := w.(http.Hijacker).Hijack()
				if err != nil {
					t.Errorf("hijack: %v", err)
					return
				}
				_ = conn.Close()
			})
			cfg := newTestConfig(t, fd.URL, nil)

			resp := DownloadDocument(context.Background(), cfg, tt.input)
			assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
			assert.True(t, strings.HasPrefix(resp.Message, "Request failed: "), resp.Message)
			assert.Equal(t, envelope.Tokens{}, resp.Tokens)
			assert.Equal(t, resp.Message, resp.Output.Data["error"])
			assert.GreaterOrEqual(t, len(fd.Requests()), 2)
		})
	}
}

func TestDownloadDocument_ContentErrors(t *testing.T) {
	longBody := strings.Repeat("x", 300)

	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "structured message",
			status:      http.StatusForbidden,
			body:        `{"error":{"code":403,"message":"Export only supports Docs Editors files."}}`,
			wantMessage: "Export only supports Docs Editors files.",
		},
		{
			name:        "oauth description",
			status:      http.StatusUnauthorized,
			body:        `{"error":"invalid_token","error_description":"Token expired"}`,
			wantMessage: "Token expired",
		},
		{
			name:        "plain text body truncated",
			status:      http.StatusBadGateway,
			body:        longBody,
			wantMessage: longBody[:200],
		},
		{
			name:        "json body without message",
			status:      http.StatusBadRequest,
			body:        `{"detail":"nothing useful"}`,
			wantMessage: "HTTP 400",
		},
		{
			name:        "empty body",
			status:      http.StatusForbidden,
			body:        "",
			wantMessage: "HTTP 403",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fd := newFakeDrive(t, driveFile{
				metadata:     `{"id":"DOC","name":"Plan","mimeType":"application/vnd.google-apps.spreadsheet"}`,
				exportStatus: tt.status,
				exportBody:   tt.body,
			}.handler())
			cfg := newTestConfig(t, fd.URL, nil)

			resp := DownloadDocument(context.Background(), cfg, DownloadInput{FileID: "DOC"})
			assert.Equal(t, tt.status, resp.Code)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Equal(t, tt.wantMessage, resp.Output.Data["error"])
			assert.Equal(t, envelope.Tokens{}, resp.Tokens)
		})
	}
}
