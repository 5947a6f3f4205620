package actions

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/driveaddon/internal/config"
	"github.com/teemow/driveaddon/internal/drive"
	"github.com/teemow/driveaddon/internal/envelope"
	"github.com/teemow/driveaddon/internal/instrumentation"
)

const (
	msgMetadataFallback = "Failed to fetch file metadata"

	// bodySnippetLength bounds how much of a non-JSON error body is echoed.
	bodySnippetLength = 200
)

// DownloadInput selects the file to download.
type DownloadInput struct {
	FileID string

	// ExportMimeType is the target format for Google Workspace documents,
	// defaulting to text/plain. It is ignored for binary files.
	// The response's export_mime_type reports the type actually used, which
	// is "" for binary downloads, not this value.
	ExportMimeType string
}

// DownloadDocument downloads a binary file or exports a Google Workspace
// document, returning its content base64-encoded.
func DownloadDocument(ctx context.Context, cfg *config.AddonConfig, in DownloadInput) *envelope.Response {
	return defaultRunner.DownloadDocument(ctx, cfg, in)
}

// DownloadDocument downloads or exports a file.
//
// The metadata is fetched first; a file whose known size exceeds the
// configured ceiling is refused with 413 without requesting its content.
func (r *Runner) DownloadDocument(ctx context.Context, cfg *config.AddonConfig, in DownloadInput) *envelope.Response {
	return r.run(ctx, ActionDownload, cfg, in.FileID, func(ctx context.Context, log *slog.Logger) *envelope.Response {
		if in.FileID == "" {
			return envelope.Rejection(http.StatusBadRequest, CostDownload, MsgMissingFileID)
		}

		token, rejected := resolveToken(cfg, CostDownload)
		if rejected != nil {
			return rejected
		}

		ctx, cancel := withTimeout(ctx, cfg)
		defer cancel()

		client, err := r.newClient(ctx, cfg, token)
		if err != nil {
			return envelope.Failure(http.StatusInternalServerError, fmt.Sprintf("Failed to create Drive client: %v", err), nil)
		}

		var meta *drive.FileMetadata
		err = r.observe(ctx, instrumentation.OperationMetadata, func(ctx context.Context) error {
			var err error
			meta, err = client.GetMetadata(ctx, in.FileID)
			return err
		})
		if err != nil {
			return remoteFailure(err, "Metadata request failed", metadataMessage)
		}

		instrumentation.AddSpanEvent(ctx, "metadata.resolved",
			attribute.String("mime_type", meta.MimeType),
			attribute.Int64("size_bytes", meta.Size))

		if limit := cfg.MaxDownloadBytes(); meta.SizeKnown() && meta.Size > limit {
			return tooLarge(meta, limit, cfg.MaxDownloadSizeMB())
		}

		var (
			content    *drive.Content
			exportType string
		)
		if meta.IsGoogleApps() {
			exportType = in.ExportMimeType
			if exportType == "" {
				exportType = drive.DefaultExportMimeType
			}
			err = r.observe(ctx, instrumentation.OperationExport, func(ctx context.Context) error {
				var err error
				content, err = client.Export(ctx, in.FileID, exportType)
				return err
			})
		} else {
			if in.ExportMimeType != "" {
				log.Warn("Export MIME type ignored for non-Google Workspace file",
					slog.String("mime_type", meta.MimeType),
					slog.String("export_mime_type", in.ExportMimeType))
			}
			err = r.observe(ctx, instrumentation.OperationDownload, func(ctx context.Context) error {
				var err error
				content, err = client.DownloadMedia(ctx, in.FileID)
				return err
			})
		}
		if err != nil {
			return remoteFailure(err, "Request failed", downloadMessage)
		}

		return envelope.Success(statusOr(content.StatusCode, http.StatusOK), CostDownload,
			fmt.Sprintf("File downloaded successfully (%d bytes)", len(content.Data)),
			map[string]any{
				"fileId":           in.FileID,
				"file_name":        meta.Name,
				"content_base64":   base64.StdEncoding.EncodeToString(content.Data),
				"size_bytes":       len(content.Data),
				"content_type":     content.ContentType,
				"export_mime_type": exportType,
			})
	})
}

func tooLarge(meta *drive.FileMetadata, limit int64, limitMB int) *envelope.Response {
	msg := fmt.Sprintf("File '%s' size (%.2f MB) exceeds maximum allowed size (%d MB)",
		meta.Name, float64(meta.Size)/(1024*1024), limitMB)
	return envelope.Failure(http.StatusRequestEntityTooLarge, msg, map[string]any{
		"error":           msg,
		"file_size_bytes": meta.Size,
		"max_size_bytes":  limit,
		"file_name":       meta.Name,
	})
}

func metadataMessage(apiErr *drive.APIError) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return msgMetadataFallback
}

// downloadMessage extends apiMessage with a snippet of a non-JSON body.
func downloadMessage(apiErr *drive.APIError) string {
	if apiErr.Message != "" || apiErr.Description != "" {
		return apiMessage(apiErr)
	}
	if !apiErr.JSONBody && apiErr.Body != "" {
		return truncate(apiErr.Body, bodySnippetLength)
	}
	return fmt.Sprintf("HTTP %d", apiErr.StatusCode)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
