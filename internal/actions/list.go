package actions

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/teemow/driveaddon/internal/config"
	"github.com/teemow/driveaddon/internal/drive"
	"github.com/teemow/driveaddon/internal/envelope"
	"github.com/teemow/driveaddon/internal/instrumentation"
)

// DefaultFolderID is the alias Drive uses for the user's top-level folder.
const DefaultFolderID = "root"

// ListInput selects the folder to list.
type ListInput struct {
	// FolderID defaults to "root" when empty.
	FolderID string

	IncludeTrashed bool
}

// ListDocuments lists the first page of a folder's children.
func ListDocuments(ctx context.Context, cfg *config.AddonConfig, in ListInput) *envelope.Response {
	return defaultRunner.ListDocuments(ctx, cfg, in)
}

// ListDocuments lists the first page of a folder's children.
func (r *Runner) ListDocuments(ctx context.Context, cfg *config.AddonConfig, in ListInput) *envelope.Response {
	if in.FolderID == "" {
		in.FolderID = DefaultFolderID
	}

	return r.run(ctx, ActionList, cfg, in.FolderID, func(ctx context.Context, log *slog.Logger) *envelope.Response {
		token, rejected := resolveToken(cfg, CostList)
		if rejected != nil {
			return rejected
		}

		ctx, cancel := withTimeout(ctx, cfg)
		defer cancel()

		client, err := r.newClient(ctx, cfg, token)
		if err != nil {
			return envelope.Failure(http.StatusInternalServerError, fmt.Sprintf("Failed to create Drive client: %v", err), nil)
		}

		pageSize := cfg.EffectivePageSize()
		log.Debug("Listing folder", slog.Bool("include_trashed", in.IncludeTrashed), slog.Int("page_size", pageSize))

		var result *drive.ListResult
		err = r.observe(ctx, instrumentation.OperationList, func(ctx context.Context) error {
			var err error
			result, err = client.ListFolder(ctx, in.FolderID, in.IncludeTrashed, pageSize)
			return err
		})
		if err != nil {
			return remoteFailure(err, "Request failed", apiMessage)
		}

		return envelope.Success(statusOr(result.StatusCode, http.StatusOK), CostList,
			fmt.Sprintf("%d file(s) retrieved.", len(result.Files)),
			map[string]any{
				"files": result.Files,
				"count": len(result.Files),
			})
	})
}
