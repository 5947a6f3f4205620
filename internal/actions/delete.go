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

// DeleteDocument moves a file to the trash. Trashing an already-trashed
// file succeeds.
func DeleteDocument(ctx context.Context, cfg *config.AddonConfig, fileID string) *envelope.Response {
	return defaultRunner.DeleteDocument(ctx, cfg, fileID)
}

// DeleteDocument moves a file to the trash.
func (r *Runner) DeleteDocument(ctx context.Context, cfg *config.AddonConfig, fileID string) *envelope.Response {
	return r.run(ctx, ActionDelete, cfg, fileID, func(ctx context.Context, log *slog.Logger) *envelope.Response {
		if fileID == "" {
			return envelope.Rejection(http.StatusBadRequest, CostDelete, MsgMissingFileID)
		}

		token, rejected := resolveToken(cfg, CostDelete)
		if rejected != nil {
			return rejected
		}

		ctx, cancel := withTimeout(ctx, cfg)
		defer cancel()

		client, err := r.newClient(ctx, cfg, token)
		if err != nil {
			return envelope.Failure(http.StatusInternalServerError, fmt.Sprintf("Failed to create Drive client: %v", err), nil)
		}

		var trashed *drive.TrashedFile
		err = r.observe(ctx, instrumentation.OperationTrash, func(ctx context.Context) error {
			var err error
			trashed, err = client.Trash(ctx, fileID)
			return err
		})
		if err != nil {
			return remoteFailure(err, "Request failed", apiMessage)
		}

		return envelope.Success(statusOr(trashed.StatusCode, http.StatusOK), CostDelete,
			"File moved to trash successfully",
			map[string]any{
				"trashed": true,
				"file":    trashed.AsMap(),
			})
	})
}
