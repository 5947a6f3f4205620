package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/driveaddon/internal/actions"
)

func newListCmd() *cobra.Command {
	var (
		folderID       string
		includeTrashed bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the files in a Drive folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAddon(true)
			if err != nil {
				return err
			}
			resp := a.ListDocuments(cmd.Context(), actions.ListInput{
				FolderID:       folderID,
				IncludeTrashed: includeTrashed,
			})
			return printEnvelope(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&folderID, "folder-id", actions.DefaultFolderID, "ID of the folder to list")
	cmd.Flags().BoolVar(&includeTrashed, "include-trashed", false, "List trashed files instead of live ones")

	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete FILE_ID",
		Short: "Move a Drive file to trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAddon(true)
			if err != nil {
				return err
			}
			return printEnvelope(cmd.OutOrStdout(), a.DeleteDocument(cmd.Context(), args[0]))
		},
	}
}

func newDownloadCmd() *cobra.Command {
	var exportMimeType string

	cmd := &cobra.Command{
		Use:   "download FILE_ID",
		Short: "Download a Drive file, exporting Google Workspace documents",
		Long: `Download a Drive file. Google Workspace documents are exported to
--export-mime-type (default text/plain); other files are downloaded as is.
The content is printed base64-encoded inside the response envelope.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAddon(true)
			if err != nil {
				return err
			}
			resp := a.DownloadDocument(cmd.Context(), actions.DownloadInput{
				FileID:         args[0],
				ExportMimeType: exportMimeType,
			})
			return printEnvelope(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&exportMimeType, "export-mime-type", "", "Export format for Google Workspace documents")

	return cmd
}

func newSelfTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Run the addon self-test",
		Long: `Run the addon self-test. It checks that every module in the capability
manifest answers offline checks; no configuration or network access is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAddon(false)
			if err != nil {
				return err
			}
			if !a.Test(cmd.Context()) {
				return fmt.Errorf("self-test failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Self-test passed")
			return nil
		},
	}
}
