package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the driveaddon application
var rootCmd = &cobra.Command{
	Use:   "driveaddon",
	Short: "Google Drive addon: list, trash and download documents",
	Long: `driveaddon exposes three Google Drive actions (list a folder, move a
file to trash, download or export a file), each returning a uniform
response envelope.

It can run as:
  - A CLI tool running one action against a configuration file
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// Flags shared by every command that loads an addon configuration.
var (
	configFile     string
	credentialEnvs string
)

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "driveaddon version %s\n" .Version}}`)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Addon configuration file (.json, .yaml, .yml or .toml). Can also use DRIVEADDON_CONFIG env var.")
	rootCmd.PersistentFlags().StringVar(&credentialEnvs, "credential-env", "", "Comma-separated secret names to load as runtime credentials from environment variables (the upper-cased secret name, e.g. GOOGLE_DRIVE_ACCESS_TOKEN)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newSelfTestCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
