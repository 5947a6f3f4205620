package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/driveaddon/internal/actions"
	"github.com/teemow/driveaddon/internal/addon"
	"github.com/teemow/driveaddon/internal/server"
	"github.com/teemow/driveaddon/internal/tools/drive_tools"
)

// toolCosts maps each MCP tool to the token cost of the action behind it.
var toolCosts = map[string]int{
	drive_tools.ToolListDocuments:    actions.CostList,
	drive_tools.ToolDeleteDocument:   actions.CostDelete,
	drive_tools.ToolDownloadDocument: actions.CostDownload,
}

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate a markdown reference of the MCP tools from their registered
definitions, so the documentation cannot drift from the implementation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := registeredTools()
			if err != nil {
				return err
			}
			markdown := generateToolsMarkdown(tools)

			if outputFile == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), markdown)
				return err
			}
			if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// registeredTools registers every tool, delete included, on a throwaway
// server and returns the definitions sorted by name.
func registeredTools() ([]mcp.Tool, error) {
	sc, err := server.NewServerContext(context.Background(), addon.New())
	if err != nil {
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() { _ = sc.Shutdown() }()

	srv := mcpserver.NewMCPServer("driveaddon", version, mcpserver.WithToolCapabilities(true))
	if err := drive_tools.RegisterDriveTools(srv, sc, false); err != nil {
		return nil, fmt.Errorf("failed to register Drive tools: %w", err)
	}

	tools := make([]mcp.Tool, 0)
	for _, st := range srv.ListTools() {
		tools = append(tools, st.Tool)
	}
	slices.SortFunc(tools, func(a, b mcp.Tool) int { return strings.Compare(a.Name, b.Name) })
	return tools, nil
}

func generateToolsMarkdown(tools []mcp.Tool) string {
	var sb strings.Builder

	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("Tools available when running `driveaddon serve`. Generated from the tool definitions.\n\n")

	sb.WriteString("## Responses\n\n")
	sb.WriteString("Every tool returns the action's response envelope as JSON:\n\n")
	sb.WriteString("- `output.data`: the action payload, or `{\"error\": ...}` on failure\n")
	sb.WriteString("- `tokens`: the action's cost (zero after a remote failure)\n")
	sb.WriteString("- `message` and `code`: an HTTP-style status; non-2xx envelopes are returned as tool errors\n\n")
	fmt.Fprintf(&sb, "`%s` is only registered when the server runs with `--yolo`.\n\n", drive_tools.ToolDeleteDocument)

	sb.WriteString("## Google Drive Tools\n\n")
	for _, tool := range tools {
		writeToolMarkdown(&sb, tool)
	}
	return sb.String()
}

func writeToolMarkdown(sb *strings.Builder, tool mcp.Tool) {
	fmt.Fprintf(sb, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", tool.Description)
	}
	if cost, ok := toolCosts[tool.Name]; ok {
		fmt.Fprintf(sb, "Cost: %d tokens per call.\n\n", cost)
	}

	if len(tool.InputSchema.Properties) == 0 {
		return
	}

	names := make([]string, 0, len(tool.InputSchema.Properties))
	for name := range tool.InputSchema.Properties {
		names = append(names, name)
	}
	slices.Sort(names)

	sb.WriteString("| Argument | Type | Required | Description |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, name := range names {
		prop, ok := tool.InputSchema.Properties[name].(map[string]any)
		if !ok {
			continue
		}
		propType, _ := prop["type"].(string)
		if propType == "" {
			propType = "any"
		}
		required := "no"
		if slices.Contains(tool.InputSchema.Required, name) {
			required = "yes"
		}
		desc, _ := prop["description"].(string)
		fmt.Fprintf(sb, "| `%s` | %s | %s | %s |\n", name, propType, required, strings.ReplaceAll(desc, "|", `\|`))
	}
	sb.WriteString("\n")
}
