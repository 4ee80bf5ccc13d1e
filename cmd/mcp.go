package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/Carlosagamez2021/AI-Indexing/internal/search"
	"github.com/Carlosagamez2021/AI-Indexing/internal/store"
	"github.com/Carlosagamez2021/AI-Indexing/internal/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing codebase search tools",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	dbPath, err := requireIndex()
	if err != nil {
		return err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer st.Close()

	root, err := st.GetMeta("root")
	if err != nil || root == "" {
		root = filepath.Dir(filepath.Dir(dbPath))
	}

	engine := search.New(st)
	reader := tools.NewFileReader(root)
	overviewPath := filepath.Join(filepath.Dir(dbPath), "overview.md")

	s := mcpserver.NewMCPServer("aidx", "1.0.0", mcpserver.WithToolCapabilities(false))

	s.AddTool(searchCodebaseTool(), makeSearchHandler(engine))
	s.AddTool(readFileTool(), makeReadFileHandler(reader))
	s.AddTool(getFileRecordTool(), makeFileRecordHandler(st))
	s.AddTool(listIndexedFilesTool(), makeListFilesHandler(st))
	s.AddTool(getProjectOverviewTool(), makeOverviewHandler(overviewPath))

	return mcpserver.ServeStdio(s)
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// --- Tool schema builders ---

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func searchCodebaseTool() mcp.Tool {
	return mcp.NewTool("search_codebase",
		mcp.WithDescription("Search the indexed codebase with a natural language query. Returns the repository maps of the most relevant files, ranked by keyword and description relevance."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural language or keyword query to search the codebase"),
		),
	)
}

func readFileTool() mcp.Tool {
	return mcp.NewTool("read_file",
		mcp.WithDescription("Read the full contents of a file from the indexed codebase."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the file to read, relative to the project root"),
		),
	)
}

func getFileRecordTool() mcp.Tool {
	return mcp.NewTool("get_file_record",
		mcp.WithDescription("Get the LLM-generated repository map, description, and keywords for a specific indexed file."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path as indexed (relative to the project root)"),
		),
	)
}

func listIndexedFilesTool() mcp.Tool {
	return mcp.NewTool("list_indexed_files",
		mcp.WithDescription("List all files in the index with their keywords and description snippet."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
	)
}

func getProjectOverviewTool() mcp.Tool {
	return mcp.NewTool("get_project_overview",
		mcp.WithDescription("Get the high-level project overview synthesized from all file descriptions during indexing."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
	)
}

// --- Handler factories ---

func makeSearchHandler(engine *search.Engine) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		results, err := engine.Search(query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		return mcp.NewToolResultText(formatSearchResults(query, results)), nil
	}
}

func makeReadFileHandler(reader *tools.FileReader) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		if path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}

		text, err := reader.Execute(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("read failed: %v", err)), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

func makeFileRecordHandler(st store.Store) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		if path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}

		r, err := st.Get(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
		}
		if r == nil {
			return mcp.NewToolResultError(fmt.Sprintf("file %q not found in index — call list_indexed_files to see available paths", path)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("## %s\n\n**Keywords:** %s\n\n%s\n\n```\n%s\n```",
			r.Path, r.Keywords, r.Description, r.Content)), nil
	}
}

func makeListFilesHandler(st store.Store) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		records, err := st.List()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list files failed: %v", err)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "## Indexed files (%d)\n\n", len(records))
		for _, r := range records {
			snippet := r.Description
			if idx := strings.Index(snippet, "\n"); idx >= 0 {
				snippet = snippet[:idx]
			}
			if len(snippet) > 120 {
				snippet = snippet[:120] + "..."
			}
			fmt.Fprintf(&sb, "- **%s** (%s) — %s\n", r.Path, r.Keywords, snippet)
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func makeOverviewHandler(overviewPath string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := os.ReadFile(overviewPath)
		if err != nil {
			if os.IsNotExist(err) {
				return mcp.NewToolResultText("No overview available yet. Run 'aidx index <path>' to generate one."), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("read overview failed: %v", err)), nil
		}
		if len(data) == 0 {
			return mcp.NewToolResultText("Overview file exists but is empty."), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// --- Formatting helpers ---

func formatSearchResults(query string, results []search.ScoredRecord) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for query: %q", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Search results for %q (%d files)\n\n", query, len(results))

	for i, r := range results {
		fmt.Fprintf(&sb, "### Result %d: `%s` (score %d)\n\n", i+1, r.Record.Path, r.Score)
		fmt.Fprintf(&sb, "**Keywords:** %s\n\n%s\n\n", r.Record.Keywords, r.Record.Description)
		fmt.Fprintf(&sb, "```\n%s\n```\n\n", r.Record.Content)
	}

	return sb.String()
}
