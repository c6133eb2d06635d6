// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes datafile capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/datafile"
	"github.com/erraggy/datafile/internal/config"
	"github.com/erraggy/datafile/logger"
)

const serverInstructions = `datafile MCP server: loads, merges, lists, finds, reference-resolves and validates YAML/JSON/CSV/TOML/MessagePack data files.

Configuration: defaults come from DATAFILE_* environment variables, a .env file or a datafile.yaml/datafile.toml file in the working directory.

Key settings:
- DATAFILE_WALK_RECURSE (default: true): default for list_files and find_files
- DATAFILE_REFS_CONCURRENCY (default: 8): parallel document loads in resolve_refs
- DATAFILE_REFS_ALLOW_REMOTE (default: false): follow http(s) references
- DATAFILE_MCP_MAX_FILES (default: 1000): cap on files listed or merged per call
- DATAFILE_MCP_ALLOW_PRIVATE_IPS (default: false): allow remote references to private addresses

Merging: strategy "deep" merges files in order, "key" stores each document under the value of a property (several keys are applied in turn), "filename" and "text" store each document or raw text under its path.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	return newServer(cfg, log).Run(ctx, &mcp.StdioTransport{})
}

func newServer(cfg *config.Config, log logger.Logger) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "datafile", Version: datafile.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server, &handlers{cfg: cfg, log: logger.OrNop(log)})
	return server
}

// handlers carries the configuration shared by every tool.
type handlers struct {
	cfg *config.Config
	log logger.Logger
}

func registerAllTools(server *mcp.Server, h *handlers) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "load",
		Description: "Load a data file. YAML and JSON files return the parsed document, TOML and MessagePack files a mapping, CSV files a list of records keyed by the header row, anything else the raw text. Key order of the file is preserved.",
	}, h.handleLoad)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge",
		Description: "Merge several YAML/JSON files into one document. strategy=deep (default) deep-merges in order with later files winning; strategy=key stores each document under the value of one of its properties (set keys, applied in turn, e.g. [\"urlPattern\", \"uriTemplate\"]); strategy=filename stores each document under its path; strategy=text stores each file's raw text under its path. Set output to also write the result to a file.",
	}, h.handleMerge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_files",
		Description: "List the files under a directory. Recursive listings return paths joined with dir; non-recursive listings return bare file names. Directories are never listed. Use offset/limit to paginate.",
	}, h.handleListFiles)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_files",
		Description: "Find files under a directory whose base name matches a regular expression, or, with glob=true, whose path relative to dir matches a doublestar pattern such as **/*.yml. Use split_base_dir to return paths relative to dir.",
	}, h.handleFindFiles)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_refs",
		Description: "Load a YAML/JSON file and substitute every relative or remote $ref with the value it points to. Returns the resolved document and the list of followed references with their JSON pointer locations. Circular references are left in place and flagged.",
	}, h.handleResolveRefs)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate a YAML/JSON data file against a JSON Schema file located by schema_dir and schema. Schemas may $ref sibling files. Returns valid=true or one issue per violated rule category, each with its kind (e.g. ObjectValidationError), data path and description (e.g. \"missing: earthMass,moons\").",
	}, h.handleValidate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit means the configured file cap.
func (h *handlers) paginate(items []string, offset, limit int) []string {
	if limit <= 0 || limit > h.cfg.MCP.MaxFiles {
		limit = h.cfg.MCP.MaxFiles
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (h *handlers) checkFileCount(n int) error {
	if n > h.cfg.MCP.MaxFiles {
		return fmt.Errorf("too many files: %d (limit %d, set DATAFILE_MCP_MAX_FILES to raise it)", n, h.cfg.MCP.MaxFiles)
	}
	return nil
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

func boolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
