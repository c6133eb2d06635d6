package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/datafile/walker"
)

type listFilesInput struct {
	Dir     string `json:"dir"               jsonschema:"Directory (or file) to list"`
	Recurse *bool  `json:"recurse,omitempty" jsonschema:"Descend into subdirectories (default from DATAFILE_WALK_RECURSE, true)"`
	Offset  int    `json:"offset,omitempty"  jsonschema:"Skip the first N files (for pagination)"`
	Limit   int    `json:"limit,omitempty"   jsonschema:"Maximum number of files to return"`
}

type findFilesInput struct {
	Dir          string `json:"dir"                      jsonschema:"Directory to search"`
	Pattern      string `json:"pattern"                  jsonschema:"Regular expression matched against each file's base name, or a doublestar pattern with glob=true"`
	Glob         bool   `json:"glob,omitempty"           jsonschema:"Treat pattern as a doublestar glob relative to dir"`
	Recurse      *bool  `json:"recurse,omitempty"        jsonschema:"Descend into subdirectories (regex mode only)"`
	SplitBaseDir bool   `json:"split_base_dir,omitempty" jsonschema:"Strip dir from the returned paths"`
	Offset       int    `json:"offset,omitempty"         jsonschema:"Skip the first N files (for pagination)"`
	Limit        int    `json:"limit,omitempty"          jsonschema:"Maximum number of files to return"`
}

type filesOutput struct {
	Total    int      `json:"total"`
	Returned int      `json:"returned"`
	Files    []string `json:"files"`
}

func (h *handlers) handleListFiles(_ context.Context, _ *mcp.CallToolRequest, input listFilesInput) (*mcp.CallToolResult, filesOutput, error) {
	files, err := walker.ListFiles(input.Dir,
		walker.WithRecurse(boolOr(input.Recurse, h.cfg.Walk.Recurse)),
		walker.WithLogger(h.log),
	)
	if err != nil {
		return errResult(err), filesOutput{}, nil
	}
	return nil, h.page(files, input.Offset, input.Limit), nil
}

func (h *handlers) handleFindFiles(_ context.Context, _ *mcp.CallToolRequest, input findFilesInput) (*mcp.CallToolResult, filesOutput, error) {
	if input.Pattern == "" {
		return errResult(fmt.Errorf("pattern is required")), filesOutput{}, nil
	}
	opts := []walker.Option{
		walker.WithRecurse(boolOr(input.Recurse, h.cfg.Walk.Recurse)),
		walker.WithSplitBaseDir(input.SplitBaseDir),
		walker.WithLogger(h.log),
	}

	var (
		files []string
		err   error
	)
	if input.Glob {
		files, err = walker.Glob(input.Dir, input.Pattern, opts...)
	} else {
		files, err = walker.FindFilesString(input.Dir, input.Pattern, opts...)
	}
	if err != nil {
		return errResult(err), filesOutput{}, nil
	}
	return nil, h.page(files, input.Offset, input.Limit), nil
}

func (h *handlers) page(files []string, offset, limit int) filesOutput {
	out := filesOutput{Total: len(files), Files: h.paginate(files, offset, limit)}
	if out.Files == nil {
		out.Files = []string{}
	}
	out.Returned = len(out.Files)
	return out
}
