package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/datafile/loader"
)

type loadInput struct {
	File string `json:"file" jsonschema:"Path to the data file"`
}

type loadOutput struct {
	Format   string `json:"format"`
	Document any    `json:"document,omitempty"`
	Text     string `json:"text,omitempty"`
}

func (h *handlers) handleLoad(_ context.Context, _ *mcp.CallToolRequest, input loadInput) (*mcp.CallToolResult, loadOutput, error) {
	format := loader.DetectFormat(input.File)
	v, err := loader.Load(input.File, loader.WithLogger(h.log))
	if err != nil {
		return errResult(err), loadOutput{}, nil
	}

	output := loadOutput{Format: string(format)}
	if s, ok := v.(string); ok && format == loader.FormatText {
		output.Text = s
	} else {
		output.Document = v
	}
	return nil, output, nil
}
