package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/datafile/validator"
)

type validateInput struct {
	File      string `json:"file"       jsonschema:"Path to the YAML/JSON data file to validate"`
	SchemaDir string `json:"schema_dir" jsonschema:"Directory holding the schema files"`
	Schema    string `json:"schema"     jsonschema:"Schema file name within schema_dir"`
}

type validateOutput struct {
	Valid  bool                   `json:"valid"`
	Issues []validator.Descriptor `json:"issues,omitempty"`
}

func (h *handlers) handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	issues, err := validator.ValidateFile(input.File, input.SchemaDir, input.Schema,
		validator.WithContext(ctx),
		validator.WithLogger(h.log),
		validator.WithRemote(h.cfg.Refs.AllowRemote),
	)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}
	return nil, validateOutput{Valid: len(issues) == 0, Issues: issues}, nil
}
