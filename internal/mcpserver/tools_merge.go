package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/datafile/document"
	"github.com/erraggy/datafile/internal/pathutil"
	"github.com/erraggy/datafile/loader"
	"github.com/erraggy/datafile/merger"
)

type mergeInput struct {
	Files    []string `json:"files"              jsonschema:"Paths of the files to merge, in order"`
	Strategy string   `json:"strategy,omitempty" jsonschema:"deep (default), key, filename or text"`
	Keys     []string `json:"keys,omitempty"     jsonschema:"Key properties for strategy=key, applied in turn"`
	Output   string   `json:"output,omitempty"   jsonschema:"Optional file to write the result to; the format follows its extension"`
}

type mergeOutput struct {
	Count    int      `json:"count"`
	Keys     []string `json:"keys"`
	Document any      `json:"document"`
	Written  string   `json:"written,omitempty"`
}

func (h *handlers) handleMerge(_ context.Context, _ *mcp.CallToolRequest, input mergeInput) (*mcp.CallToolResult, mergeOutput, error) {
	if len(input.Files) == 0 {
		return errResult(fmt.Errorf("files is required")), mergeOutput{}, nil
	}
	if err := h.checkFileCount(len(input.Files)); err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	opts := []merger.Option{merger.WithLogger(h.log)}
	var (
		result *document.Map
		err    error
	)
	switch input.Strategy {
	case "", "deep":
		result, err = merger.MergeFiles(input.Files, opts...)
	case "key":
		if len(input.Keys) == 0 {
			return errResult(fmt.Errorf("strategy key requires keys")), mergeOutput{}, nil
		}
		for _, key := range input.Keys {
			if result, err = merger.MergeByKey(input.Files, key, result, opts...); err != nil {
				break
			}
		}
	case "filename":
		result, err = merger.MergeByFileName(input.Files, nil, opts...)
	case "text":
		result, err = merger.MergeTextByFileName(input.Files, nil, opts...)
	default:
		err = fmt.Errorf("invalid strategy %q; valid values: deep, key, filename, text", input.Strategy)
	}
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	output := mergeOutput{Count: result.Len(), Keys: result.Keys(), Document: result}
	if output.Keys == nil {
		output.Keys = []string{}
	}
	if input.Output != "" {
		path, err := pathutil.SanitizeOutputPathFor(input.Output, input.Files)
		if err != nil {
			return errResult(err), mergeOutput{}, nil
		}
		mode, err := h.cfg.Output.Mode()
		if err != nil {
			return errResult(err), mergeOutput{}, nil
		}
		if err := loader.Save(path, result, loader.WithFileMode(mode), loader.WithLogger(h.log)); err != nil {
			return errResult(err), mergeOutput{}, nil
		}
		output.Written = path
	}
	return nil, output, nil
}
