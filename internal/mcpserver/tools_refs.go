package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/datafile/refs"
)

type resolveRefsInput struct {
	File   string `json:"file"             jsonschema:"Path to the root YAML/JSON file"`
	Remote *bool  `json:"remote,omitempty" jsonschema:"Follow http(s) references (default from DATAFILE_REFS_ALLOW_REMOTE, false)"`
}

type refEntry struct {
	Location string `json:"location"`
	URI      string `json:"uri"`
	Type     string `json:"type"`
	Target   string `json:"target"`
	Circular bool   `json:"circular,omitempty"`
}

type resolveRefsOutput struct {
	Document any        `json:"document"`
	Refs     []refEntry `json:"refs"`
}

func (h *handlers) handleResolveRefs(ctx context.Context, _ *mcp.CallToolRequest, input resolveRefsInput) (*mcp.CallToolResult, resolveRefsOutput, error) {
	res, err := refs.Resolve(ctx, input.File,
		refs.WithLogger(h.log),
		refs.WithConcurrency(h.cfg.Refs.Concurrency),
		refs.WithRemote(boolOr(input.Remote, h.cfg.Refs.AllowRemote)),
		refs.WithAllowPrivateIPs(h.cfg.MCP.AllowPrivateIPs),
	)
	if err != nil {
		return errResult(err), resolveRefsOutput{}, nil
	}

	output := resolveRefsOutput{Document: res.Resolved, Refs: make([]refEntry, 0, res.Refs.Len())}
	for loc, r := range res.Refs.All() {
		output.Refs = append(output.Refs, refEntry{
			Location: loc,
			URI:      r.URI,
			Type:     r.Type,
			Target:   r.Target,
			Circular: r.Circular,
		})
	}
	return nil, output, nil
}
