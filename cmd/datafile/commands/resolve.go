package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/datafile/refs"
)

// ResolveOptions holds the flags of the resolve command.
type ResolveOptions struct {
	Refs   bool
	Remote bool
	Format string
}

// NewResolveCmd builds the resolve command.
func NewResolveCmd(env *Env) *cobra.Command {
	o := &ResolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve <file>",
		Short: "Substitute $ref references in a document",
		Long: `Load a YAML/JSON document and replace every relative or remote $ref with
the value it points to. --refs prints the followed references keyed by their
location instead of the resolved document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, env, args[0])
		},
	}
	cmd.Flags().BoolVar(&o.Refs, "refs", false, "print the reference map instead of the resolved document")
	cmd.Flags().BoolVar(&o.Remote, "remote", false, "follow http(s) references (default from DATAFILE_REFS_ALLOW_REMOTE)")
	cmd.Flags().StringVarP(&o.Format, "format", "f", FormatYAML, "output format: yaml, json or toml")
	return cmd
}

// Run resolves path and prints the result.
func (o *ResolveOptions) Run(cmd *cobra.Command, env *Env, path string) error {
	if err := ValidateOutputFormat(o.Format); err != nil {
		return err
	}
	res, err := refs.Resolve(cmd.Context(), path,
		refs.WithLogger(env.Log),
		refs.WithConcurrency(env.Config.Refs.Concurrency),
		refs.WithRemote(o.Remote || env.Config.Refs.AllowRemote),
		refs.WithAllowPrivateIPs(env.Config.MCP.AllowPrivateIPs),
	)
	if err != nil {
		return err
	}
	for _, r := range res.Refs.Circular() {
		env.Log.Warn("circular reference left in place", "location", r.Location, "ref", r.URI)
	}
	if o.Refs {
		return writeDocument(cmd.OutOrStdout(), res.Refs.Document(), o.Format)
	}
	return writeDocument(cmd.OutOrStdout(), res.Resolved, o.Format)
}
