package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/datafile/document"
	"github.com/erraggy/datafile/internal/cliutil"
	"github.com/erraggy/datafile/internal/options"
	"github.com/erraggy/datafile/internal/pathutil"
	"github.com/erraggy/datafile/merger"
)

// MergeOptions holds the flags of the merge command.
type MergeOptions struct {
	ByKey      []string
	ByFileName bool
	Text       bool
	Output     string
	Format     string
}

// NewMergeCmd builds the merge command.
func NewMergeCmd(env *Env) *cobra.Command {
	o := &MergeOptions{}
	cmd := &cobra.Command{
		Use:   "merge <file>...",
		Short: "Merge data files into one document",
		Long: `Merge YAML/JSON files in the order given. By default documents are deep
merged and later files win. --by-key stores each document under the value of
one of its properties; repeat it to fold several key properties in turn.
--by-filename and --text store each document, or its raw text, under its path.`,
		Example: `  datafile merge solarSystem.yml moons.yml earth.yml mars.yml
  datafile merge --by-key urlPattern --by-key uriTemplate services/*/service.yml
  datafile merge -o merged.json base.yml overrides.yml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, env, args)
		},
	}
	cmd.Flags().StringArrayVar(&o.ByKey, "by-key", nil, "key documents by this property (repeatable)")
	cmd.Flags().BoolVar(&o.ByFileName, "by-filename", false, "key documents by their file path")
	cmd.Flags().BoolVar(&o.Text, "text", false, "key raw file text by file path")
	cmd.Flags().StringVarP(&o.Output, "output", "o", "", "write the result to this file instead of stdout")
	cmd.Flags().StringVarP(&o.Format, "format", "f", FormatYAML, "stdout format: yaml, json, toml or csv")
	return cmd
}

// Run merges files and prints or saves the result.
func (o *MergeOptions) Run(cmd *cobra.Command, env *Env, files []string) error {
	err := options.AtMostOne(
		options.Flag{Name: "--by-key", Set: len(o.ByKey) > 0},
		options.Flag{Name: "--by-filename", Set: o.ByFileName},
		options.Flag{Name: "--text", Set: o.Text},
	)
	if err != nil {
		return err
	}
	if o.Output != "" {
		if _, err := pathutil.SanitizeOutputPathFor(o.Output, files); err != nil {
			return err
		}
	} else if err := ValidateOutputFormat(o.Format); err != nil {
		return err
	}

	result, err := o.merge(env, files)
	if err != nil {
		return err
	}
	env.Log.Debug("merged files", "files", len(files), "keys", result.Len())

	if o.Output == "" {
		return writeDocument(cmd.OutOrStdout(), result, o.Format)
	}
	path, err := saveDocument(env, o.Output, result)
	if err != nil {
		return err
	}
	cliutil.Success(cmd.OutOrStdout(), "merged %d files into %s", len(files), path)
	return nil
}

func (o *MergeOptions) merge(env *Env, files []string) (*document.Map, error) {
	opts := []merger.Option{merger.WithLogger(env.Log)}
	switch {
	case len(o.ByKey) > 0:
		var acc *document.Map
		for _, key := range o.ByKey {
			var err error
			if acc, err = merger.MergeByKey(files, key, acc, opts...); err != nil {
				return nil, err
			}
		}
		return acc, nil
	case o.ByFileName:
		return merger.MergeByFileName(files, nil, opts...)
	case o.Text:
		return merger.MergeTextByFileName(files, nil, opts...)
	default:
		return merger.MergeFiles(files, opts...)
	}
}
