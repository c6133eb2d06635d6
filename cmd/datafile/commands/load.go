package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/datafile/loader"
)

// LoadOptions holds the flags of the load command.
type LoadOptions struct {
	Format  string
	NoRaise bool
}

// NewLoadCmd builds the load command.
func NewLoadCmd(env *Env) *cobra.Command {
	o := &LoadOptions{}
	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Print a data file as YAML or JSON",
		Long: `Load a data file and print it. The reader follows the file extension:
.yml/.yaml/.json are YAML, .toml TOML, .msgpack/.mpk MessagePack and .csv
records keyed by the header row. Any other file is printed as text.`,
		Example: `  datafile load config.yml
  datafile load --format json services.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, env, args[0])
		},
	}
	cmd.Flags().StringVarP(&o.Format, "format", "f", FormatYAML, "output format: yaml, json, toml or csv")
	cmd.Flags().BoolVar(&o.NoRaise, "no-raise", false, "print an empty document instead of failing when the file cannot be read")
	return cmd
}

// Run loads path and prints it.
func (o *LoadOptions) Run(cmd *cobra.Command, env *Env, path string) error {
	if err := ValidateOutputFormat(o.Format); err != nil {
		return err
	}
	content, err := loader.Load(path, loader.WithRaiseErrors(!o.NoRaise), loader.WithLogger(env.Log))
	if err != nil {
		return err
	}
	if s, ok := content.(string); ok && loader.DetectFormat(path) == loader.FormatText {
		_, err := cmd.OutOrStdout().Write([]byte(s))
		return err
	}
	return writeDocument(cmd.OutOrStdout(), content, o.Format)
}
