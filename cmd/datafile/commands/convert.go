package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/datafile/internal/cliutil"
	"github.com/erraggy/datafile/internal/pathutil"
	"github.com/erraggy/datafile/loader"
)

// NewConvertCmd builds the convert command.
func NewConvertCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-encode a data file",
		Long: `Read a data file and write it in the format implied by the output
extension: .yml/.yaml, .json, .toml, .msgpack/.mpk or .csv. Key order is kept.`,
		Example: `  datafile convert config.toml config.yml
  datafile convert records.csv records.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			if _, err := pathutil.SanitizeOutputPathFor(out, []string{in}); err != nil {
				return err
			}
			content, err := loader.Load(in, loader.WithLogger(env.Log))
			if err != nil {
				return err
			}
			path, err := saveDocument(env, out, content)
			if err != nil {
				return err
			}
			cliutil.Success(cmd.OutOrStdout(), "converted %s (%s) to %s (%s)",
				in, loader.DetectFormat(in), path, loader.DetectFormat(path))
			return nil
		},
	}
}
