package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/datafile"
	"github.com/erraggy/datafile/internal/cliutil"
)

// NewVersionCmd builds the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliutil.Writef(cmd.OutOrStdout(), "datafile\n%s\n", datafile.BuildInfo())
			return nil
		},
	}
}
