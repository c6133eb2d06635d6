package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/datafile/internal/cliutil"
	"github.com/erraggy/datafile/walker"
)

// ListOptions holds the flags of the list command.
type ListOptions struct {
	NoRecurse bool
}

// NewListCmd builds the list command.
func NewListCmd(env *Env) *cobra.Command {
	o := &ListOptions{}
	cmd := &cobra.Command{
		Use:   "list <dir>",
		Short: "List the files under a directory",
		Long: `List the files under a directory, one per line. Recursive listings print
paths joined with dir; --no-recurse prints the bare names of the files
directly inside dir.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := walker.ListFiles(args[0],
				walker.WithRecurse(env.Config.Walk.Recurse && !o.NoRecurse),
				walker.WithLogger(env.Log),
			)
			if err != nil {
				return err
			}
			printLines(cmd, files)
			return nil
		},
	}
	cmd.Flags().BoolVar(&o.NoRecurse, "no-recurse", false, "list only the top level of dir")
	return cmd
}

// FindOptions holds the flags of the find command.
type FindOptions struct {
	NoRecurse    bool
	SplitBaseDir bool
	Glob         bool
}

// NewFindCmd builds the find command.
func NewFindCmd(env *Env) *cobra.Command {
	o := &FindOptions{}
	cmd := &cobra.Command{
		Use:   "find <dir> <pattern>",
		Short: "Find files by name pattern",
		Long: `Find the files under dir whose base name matches a regular expression.
With --glob the pattern is a doublestar glob matched against the path
relative to dir, for example "**/service.yml".`,
		Example: `  datafile find services '^service\.ya?ml$'
  datafile find --glob --split-base-dir services '**/*.yml'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []walker.Option{
				walker.WithRecurse(env.Config.Walk.Recurse && !o.NoRecurse),
				walker.WithSplitBaseDir(o.SplitBaseDir),
				walker.WithLogger(env.Log),
			}
			var (
				files []string
				err   error
			)
			if o.Glob {
				files, err = walker.Glob(args[0], args[1], opts...)
			} else {
				files, err = walker.FindFilesString(args[0], args[1], opts...)
			}
			if err != nil {
				return err
			}
			printLines(cmd, files)
			return nil
		},
	}
	cmd.Flags().BoolVar(&o.NoRecurse, "no-recurse", false, "search only the top level of dir")
	cmd.Flags().BoolVar(&o.SplitBaseDir, "split-base-dir", false, "strip dir from the printed paths")
	cmd.Flags().BoolVar(&o.Glob, "glob", false, "treat pattern as a doublestar glob")
	return cmd
}

func printLines(cmd *cobra.Command, lines []string) {
	w := cmd.OutOrStdout()
	for _, line := range lines {
		cliutil.Writef(w, "%s\n", line)
	}
}
