package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/datafile/internal/cliutil"
	"github.com/erraggy/datafile/validator"
)

// ValidateOptions holds the flags of the validate command.
type ValidateOptions struct {
	SchemaDir string
	Schema    string
	Remote    bool
}

// NewValidateCmd builds the validate command.
func NewValidateCmd(env *Env) *cobra.Command {
	o := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate data files against a JSON Schema",
		Long: `Validate YAML/JSON data files against a JSON Schema file. The schema may
reference sibling schema files with relative $ref. Exits with status 1 when
any file has a violation.`,
		Example: `  datafile validate --schema-dir schemas --schema planetSchema.yml earth.yml mars.yml`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, env, args)
		},
	}
	cmd.Flags().StringVar(&o.SchemaDir, "schema-dir", ".", "directory holding the schema files")
	cmd.Flags().StringVar(&o.Schema, "schema", "", "schema file name within --schema-dir")
	cmd.Flags().BoolVar(&o.Remote, "remote", false, "allow http(s) schema references")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

// Run validates every file and prints a report.
func (o *ValidateOptions) Run(cmd *cobra.Command, env *Env, files []string) error {
	w := cmd.OutOrStdout()
	failed := 0
	for _, file := range files {
		issues, err := validator.ValidateFile(file, o.SchemaDir, o.Schema,
			validator.WithContext(cmd.Context()),
			validator.WithLogger(env.Log),
			validator.WithRemote(o.Remote || env.Config.Refs.AllowRemote),
		)
		if err != nil {
			return err
		}
		if len(issues) == 0 {
			cliutil.Success(w, "%s", file)
			continue
		}
		failed++
		cliutil.Failure(w, "%s", file)
		for _, d := range issues {
			cliutil.Issue(w, d.Kind, d.Desc, d.Path)
		}
	}
	if failed > 0 {
		env.Log.Debug("validation failed", "files", failed)
		return errViolations
	}
	return nil
}
